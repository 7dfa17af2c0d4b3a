package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Drydock/internal/dagdef"
	"github.com/shaiso/Drydock/internal/lint"
)

const defaultDagsDir = "dags"

// NewDagCmd создаёт группу команд для работы с определениями DAG'ов.
func NewDagCmd(outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dag",
		Short: "Validate and lint DAG definitions",
	}

	cmd.AddCommand(
		newDagValidateCmd(outputFn),
		newDagLintCmd(outputFn),
		newDagResourcesCmd(outputFn),
		newDagFixResourcesCmd(outputFn),
	)

	return cmd
}

// dagsDirFlag вешает общий флаг --dir на команду.
func dagsDirFlag(cmd *cobra.Command, dir *string) {
	cmd.Flags().StringVar(dir, "dir", defaultDagsDir, "Directory with DAG definitions")
}

func newDagValidateCmd(outputFn func() *Output) *cobra.Command {
	var dir string
	var showSchedule bool

	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Parse and validate DAG definitions (structure, cron, graph)",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			results, err := collectResults(dir, args)
			if err != nil {
				return err
			}

			headers := []string{"FILE", "DAG", "TASKS", "RESULT"}
			if showSchedule {
				headers = append(headers, "NEXT RUN")
			}
			var rows [][]string
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					row := []string{r.Path, "-", "-", r.Err.Error()}
					if showSchedule {
						row = append(row, "-")
					}
					rows = append(rows, row)
					continue
				}
				row := []string{r.Path, r.Def.DagID, strconv.Itoa(len(r.Def.Tasks)), "ok"}
				if showSchedule {
					row = append(row, nextRunOf(r.Def.Schedule))
				}
				rows = append(rows, row)
			}
			out.Print(headers, rows, results)

			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, len(results))
			}
			out.Success(fmt.Sprintf("%d files valid", len(results)))
			return nil
		},
	}

	dagsDirFlag(cmd, &dir)
	cmd.Flags().BoolVar(&showSchedule, "show-schedule", false, "Show the next run time per DAG")
	return cmd
}

// nextRunOf форматирует следующий запуск по расписанию ("-" без него).
func nextRunOf(schedule string) string {
	if schedule == "" {
		return "-"
	}
	next, err := dagdef.NextRun(schedule, time.Now())
	if err != nil {
		return "-"
	}
	return next.Format(time.RFC3339)
}

func newDagLintCmd(outputFn func() *Output) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "lint [file...]",
		Short: "Validate plus naming and resource-limit checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			results, err := collectResults(dir, args)
			if err != nil {
				return err
			}
			return runLint(out, results, func(r dagdef.FileResult) lint.Report {
				return lint.CheckDag(r.Def)
			})
		},
	}

	dagsDirFlag(cmd, &dir)
	return cmd
}

func newDagResourcesCmd(outputFn func() *Output) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "resources [file...]",
		Short: "Check max_active_runs / max_active_tasks limits",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			results, err := collectResults(dir, args)
			if err != nil {
				return err
			}
			return runLint(out, results, func(r dagdef.FileResult) lint.Report {
				return lint.CheckResources(r.Def)
			})
		},
	}

	dagsDirFlag(cmd, &dir)
	return cmd
}

func newDagFixResourcesCmd(outputFn func() *Output) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "fix-resources [file...]",
		Short: "Write missing resource limits into DAG files",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			paths := args
			if len(paths) == 0 {
				results, err := dagdef.Scan(dir)
				if err != nil {
					return err
				}
				for _, r := range results {
					paths = append(paths, r.Path)
				}
			}

			changed := 0
			for _, path := range paths {
				res, err := lint.FixResourcesFile(path)
				if err != nil {
					out.Error(err.Error())
					continue
				}
				if res.Changed {
					changed++
					out.Success(fmt.Sprintf("%s: added %s", path, strings.Join(res.Added, ", ")))
				}
			}

			if changed == 0 {
				out.Info("nothing to fix")
			}
			return nil
		},
	}

	dagsDirFlag(cmd, &dir)
	return cmd
}

// collectResults разбирает явно указанные файлы либо сканирует каталог.
func collectResults(dir string, args []string) ([]dagdef.FileResult, error) {
	if len(args) == 0 {
		results, err := dagdef.Scan(dir)
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			return nil, fmt.Errorf("no DAG definitions found in %s", dir)
		}
		return results, nil
	}

	results := make([]dagdef.FileResult, 0, len(args))
	for _, path := range args {
		def, err := dagdef.ParseFile(path)
		results = append(results, dagdef.FileResult{Path: path, Def: def, Err: err})
	}
	return results, nil
}

// runLint применяет проверку к каждому валидному файлу и печатает отчёт.
func runLint(out *Output, results []dagdef.FileResult, check func(dagdef.FileResult) lint.Report) error {
	type fileReport struct {
		Path     string   `json:"path"`
		Errors   []string `json:"errors,omitempty"`
		Warnings []string `json:"warnings,omitempty"`
	}

	var reports []fileReport
	errCount, warnCount := 0, 0

	for _, r := range results {
		fr := fileReport{Path: r.Path}
		if r.Err != nil {
			fr.Errors = []string{r.Err.Error()}
		} else {
			rep := check(r)
			fr.Errors = rep.Errors
			fr.Warnings = rep.Warnings
		}
		errCount += len(fr.Errors)
		warnCount += len(fr.Warnings)
		reports = append(reports, fr)
	}

	headers := []string{"FILE", "LEVEL", "MESSAGE"}
	var rows [][]string
	for _, fr := range reports {
		for _, e := range fr.Errors {
			rows = append(rows, []string{fr.Path, "error", e})
		}
		for _, w := range fr.Warnings {
			rows = append(rows, []string{fr.Path, "warning", w})
		}
	}
	if len(rows) > 0 {
		out.Print(headers, rows, reports)
	}

	switch {
	case errCount > 0:
		return fmt.Errorf("%d errors, %d warnings in %d files", errCount, warnCount, len(results))
	case warnCount > 0:
		out.Warn(fmt.Sprintf("%d warnings in %d files", warnCount, len(results)))
	default:
		out.Success(fmt.Sprintf("%d files clean", len(results)))
	}
	return nil
}
