package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Drydock/internal/repo"
	"github.com/shaiso/Drydock/internal/stack"
)

// NewStackCmds создаёт команды управления жизненным циклом стека.
func NewStackCmds(outputFn func() *Output) []*cobra.Command {
	return []*cobra.Command{
		newInitCmd(outputFn),
		newUpCmd(outputFn),
		newDownCmd(outputFn),
		newRestartCmd(outputFn),
		newCleanCmd(outputFn),
		newCleanAllCmd(outputFn),
		newLogsCmd(outputFn),
		newStatusCmd(outputFn),
		newShellCmd(outputFn),
		newDoctorCmd(outputFn),
	}
}

// composeFn ленивo создаёт обёртку compose; ошибка отсутствия бинаря
// всплывает только в командах, которым он нужен.
func composeFn() (*stack.Compose, error) {
	return stack.NewCompose(stack.ComposeConfig{})
}

func newInitCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Prepare the working directory (dags/, logs/, plugins/, .env)",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			if err := stack.Scaffold("."); err != nil {
				return err
			}
			out.Success("working directory ready")
			return nil
		},
	}
}

func newUpCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:     "up",
		Aliases: []string{"run"},
		Short:   "Start the stack in the background",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			c, err := composeFn()
			if err != nil {
				return err
			}
			if err := c.Up(cmd.Context()); err != nil {
				return err
			}
			out.Success("stack is up")
			return nil
		},
	}
}

func newDownCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:     "down",
		Aliases: []string{"stop"},
		Short:   "Stop the stack (volumes are kept)",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			c, err := composeFn()
			if err != nil {
				return err
			}
			if err := c.Down(cmd.Context(), false); err != nil {
				return err
			}
			out.Success("stack stopped")
			return nil
		},
	}
}

func newRestartCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Restart stack services",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			c, err := composeFn()
			if err != nil {
				return err
			}
			if err := c.Restart(cmd.Context()); err != nil {
				return err
			}
			out.Success("stack restarted")
			return nil
		},
	}
}

func newCleanCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Stop the stack and remove volumes (metadata db is lost)",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			c, err := composeFn()
			if err != nil {
				return err
			}
			if err := c.Down(cmd.Context(), true); err != nil {
				return err
			}
			out.Success("stack stopped, volumes removed")
			return nil
		},
	}
}

func newCleanAllCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "clean-all",
		Short: "Like clean, plus purge the logs directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			c, err := composeFn()
			if err != nil {
				return err
			}
			if err := c.Down(cmd.Context(), true); err != nil {
				return err
			}
			if err := purgeLogs("logs"); err != nil {
				return err
			}
			out.Success("stack stopped, volumes and logs removed")
			return nil
		},
	}
}

// purgeLogs чистит содержимое каталога логов, оставляя сам каталог.
func purgeLogs(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read logs dir: %w", err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", e.Name(), err)
		}
	}
	return nil
}

func newLogsCmd(outputFn func() *Output) *cobra.Command {
	var service string
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show stack logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := composeFn()
			if err != nil {
				return err
			}
			return c.Logs(cmd.Context(), service, follow)
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "Limit output to one service")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")

	return cmd
}

func newStatusCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show container state and recent DAG runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			c, err := composeFn()
			if err != nil {
				return err
			}
			if err := c.PS(cmd.Context()); err != nil {
				return err
			}

			// Свежие runs — best effort: база может быть ещё не поднята.
			printRecentRuns(cmd.Context(), out)
			return nil
		},
	}
}

// printRecentRuns выводит последний run каждого DAG'а, если база
// метаданных доступна.
func printRecentRuns(ctx context.Context, out *Output) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := repo.NewPool(ctx)
	if err != nil {
		out.Info("metadata db not reachable, skipping run summary")
		return
	}
	defer pool.Close()

	instances := repo.NewInstanceRepo(pool)
	dags, err := instances.ListDags(ctx)
	if err != nil || len(dags) == 0 {
		return
	}

	headers := []string{"DAG", "STATE", "LOGICAL DATE", "STARTED"}
	var rows [][]string
	type runRow struct {
		DagID       string `json:"dag_id"`
		State       string `json:"state"`
		LogicalDate string `json:"logical_date"`
		StartedAt   string `json:"started_at,omitempty"`
	}
	var jsonRows []runRow

	for _, dagID := range dags {
		runs, err := instances.ListRuns(ctx, dagID, 1)
		if err != nil || len(runs) == 0 {
			continue
		}
		r := runs[0]
		started := ""
		if r.StartedAt != nil {
			started = r.StartedAt.Format(time.RFC3339)
		}
		rows = append(rows, []string{dagID, string(r.State), r.LogicalDate.Format(time.RFC3339), started})
		jsonRows = append(jsonRows, runRow{
			DagID:       dagID,
			State:       string(r.State),
			LogicalDate: r.LogicalDate.Format(time.RFC3339),
			StartedAt:   started,
		})
	}

	if len(rows) > 0 {
		out.Print(headers, rows, jsonRows)
	}
}

func newShellCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "shell [service]",
		Short: "Open a shell inside a stack service (default: scheduler)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := "scheduler"
			if len(args) == 1 {
				service = args[0]
			}
			c, err := composeFn()
			if err != nil {
				return err
			}
			return c.Exec(cmd.Context(), service)
		},
	}
}

func newDoctorCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the stack environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			d := &stack.Doctor{Dir: "."}
			results := d.Run(cmd.Context())

			headers := []string{"CHECK", "STATUS", "DETAIL"}
			rows := make([][]string, len(results))
			for i, r := range results {
				rows[i] = []string{r.Name, string(r.Status), r.Detail}
			}
			out.Print(headers, rows, results)

			if !stack.Healthy(results) {
				return fmt.Errorf("environment checks failed")
			}
			return nil
		},
	}
}
