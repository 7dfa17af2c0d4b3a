// Drydock CLI — управление локальным dev-стеком workflow-оркестрации
// и проверка YAML-определений DAG'ов.
//
// Использование:
//
//	drydock [--json] <command> [flags]
//
// Команды:
//
//	init / up / down / restart / clean / clean-all   Жизненный цикл стека
//	logs / status / shell / doctor                   Диагностика
//	dag validate|lint|resources|fix-resources        Проверка определений
//	wait --dag ID --task ID                          Ожидание чужой задачи
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Drydock/internal/cli"
	"github.com/shaiso/Drydock/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	telemetry.SetupLogger()

	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "drydock",
		Short:         "Drydock — local workflow stack harness",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(cli.NewStackCmds(outputFn)...)
	rootCmd.AddCommand(
		cli.NewDagCmd(outputFn),
		cli.NewWaitCmd(outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
