package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Drydock/internal/domain"
	"github.com/shaiso/Drydock/internal/repo"
	"github.com/shaiso/Drydock/internal/waiter"
)

// NewWaitCmd создаёт команду блокирующего ожидания задачи чужого DAG'а.
func NewWaitCmd(outputFn func() *Output) *cobra.Command {
	var (
		dagID    string
		taskID   string
		timeout  time.Duration
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Block until a task in another DAG reaches a terminal state",
		Long: `Polls the stack's metadata database until the latest instance of the
target task succeeds, fails, or the timeout elapses. The database is
only read; nothing in the stack is mutated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			target, err := domain.NewTaskRef(dagID, taskID)
			if err != nil {
				return err
			}

			pool, err := repo.NewPool(cmd.Context())
			if err != nil {
				return fmt.Errorf("connect metadata db: %w", err)
			}
			defer pool.Close()

			w, err := waiter.New(waiter.Config{
				Source:       repo.NewInstanceRepo(pool),
				Target:       target,
				PollInterval: interval,
				Timeout:      timeout,
			})
			if err != nil {
				return err
			}

			out.Info(fmt.Sprintf("waiting for %s (timeout %s, poll every %s)", target, timeout, interval))
			if err := w.Wait(cmd.Context()); err != nil {
				return err
			}
			out.Success(fmt.Sprintf("%s succeeded", target))
			return nil
		},
	}

	cmd.Flags().StringVar(&dagID, "dag", "", "Target DAG id (required)")
	cmd.Flags().StringVar(&taskID, "task", "", "Target task id (required)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Overall wait deadline")
	cmd.Flags().DurationVar(&interval, "interval", 10*time.Second, "Poll interval")
	cmd.MarkFlagRequired("dag")
	cmd.MarkFlagRequired("task")

	return cmd
}
