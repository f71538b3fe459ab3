package cli

import (
	stdcontext "context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/procwatch/internal/proc"
)

// context carries flag state shared across subcommands.
type context struct {
	jobFile *string
}

func NewRootCmd() *cobra.Command {
	root, _ := newRootCommand()
	return root
}

func newRootCommand() (*cobra.Command, *context) {
	var jobFile string

	root := &cobra.Command{
		Use:   "procwatch",
		Short: "Supervise a single process from launch to termination",
	}

	root.PersistentFlags().
		StringVarP(&jobFile, "file", "f", "", "Path to a job definition")

	ctx := &context{jobFile: &jobFile}
	root.AddCommand(newRunCmd(ctx))
	root.AddCommand(newCheckCmd(ctx))

	root.SilenceUsage = true
	root.SilenceErrors = true

	return root, ctx
}

// Execute runs the CLI entrypoint.
func Execute() {
	ctx, stop := signal.NotifyContext(stdcontext.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	root.SetContext(ctx)

	err := root.ExecuteContext(ctx)

	// Kill-on-release handles must not outlive the program, whichever way
	// the command ended.
	shutdownCtx, cancel := stdcontext.WithTimeout(stdcontext.Background(), 30*time.Second)
	proc.ShutdownAll(shutdownCtx)
	cancel()

	if err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
