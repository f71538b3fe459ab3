package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/procwatch/internal/config"
	"github.com/Paintersrp/procwatch/internal/proc"
)

func newCheckCmd(ctx *context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a job definition without launching anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			if *ctx.jobFile == "" {
				return fmt.Errorf("a job file is required: pass -f")
			}
			job, err := config.Load(*ctx.jobFile)
			if err != nil {
				return err
			}
			if _, err := job.Spec(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job %s loaded from %s\n", job.Name, *ctx.jobFile)
			if len(job.Command.Argv) > 0 {
				name := job.Exe
				if name == "" {
					name = job.Command.Argv[0]
				}
				path, err := proc.LookExecutable(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Executable: %s\n", path)
			} else {
				fmt.Fprintln(out, "Shell command; executable resolution deferred to the shell")
			}
			return nil
		},
	}
	return cmd
}
