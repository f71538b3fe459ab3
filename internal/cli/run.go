package cli

import (
	stdcontext "context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/procwatch/internal/cliutil"
	"github.com/Paintersrp/procwatch/internal/config"
	"github.com/Paintersrp/procwatch/internal/metrics"
	"github.com/Paintersrp/procwatch/internal/proc"
)

// exitError propagates the supervised process's exit status to the CLI's
// own exit code.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("process exited with status %d", e.code)
}

func newRunCmd(ctx *context) *cobra.Command {
	var (
		shell        string
		exe          string
		cwd          string
		stdin        string
		stdout       string
		stderr       string
		killOnExit   bool
		killSequence []string
		timeout      time.Duration
		metricsAddr  string
	)

	cmd := &cobra.Command{
		Use:   "run [flags] [--] [command args...]",
		Short: "Launch a process and supervise it until it exits",
		Long: `Launch the process described by a job file or by the command arguments,
then supervise it: wait for it to exit (optionally bounded by --timeout),
drive the kill escalation sequence on interrupt or timeout, and mirror the
child's exit status (128+signal when it died by signal).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := loadJob(ctx, args, shell)
			if err != nil {
				return err
			}
			spec, err := job.Spec()
			if err != nil {
				return err
			}
			applyRunFlags(cmd, &spec, exe, cwd, stdin, stdout, stderr, killOnExit)
			if cmd.Flags().Changed("kill-sequence") {
				seq, err := proc.ParseSequence(killSequence)
				if err != nil {
					return err
				}
				spec.KillSequence = seq
			}
			if !cmd.Flags().Changed("timeout") && job.Timeout.IsSet() {
				timeout = job.Timeout.Duration
			}

			if metricsAddr != "" {
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() { _ = srv.ListenAndServe() }()
				defer srv.Close()
			}

			return supervise(cmd.Context(), cmd, job.Name, spec, timeout)
		},
	}

	cmd.Flags().StringVar(&shell, "shell", "", "Single shell-interpreted command line (instead of an argument vector)")
	cmd.Flags().StringVar(&exe, "exe", "", "Executable override distinct from argv[0]")
	cmd.Flags().StringVar(&cwd, "cwd", "", "Working directory for the child (must exist)")
	cmd.Flags().StringVar(&stdin, "stdin", "", "Stdin binding: inherit, discard, or a file path")
	cmd.Flags().StringVar(&stdout, "stdout", "", "Stdout binding: inherit, discard, or a file path")
	cmd.Flags().StringVar(&stderr, "stderr", "", "Stderr binding: inherit, discard, or a file path")
	cmd.Flags().BoolVar(&killOnExit, "kill-on-exit", false, "Force-terminate the child when the supervisor exits")
	cmd.Flags().StringSliceVar(&killSequence, "kill-sequence", nil, "Kill escalation: alternating action,grace entries (e.g. graceful,2s,forceful)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Bound the supervised runtime; on expiry the kill sequence runs")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while supervising")

	return cmd
}

// loadJob builds the job either from -f or from the command arguments.
func loadJob(ctx *context, args []string, shell string) (*config.Job, error) {
	if *ctx.jobFile != "" {
		if len(args) > 0 || shell != "" {
			return nil, fmt.Errorf("a job file and an inline command are mutually exclusive")
		}
		return config.Load(*ctx.jobFile)
	}
	job := &config.Job{}
	switch {
	case shell != "" && len(args) > 0:
		return nil, fmt.Errorf("--shell and an argument vector are mutually exclusive")
	case shell != "":
		job.Command.Shell = shell
		job.Name = "shell"
	case len(args) > 0:
		job.Command.Argv = args
		job.Name = args[0]
	default:
		return nil, fmt.Errorf("a command is required: pass -f, --shell, or arguments")
	}
	return job, nil
}

func applyRunFlags(cmd *cobra.Command, spec *proc.Spec, exe, cwd, stdin, stdout, stderr string, killOnExit bool) {
	if cmd.Flags().Changed("exe") {
		spec.Exe = exe
	}
	if cmd.Flags().Changed("cwd") {
		spec.Dir = cwd
	}
	if cmd.Flags().Changed("stdin") {
		spec.Stdin = config.StreamSpec(stdin).Stream()
	}
	if cmd.Flags().Changed("stdout") {
		spec.Stdout = config.StreamSpec(stdout).Stream()
	}
	if cmd.Flags().Changed("stderr") {
		spec.Stderr = config.StreamSpec(stderr).Stream()
	}
	if cmd.Flags().Changed("kill-on-exit") {
		spec.KillOnRelease = killOnExit
	}
}

// supervise owns the launched handle for the rest of the command: wait,
// escalate on interrupt or timeout, and mirror the child's exit status.
func supervise(ctx stdcontext.Context, cmd *cobra.Command, jobName string, spec proc.Spec, timeout time.Duration) error {
	log := newEventLogger(cmd.ErrOrStderr())

	h, err := proc.Start(spec)
	if err != nil {
		metrics.ObserveStartFailure(jobName)
		log.emit(cliutil.NewLogRecord(jobName, cliutil.EventError, err.Error()))
		return err
	}
	defer h.Close()
	metrics.ObserveStart(jobName)
	log.emit(cliutil.NewLogRecord(jobName, cliutil.EventStart, commandLine(spec)).WithPid(h.Pid()))

	waitCtx := ctx
	if timeout > 0 {
		var cancel stdcontext.CancelFunc
		waitCtx, cancel = stdcontext.WithTimeout(ctx, timeout)
		defer cancel()
	}

	st, err := h.Wait(waitCtx)
	if err != nil {
		reason := "interrupted"
		if errors.Is(err, stdcontext.DeadlineExceeded) {
			reason = "timeout"
		}
		log.emit(cliutil.NewLogRecord(jobName, cliutil.EventTerminate, reason).WithPid(h.Pid()))
		confirmed := h.Terminate(stdcontext.Background(), spec.KillSequence)
		metrics.ObserveTermination(jobName, confirmed)
		if !confirmed {
			return fmt.Errorf("process %d did not die within the kill sequence", h.Pid())
		}
		var ok bool
		if st, ok = h.Status(); !ok {
			return fmt.Errorf("process %d terminated but status unavailable", h.Pid())
		}
	}

	end, _ := h.EndTime()
	metrics.ObserveExit(jobName, end.Sub(h.StartTime()))
	log.emit(cliutil.NewLogRecord(jobName, cliutil.EventExit, "").
		WithPid(h.Pid()).
		WithExit(st.ExitCode(), st.Signal()))

	code := st.ExitCode()
	if st.Signaled() {
		code = 128 + st.Signal()
	}
	if code != 0 {
		return exitError{code: code}
	}
	return nil
}

func commandLine(spec proc.Spec) string {
	if spec.Shell != "" {
		return spec.Shell
	}
	return strings.Join(spec.Argv, " ")
}
