package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/Paintersrp/procwatch/internal/cliutil"
)

// eventLogger writes lifecycle events to the supervisor's stderr so they
// never interleave with the child's own stdout. On a terminal it renders
// compact human-readable lines; otherwise it emits one JSON record per
// event for log shippers.
type eventLogger struct {
	out    io.Writer
	enc    *json.Encoder
	pretty bool
}

func newEventLogger(out io.Writer) *eventLogger {
	pretty := false
	if f, ok := out.(*os.File); ok {
		pretty = term.IsTerminal(int(f.Fd()))
	}
	return &eventLogger{out: out, enc: json.NewEncoder(out), pretty: pretty}
}

func (l *eventLogger) emit(record cliutil.LogRecord) {
	if !l.pretty {
		cliutil.EncodeLogEvent(l.enc, os.Stderr, record)
		return
	}
	line := fmt.Sprintf("%s %s %s", record.Timestamp.Format("15:04:05"), record.Event, record.Message)
	if record.Pid != 0 {
		line += fmt.Sprintf(" pid=%d", record.Pid)
	}
	if record.ExitCode != nil {
		line += fmt.Sprintf(" code=%d signal=%d", *record.ExitCode, *record.Signal)
	}
	fmt.Fprintln(l.out, line)
}
