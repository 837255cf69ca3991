package errlog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/unnet/onu-rewrite/pkg/dumpfile"
)

var Quiet bool

var stderrLog io.Writer = os.Stderr

func Info(format string, args ...any) {
	if !Quiet {
		fmt.Fprintf(stderrLog, format+"\n", args...)
	}
}

func Warning(format string, args ...any) {
	PrintWithMarker("WARNING>>> ", format, args...)
}

// SetStderrLog redirects messages to file fname.
// An existing file is renamed before.
// With empty fname, messages go to current os.Stderr.
func SetStderrLog(fname string) {
	stderrLog = os.Stderr
	if fname != "" {
		dumpfile.Backup(fname)
		fh, err := dumpfile.Create(fname)
		if err != nil {
			Abort("Can't %v", err)
		}
		stderrLog = fh
	}
}

// Writer returns the destination of messages.
func Writer() io.Writer {
	return stderrLog
}

func PrintWithMarker(m string, format string, args ...any) {
	out := fmt.Sprintf(format, args...)
	out = strings.TrimSuffix(out, "\n")
	out = strings.ReplaceAll(out, "\n", "\n"+m)
	fmt.Fprintln(stderrLog, m+out)
}
