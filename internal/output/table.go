package output

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/jbweber/virshkit/internal/executor"
)

// TableFormatter formats output for humans.
type TableFormatter struct {
	// NoHeaders omits the header row.
	NoHeaders bool
}

// FormatResult returns stdout as virsh printed it, followed by stderr.
func (f *TableFormatter) FormatResult(r *executor.Result) (string, error) {
	if r == nil {
		return "", nil
	}

	var b strings.Builder
	for _, s := range []string{r.Stdout, r.Stderr} {
		s = strings.TrimRight(s, "\n")
		if s == "" {
			continue
		}
		b.WriteString(s)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// FormatStates formats a state report as a table. The DAEMON column only
// appears when at least one row was probed.
func (f *TableFormatter) FormatStates(states []DomainState) (string, error) {
	if len(states) == 0 {
		return "No domains found\n", nil
	}

	probed := false
	for _, s := range states {
		if s.Daemon != "" {
			probed = true
			break
		}
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		if probed {
			_, _ = fmt.Fprintln(w, "NAME\tSTATE\tALIVE\tDAEMON")
		} else {
			_, _ = fmt.Fprintln(w, "NAME\tSTATE\tALIVE")
		}
	}

	for _, s := range states {
		state := s.State
		if state == "" {
			state = "-"
		}
		alive := "no"
		if s.Alive {
			alive = "yes"
		}

		if !probed {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, state, alive)
			continue
		}

		daemon := s.Daemon
		if daemon == "" {
			daemon = "-"
		}
		if s.Mismatch() {
			daemon += " (mismatch)"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Name, state, alive, daemon)
	}

	_ = w.Flush()
	return buf.String(), nil
}
