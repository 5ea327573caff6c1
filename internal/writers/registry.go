// internal/writers/registry.go
package writers

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"syscall"

	"plassembler/internal/summary"
)

// Report is everything a summary writer may render.
type Report struct {
	RunID   string
	Version string
	Mode    string
	Table   summary.Table
	Suspect []summary.Row
}

// Summary writer registry (format → handler). Formats register in init().
var SummaryWriters = map[string]func(w io.Writer, r Report) error{}

// RegisterSummary is idempotent, last wins.
func RegisterSummary(format string, fn func(io.Writer, Report) error) { SummaryWriters[format] = fn }

func WriteSummary(format string, w io.Writer, r Report) error {
	fn, ok := SummaryWriters[format]
	if !ok {
		return fmt.Errorf("unknown summary format %q (no writer registered)", format)
	}
	return fn(w, r)
}

// Formats lists the registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(SummaryWriters))
	for k := range SummaryWriters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsBrokenPipe is true when stdout went away mid-table (plassembler run ... | head).
func IsBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}
