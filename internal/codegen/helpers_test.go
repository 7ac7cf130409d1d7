package codegen

import (
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/hecate/internal/ir"
)

func quietOptions() Options {
	return Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func newTestSession(m *ir.Module) *Session {
	return NewSession(m, quietOptions())
}

// translate lowers m with quiet options and returns the output lines.
func translate(m *ir.Module) ([]string, *Report) {
	out, report := TranslateString(m, quietOptions())
	return strings.Split(strings.TrimSuffix(out, "\n"), "\n"), report
}

// section returns the lines after the label line "start:" up to, but not
// including, the label line "end:". An empty end reads to the end.
func section(lines []string, start, end string) []string {
	var out []string
	in := false
	for _, l := range lines {
		if l == start+":" {
			in = true
			continue
		}
		if in && end != "" && l == end+":" {
			break
		}
		if in {
			out = append(out, l)
		}
	}
	return out
}
