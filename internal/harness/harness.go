package harness

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/hecate/internal/codegen"
	"github.com/roach88/hecate/internal/ir"
	"github.com/roach88/hecate/internal/loader"
)

// Run loads the scenario's module, translates it and evaluates the
// assertions against the output. Load failures are returned as errors;
// assertion failures are recorded in the Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with lowering diagnostics sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	m, err := loader.Load(scenario.Module)
	if err != nil {
		return nil, fmt.Errorf("failed to load module: %w", err)
	}

	out, report := codegen.TranslateString(m, codegen.Options{
		EntryPoint:       scenario.Entry,
		InspectIntrinsic: scenario.Inspect,
		InitStrings:      scenario.InitStrings,
		Logger:           logger,
	})

	result := NewResult()
	result.Output = out
	result.Report = *report
	if out != "" {
		result.Lines = strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	}
	result.functions = splitFunctions(m, result.Lines)

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// splitFunctions cuts lines into per-function bodies. Labels are searched
// in emission order so a block sharing a function's name is not mistaken
// for the function itself.
func splitFunctions(m *ir.Module, lines []string) map[string][]string {
	type span struct {
		name  string
		start int
	}
	var spans []span
	cursor := 0
	for _, fid := range m.Funcs() {
		fn := m.Func(fid)
		if fn.IsDeclaration() {
			continue
		}
		for i := cursor; i < len(lines); i++ {
			if lines[i] == fn.Name+":" {
				spans = append(spans, span{name: fn.Name, start: i})
				cursor = i + 1 + len(fn.Blocks)
				break
			}
		}
	}

	out := make(map[string][]string, len(spans))
	for i, sp := range spans {
		end := len(lines)
		if i+1 < len(spans) {
			end = spans[i+1].start
		}
		out[sp.name] = lines[sp.start+1 : end]
	}
	return out
}
