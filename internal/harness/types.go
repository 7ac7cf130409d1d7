package harness

import (
	"encoding/json"

	"github.com/roach88/hecate/internal/codegen"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates every assertion held.
	Pass bool `json:"pass"`

	// Output is the complete emitted assembly.
	Output string `json:"output"`

	// Lines is Output split into lines, without the trailing empty line.
	Lines []string `json:"-"`

	// Report summarizes the translation.
	Report codegen.Report `json:"report"`

	// Errors contains assertion failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// functions maps a defined function's name to its body lines,
	// from its label line up to the next function label.
	functions map[string][]string
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Lines:     []string{},
		Errors:    []string{},
		functions: make(map[string][]string),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// FunctionLines returns the body lines of a defined function, excluding its
// label line. The second result is false if no such function was emitted.
func (r *Result) FunctionLines(name string) ([]string, bool) {
	lines, ok := r.functions[name]
	return lines, ok
}

// reportFields returns the report as a map keyed by JSON field name.
func reportFields(rep codegen.Report) map[string]int {
	data, err := json.Marshal(rep)
	if err != nil {
		return nil
	}
	var fields map[string]int
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	return fields
}

func isReportField(name string) bool {
	_, ok := reportFields(codegen.Report{})[name]
	return ok
}
