package harness

import (
	"fmt"
	"sort"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the lines that were searched to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Lines    []string // Lines the assertion was evaluated against
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Lines) > 0 {
		fmt.Fprintf(&buf, "\nOutput:\n")
		for i, line := range e.Lines {
			fmt.Fprintf(&buf, "  %3d| %s\n", i+1, line)
		}
	}

	return buf.String()
}

// assertContains checks that the expected lines appear as one consecutive run.
func assertContains(lines []string, assertion Assertion) error {
	want := assertion.Lines
	for i := 0; i+len(want) <= len(lines); i++ {
		match := true
		for j := range want {
			if lines[i+j] != want[j] {
				match = false
				break
			}
		}
		if match {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertContains,
		Expected: fmt.Sprintf("consecutive lines %q", want),
		Actual:   "not found in output",
		Lines:    lines,
	}
}

// assertOrder checks that the expected lines appear in the given order.
// Lines don't need to be consecutive. Each expected line is matched after
// the previous match, so a repeated line must occur that many times.
func assertOrder(lines []string, assertion Assertion) error {
	pos := 0
	for _, want := range assertion.Lines {
		found := -1
		for i := pos; i < len(lines); i++ {
			if lines[i] == want {
				found = i
				break
			}
		}
		if found < 0 {
			actual := fmt.Sprintf("missing line %q", want)
			if pos > 0 {
				actual = fmt.Sprintf("line %q not found after line %d", want, pos)
			}
			return &AssertionError{
				Type:     AssertOrder,
				Expected: fmt.Sprintf("lines in order: %q", assertion.Lines),
				Actual:   actual,
				Lines:    lines,
			}
		}
		pos = found + 1
	}

	return nil
}

// assertCount checks that the line appears exactly the specified number of times.
func assertCount(lines []string, assertion Assertion) error {
	count := countLine(lines, assertion.Line)
	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertCount,
			Expected: fmt.Sprintf("%d occurrences of %q", assertion.Count, assertion.Line),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Lines:    lines,
		}
	}
	return nil
}

// assertAbsent checks that the line never appears.
func assertAbsent(lines []string, assertion Assertion) error {
	if count := countLine(lines, assertion.Line); count > 0 {
		return &AssertionError{
			Type:     AssertAbsent,
			Expected: fmt.Sprintf("no occurrence of %q", assertion.Line),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Lines:    lines,
		}
	}
	return nil
}

// assertReport checks the named report fields. Fields are compared in
// sorted order so the first mismatch reported is deterministic.
func assertReport(result *Result, assertion Assertion) error {
	actual := reportFields(result.Report)

	fields := make([]string, 0, len(assertion.Report))
	for f := range assertion.Report {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, f := range fields {
		got, ok := actual[f]
		if !ok {
			return fmt.Errorf("unknown report field %q", f)
		}
		if want := assertion.Report[f]; got != want {
			return &AssertionError{
				Type:     AssertReport,
				Expected: fmt.Sprintf("%s = %d", f, want),
				Actual:   fmt.Sprintf("%s = %d", f, got),
			}
		}
	}
	return nil
}

func countLine(lines []string, line string) int {
	n := 0
	for _, l := range lines {
		if l == line {
			n++
		}
	}
	return n
}

// EvaluateAssertions runs every assertion against the result and returns
// the failure messages, in assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		lines := result.Lines
		if assertion.Function != "" {
			body, ok := result.FunctionLines(assertion.Function)
			if !ok {
				errors = append(errors, fmt.Sprintf("assertion %d (%s): function %q not emitted", i, assertion.Type, assertion.Function))
				continue
			}
			lines = body
		}

		var err error
		switch assertion.Type {
		case AssertContains:
			err = assertContains(lines, assertion)
		case AssertOrder:
			err = assertOrder(lines, assertion)
		case AssertCount:
			err = assertCount(lines, assertion)
		case AssertAbsent:
			err = assertAbsent(lines, assertion)
		case AssertReport:
			err = assertReport(result, assertion)
		default:
			err = fmt.Errorf("unknown assertion type: %s", assertion.Type)
		}

		if err != nil {
			errors = append(errors, fmt.Sprintf("assertion %d (%s): %v", i, assertion.Type, err))
		}
	}

	return errors
}
