package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/hecate/internal/loader"
)

// Scenario is a lowering conformance test: one module document, the
// translation options to apply, and assertions over the emitted assembly.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Module is the path of the module document to translate.
	// Relative paths are resolved against the scenario file's directory.
	Module string `yaml:"module"`

	// Entry overrides the entry function (default "main").
	Entry string `yaml:"entry,omitempty"`

	// Inspect overrides the debug intrinsic name (default "inspect").
	Inspect string `yaml:"inspect,omitempty"`

	// InitStrings enables the globalinit block.
	InitStrings bool `yaml:"init_strings,omitempty"`

	// Assertions validate the emitted lines and the report.
	// Supported types: contains, order, count, absent, report
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates the emitted assembly.
type Assertion struct {
	// Type specifies the assertion type:
	// - "contains": Lines appear as one consecutive run
	// - "order": Lines appear in order, other lines may intervene
	// - "count": Line appears exactly Count times
	// - "absent": Line does not appear
	// - "report": Report fields have the given values
	Type string `yaml:"type"`

	// Function restricts line assertions to one function's body.
	Function string `yaml:"function,omitempty"`

	// Lines are the expected lines (contains, order).
	Lines []string `yaml:"lines,omitempty"`

	// Line is the single line counted or excluded (count, absent).
	Line string `yaml:"line,omitempty"`

	// Count is the expected number of occurrences (count).
	Count int `yaml:"count,omitempty"`

	// Report maps report field names, as in the JSON form, to values.
	Report map[string]int `yaml:"report,omitempty"`
}

// Assertion type constants.
const (
	AssertContains = "contains"
	AssertOrder    = "order"
	AssertCount    = "count"
	AssertAbsent   = "absent"
	AssertReport   = "report"
)

// LoadScenario reads and parses a scenario YAML file, resolving the module
// path against the scenario's own directory.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving a relative module path against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Reject unknown fields so a typo like "assertion:" fails loudly.
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Module != "" && !filepath.IsAbs(scenario.Module) && basePath != "" {
		scenario.Module = filepath.Join(basePath, scenario.Module)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Module == "" {
		return fmt.Errorf("module is required")
	}

	if !loader.IsModuleFile(s.Module) {
		return fmt.Errorf("module %s: unsupported extension", s.Module)
	}

	if _, err := os.Stat(s.Module); os.IsNotExist(err) {
		return fmt.Errorf("module file not found: %s", s.Module)
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertContains, AssertOrder:
		if len(a.Lines) == 0 {
			return fmt.Errorf("assertions[%d]: lines list is required for %s", index, a.Type)
		}
	case AssertCount:
		if a.Line == "" {
			return fmt.Errorf("assertions[%d]: line is required for count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for count", index)
		}
	case AssertAbsent:
		if a.Line == "" {
			return fmt.Errorf("assertions[%d]: line is required for absent", index)
		}
	case AssertReport:
		if len(a.Report) == 0 {
			return fmt.Errorf("assertions[%d]: report fields are required for report", index)
		}
		for field := range a.Report {
			if !isReportField(field) {
				return fmt.Errorf("assertions[%d]: unknown report field %q", index, field)
			}
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	if a.Type == AssertReport && a.Function != "" {
		return fmt.Errorf("assertions[%d]: function does not apply to report", index)
	}

	return nil
}
