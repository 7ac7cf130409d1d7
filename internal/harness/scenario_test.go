package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestModule writes a minimal module document for testing.
func createTestModule(t *testing.T, dir, name string) string {
	t.Helper()
	modulesDir := filepath.Join(dir, "modules")
	require.NoError(t, os.MkdirAll(modulesDir, 0755))
	path := filepath.Join(modulesDir, name)
	content := "functions:\n  - name: main\n    blocks:\n      - insts:\n          - {op: ret}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	dir := t.TempDir()
	modulePath := createTestModule(t, dir, "main.yaml")

	path := writeScenario(t, dir, `
name: test_scenario
description: "Test scenario for validation"
module: modules/main.yaml
entry: start
inspect: dbg
init_strings: true
assertions:
  - type: contains
    function: main
    lines: ["  ret"]
  - type: report
    report: {functions: 1}
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Equal(t, modulePath, scenario.Module, "module resolves against the scenario directory")
	assert.Equal(t, "start", scenario.Entry)
	assert.Equal(t, "dbg", scenario.Inspect)
	assert.True(t, scenario.InitStrings)
	require.Len(t, scenario.Assertions, 2)
	assert.Equal(t, "main", scenario.Assertions[0].Function)
	assert.Equal(t, map[string]int{"functions": 1}, scenario.Assertions[1].Report)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	dir := t.TempDir()
	createTestModule(t, dir, "main.yaml")

	path := writeScenario(t, dir, `
name: typo
description: "misspelled assertions key"
module: modules/main.yaml
assertion:
  - type: absent
    line: x
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
	assert.Contains(t, err.Error(), "assertion")
}

func TestLoadScenarioWithBasePath(t *testing.T) {
	dir := t.TempDir()
	modulePath := createTestModule(t, dir, "main.yaml")
	scenariosDir := filepath.Join(dir, "scenarios")
	require.NoError(t, os.MkdirAll(scenariosDir, 0755))

	path := writeScenario(t, scenariosDir, `
name: based
description: "module relative to an explicit base"
module: main.yaml
assertions:
  - type: count
    line: "  ret"
    count: 1
`)

	scenario, err := LoadScenarioWithBasePath(path, filepath.Dir(modulePath))
	require.NoError(t, err)
	assert.Equal(t, modulePath, scenario.Module)
}

func TestLoadScenario_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing name",
			body:    "description: d\nmodule: modules/main.yaml\nassertions: [{type: absent, line: x}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			body:    "name: n\nmodule: modules/main.yaml\nassertions: [{type: absent, line: x}]\n",
			wantErr: "description is required",
		},
		{
			name:    "missing module",
			body:    "name: n\ndescription: d\nassertions: [{type: absent, line: x}]\n",
			wantErr: "module is required",
		},
		{
			name:    "module not found",
			body:    "name: n\ndescription: d\nmodule: modules/gone.yaml\nassertions: [{type: absent, line: x}]\n",
			wantErr: "module file not found",
		},
		{
			name:    "unsupported module extension",
			body:    "name: n\ndescription: d\nmodule: modules/main.ll\nassertions: [{type: absent, line: x}]\n",
			wantErr: "unsupported extension",
		},
		{
			name:    "no assertions",
			body:    "name: n\ndescription: d\nmodule: modules/main.yaml\n",
			wantErr: "assertions list is required",
		},
		{
			name:    "assertion without type",
			body:    "name: n\ndescription: d\nmodule: modules/main.yaml\nassertions: [{line: x}]\n",
			wantErr: "assertions[0]: type is required",
		},
		{
			name:    "unknown assertion type",
			body:    "name: n\ndescription: d\nmodule: modules/main.yaml\nassertions: [{type: trace_contains}]\n",
			wantErr: `unknown assertion type "trace_contains"`,
		},
		{
			name:    "contains without lines",
			body:    "name: n\ndescription: d\nmodule: modules/main.yaml\nassertions: [{type: contains}]\n",
			wantErr: "lines list is required for contains",
		},
		{
			name:    "order without lines",
			body:    "name: n\ndescription: d\nmodule: modules/main.yaml\nassertions: [{type: order}]\n",
			wantErr: "lines list is required for order",
		},
		{
			name:    "count without line",
			body:    "name: n\ndescription: d\nmodule: modules/main.yaml\nassertions: [{type: count, count: 1}]\n",
			wantErr: "line is required for count",
		},
		{
			name:    "negative count",
			body:    "name: n\ndescription: d\nmodule: modules/main.yaml\nassertions: [{type: count, line: x, count: -1}]\n",
			wantErr: "count must be non-negative",
		},
		{
			name:    "absent without line",
			body:    "name: n\ndescription: d\nmodule: modules/main.yaml\nassertions: [{type: absent}]\n",
			wantErr: "line is required for absent",
		},
		{
			name:    "report without fields",
			body:    "name: n\ndescription: d\nmodule: modules/main.yaml\nassertions: [{type: report}]\n",
			wantErr: "report fields are required",
		},
		{
			name:    "unknown report field",
			body:    "name: n\ndescription: d\nmodule: modules/main.yaml\nassertions: [{type: report, report: {registers: 1}}]\n",
			wantErr: `unknown report field "registers"`,
		},
		{
			name:    "report scoped to function",
			body:    "name: n\ndescription: d\nmodule: modules/main.yaml\nassertions: [{type: report, function: main, report: {functions: 1}}]\n",
			wantErr: "function does not apply to report",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			createTestModule(t, dir, "main.yaml")
			require.NoError(t, os.WriteFile(filepath.Join(dir, "modules", "main.ll"), []byte("x"), 0644))
			path := writeScenario(t, dir, tt.body)

			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_Testdata(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			s, err := LoadScenario(f)
			require.NoError(t, err)
			assert.FileExists(t, s.Module)
		})
	}
}
