package harness

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hecate/internal/loader"
)

func loadTestdata(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestRunTestdataScenarios(t *testing.T) {
	for _, name := range []string{"sample", "storeload", "exhaustion", "strings"} {
		t.Run(name, func(t *testing.T) {
			result, err := Run(loadTestdata(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRunSplitsFunctions(t *testing.T) {
	result, err := Run(loadTestdata(t, "sample"))
	require.NoError(t, err)

	helper, ok := result.FunctionLines("helper")
	require.True(t, ok)
	assert.Equal(t, []string{
		"Block0:",
		"  ; plus R3 = R2 + 2",
		"  load R3, R2",
		"  add R3, 2",
		"  ; returning R3",
		"  ret",
	}, helper)

	body, ok := result.FunctionLines("main")
	require.True(t, ok)
	assert.Equal(t, "entry:", body[0])
	assert.Equal(t, "  halt ; main ended", body[len(body)-1])

	_, ok = result.FunctionLines("puts")
	assert.False(t, ok, "declarations are not emitted")
}

func TestRunOptions(t *testing.T) {
	s := loadTestdata(t, "strings")

	result, err := Run(s)
	require.NoError(t, err)
	assert.Contains(t, result.Output, "globalinit:\n")
	assert.Equal(t, 2, result.Report.Strings)

	s.InitStrings = false
	s.Assertions = []Assertion{{Type: AssertAbsent, Line: "globalinit:"}}
	result, err = Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRunRecordsFailures(t *testing.T) {
	s := loadTestdata(t, "storeload")
	s.Assertions = []Assertion{
		{Type: AssertContains, Lines: []string{"  store @1000, 5"}},
		{Type: AssertReport, Report: map[string]int{"allocas": 2}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "assertion 0 (contains)")
	assert.Contains(t, result.Errors[1], "allocas = 2")
}

func TestRunLoadError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("functions:\n  - name: main\n    blocks:\n      - insts:\n          - {op: ret, args: [\"%nope\"]}\n"), 0644))

	_, err := Run(&Scenario{Name: "bad", Module: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load module")

	var le *loader.LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, loader.ErrCodeUnknownValue, le.Code)
}

func TestRunIsolated(t *testing.T) {
	s := loadTestdata(t, "exhaustion")

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, first.Output, second.Output, "every run starts with a fresh register pool")
}
