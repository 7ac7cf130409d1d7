package store

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/roach88/hecate/internal/codegen"
	"github.com/roach88/hecate/internal/testutil"
)

// createTestStore opens a fresh store in a temp directory with
// deterministic translation IDs.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	s.SetIDGenerator(testutil.NewSequenceIDGenerator("run"))
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestTranslation creates a translation with minimal required fields.
func createTestTranslation(moduleHash, options string) *Translation {
	return &Translation{
		Source:     "testdata/" + moduleHash + ".yaml",
		ModuleName: moduleHash,
		ModuleHash: moduleHash,
		Options:    options,
		Report:     codegen.Report{Functions: 1, Instructions: 3},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
