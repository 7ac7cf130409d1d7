package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hecate/internal/store"
)

func TestHistoryRequiresDB(t *testing.T) {
	_, _, err := execute(NewHistoryCommand(textOpts()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "db" not set`)
}

func TestHistoryMissingStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.db")

	_, errOut, err := execute(NewHistoryCommand(textOpts()), "--db", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errOut, "Error [E103]")
	assert.NoFileExists(t, path, "history never creates a store")
}

func TestHistoryEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, _, err := execute(NewHistoryCommand(textOpts()), "--db", path)
	require.NoError(t, err)
	assert.Equal(t, "No translations recorded.\n", out)
}

func TestHistoryLimitJSON(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "h.db")
	module := writeFile(t, dir, "storeload.yaml", storeLoadModule)

	for _, entry := range []string{"main", "a", "b"} {
		_, _, err := execute(NewCompileCommand(textOpts()), module, "--db", db, "--entry", entry)
		require.NoError(t, err)
	}

	out, _, err := execute(NewHistoryCommand(jsonOpts()), "--db", db, "--limit", "2")
	require.NoError(t, err)

	var resp struct {
		Status string              `json:"status"`
		Data   []store.Translation `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, int64(3), resp.Data[0].Seq, "newest first")
	assert.Equal(t, `{"entry":"b","init_strings":false,"inspect":"inspect"}`, resp.Data[0].Options)
	assert.Equal(t, module, resp.Data[0].Source)
	assert.Equal(t, "storeload", resp.Data[1].ModuleName)
}
