package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// execute runs cmd with args and returns what it wrote to stdout and stderr.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func textOpts() *RootOptions {
	return &RootOptions{Format: "text"}
}

func jsonOpts() *RootOptions {
	return &RootOptions{Format: "json"}
}

// writeFile writes content under dir, creating parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const storeLoadModule = `name: storeload
functions:
  - name: main
    blocks:
      - name: entry
        insts:
          - {op: alloca, name: x}
          - {op: store, args: ["5", "%x"]}
          - {op: load, name: v, args: ["%x"]}
          - {op: ret, args: ["%v"]}
`

const storeLoadAssembly = `; --- Global Data Section ---
; --- End of Global Data ---

main:
entry:
  ; local space: @1000
  load R5, 5
  store @1000, R5
  load R2, @1000
  ; returning R2
  ret
  halt ; main ended
`

const danglingModule = `functions:
  - name: main
    blocks:
      - insts:
          - {op: ret, args: ["%nope"]}
`
