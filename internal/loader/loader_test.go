package loader

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hecate/internal/codegen"
	"github.com/roach88/hecate/internal/ir"
	"github.com/roach88/hecate/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadYAMLSample(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "sample.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sample", m.Name)
	require.Len(t, m.Globals(), 2)
	require.Len(t, m.Funcs(), 4)

	str := m.Global(m.Globals()[0])
	data, ok := str.StringInit()
	require.True(t, ok)
	assert.Equal(t, []byte("hi\n\x00"), data)

	counter := m.Global(m.Globals()[1])
	require.NotNil(t, counter.Init)
	assert.Equal(t, ir.InitInt, counter.Init.Kind)
	assert.Equal(t, int64(7), counter.Init.Int)

	puts, ok := m.LookupFunc("puts")
	require.True(t, ok)
	assert.True(t, m.Func(puts).IsDeclaration())

	mainFn, ok := m.LookupFunc("main")
	require.True(t, ok)
	blocks := m.Func(mainFn).Blocks
	require.Len(t, blocks, 3)
	assert.False(t, m.Block(blocks[2]).HasName())

	entry := m.Block(blocks[0])
	br := m.Inst(entry.Insts[len(entry.Insts)-1])
	assert.Equal(t, ir.OpCondBr, br.Op)
	assert.Equal(t, []ir.BlockID{blocks[1], blocks[2]}, br.Targets)

	icmp := m.Inst(entry.Insts[5])
	assert.Equal(t, ir.PredSLT, icmp.Pred)
	assert.Equal(t, icmp.Result, br.Operands[0], "cond resolves to the icmp result")

	gep := m.Inst(m.Block(blocks[2]).Insts[0])
	assert.Equal(t, ir.OpOther, gep.Op)
	assert.Equal(t, "getelementptr", gep.Name())
}

func TestYAMLAndCUEBuildTheSameModule(t *testing.T) {
	fromYAML, err := Load(filepath.Join("testdata", "sample.yaml"))
	require.NoError(t, err)
	fromCUE, err := Load(filepath.Join("testdata", "sample.cue"))
	require.NoError(t, err)

	assert.Equal(t, ir.MustModuleHash(fromYAML), ir.MustModuleHash(fromCUE))

	opts := codegen.Options{Logger: quietLogger()}
	yamlOut, _ := codegen.TranslateString(fromYAML, opts)
	cueOut, _ := codegen.TranslateString(fromCUE, opts)
	assert.Equal(t, yamlOut, cueOut)
}

func TestYAMLSampleMatchesBuiltFixture(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "sample.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ir.MustModuleHash(testutil.SampleModule()), ir.MustModuleHash(m))
}

func TestLoadedSampleLowers(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "sample.yaml"))
	require.NoError(t, err)

	out, report := codegen.TranslateString(m, codegen.Options{Logger: quietLogger()})

	assert.Contains(t, out, "  inspect @1000 ; debug\n")
	assert.Contains(t, out, "  call @puts\n")
	assert.Contains(t, out, "  je @Block0\n  jmp @then\n")
	assert.Equal(t, 16, report.Instructions)
	assert.Equal(t, 1, report.Unhandled)
}

func TestForwardReferences(t *testing.T) {
	doc := `
functions:
  - name: loop
    params: [n]
    blocks:
      - name: head
        insts:
          - {op: phi, name: i, args: ["0", "%next"]}
          - {op: add, name: next, args: ["%i", "1"]}
          - {op: call, callee: later, args: []}
          - {op: br, targets: [head]}
  - name: later
`
	m, err := Parse("loop.yaml", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "loop", m.Name, "name defaults to the file base name")

	fn, _ := m.LookupFunc("loop")
	insts := m.Block(m.Func(fn).Blocks[0]).Insts
	phi := m.Inst(insts[0])
	add := m.Inst(insts[1])
	assert.Equal(t, add.Result, phi.Operands[1])

	later, _ := m.LookupFunc("later")
	assert.Equal(t, m.Func(later).Ref, m.Inst(insts[2]).Callee)
}

func TestOperandSyntax(t *testing.T) {
	doc := `
globals:
  - name: g
functions:
  - name: f
    params: [p, "0"]
    blocks:
      - insts:
          - {op: store, args: ["-3", "bitcast bitcast %p"]}
          - {op: store, args: ["0x10", "@g"]}
          - {op: load, name: "1", args: ["%0"]}
          - {op: call, args: ["%1"]}
          - {op: call, callee: "%p"}
          - {op: ret}
`
	m, err := Parse("ops.yaml", []byte(doc))
	require.NoError(t, err)

	fn, _ := m.LookupFunc("f")
	params := m.Func(fn).Params
	insts := m.Block(m.Func(fn).Blocks[0]).Insts

	store := m.Inst(insts[0])
	n, ok := m.ConstInt(store.Operands[0])
	require.True(t, ok)
	assert.Equal(t, int64(-3), n)
	assert.Equal(t, ir.ValueCast, m.Value(store.Operands[1]).Kind)
	assert.Equal(t, params[0], m.StripCasts(store.Operands[1]))

	hex, _ := m.ConstInt(m.Inst(insts[1]).Operands[0])
	assert.Equal(t, int64(16), hex)

	g, _ := m.LookupGlobal("g")
	assert.Equal(t, m.Global(g).Ref, m.Inst(insts[1]).Operands[1])
	assert.Nil(t, m.Global(g).Init)

	load := m.Inst(insts[2])
	assert.Equal(t, params[1], load.Operands[0], "numeric names still resolve")
	assert.Equal(t, load.Result, m.Inst(insts[3]).Operands[0])

	assert.False(t, m.Inst(insts[3]).Callee.IsValid(), "omitted callee is indirect")
	assert.Equal(t, params[0], m.Inst(insts[4]).Callee)
}

func TestConstantsInterned(t *testing.T) {
	doc := `
functions:
  - name: f
    blocks:
      - insts:
          - {op: add, name: a, args: ["5", "5"]}
          - {op: ret, args: ["5"]}
`
	m, err := Parse("c.yaml", []byte(doc))
	require.NoError(t, err)

	fn, _ := m.LookupFunc("f")
	insts := m.Block(m.Func(fn).Blocks[0]).Insts
	add := m.Inst(insts[0])
	assert.Equal(t, add.Operands[0], add.Operands[1])
	assert.Equal(t, add.Operands[0], m.Inst(insts[1]).Operands[0])
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		doc  string
		code string
		line int
	}{
		{
			name: "unknown field",
			path: "m.yaml",
			doc:  "functions:\n  - name: f\n    blocs: []\n",
			code: ErrCodeSyntax,
			line: 3,
		},
		{
			name: "malformed yaml",
			path: "m.yaml",
			doc:  "functions: [\n",
			code: ErrCodeSyntax,
		},
		{
			name: "unsupported extension",
			path: "m.json",
			doc:  "{}",
			code: ErrCodeFormat,
		},
		{
			name: "duplicate function",
			path: "m.yaml",
			doc:  "functions:\n  - name: f\n  - name: f\n",
			code: ErrCodeDuplicate,
			line: 3,
		},
		{
			name: "global and function share a name",
			path: "m.yaml",
			doc:  "globals:\n  - name: f\nfunctions:\n  - name: f\n",
			code: ErrCodeDuplicate,
			line: 4,
		},
		{
			name: "duplicate block",
			path: "m.yaml",
			doc:  "functions:\n  - name: f\n    blocks:\n      - {name: b, insts: []}\n      - {name: b, insts: []}\n",
			code: ErrCodeDuplicate,
			line: 5,
		},
		{
			name: "duplicate value",
			path: "m.yaml",
			doc:  "functions:\n  - name: f\n    params: [x]\n    blocks:\n      - insts:\n          - {op: alloca, name: x}\n",
			code: ErrCodeDuplicate,
			line: 6,
		},
		{
			name: "undefined local",
			path: "m.yaml",
			doc:  "functions:\n  - name: f\n    blocks:\n      - insts:\n          - {op: ret, args: [\"%nope\"]}\n",
			code: ErrCodeUnknownValue,
			line: 5,
		},
		{
			name: "undefined symbol",
			path: "m.yaml",
			doc:  "functions:\n  - name: f\n    blocks:\n      - insts:\n          - {op: call, callee: nope}\n",
			code: ErrCodeUnknownValue,
			line: 5,
		},
		{
			name: "locals do not leak across functions",
			path: "m.yaml",
			doc:  "functions:\n  - name: f\n    params: [a]\n  - name: g\n    blocks:\n      - insts:\n          - {op: ret, args: [\"%a\"]}\n",
			code: ErrCodeUnknownValue,
			line: 7,
		},
		{
			name: "unknown target",
			path: "m.yaml",
			doc:  "functions:\n  - name: f\n    blocks:\n      - insts:\n          - {op: br, targets: [exit]}\n",
			code: ErrCodeUnknownTarget,
			line: 5,
		},
		{
			name: "target index out of range",
			path: "m.yaml",
			doc:  "functions:\n  - name: f\n    blocks:\n      - insts:\n          - {op: br, targets: [\"#1\"]}\n",
			code: ErrCodeUnknownTarget,
			line: 5,
		},
		{
			name: "malformed operand",
			path: "m.yaml",
			doc:  "functions:\n  - name: f\n    blocks:\n      - insts:\n          - {op: ret, args: [\"x1\"]}\n",
			code: ErrCodeOperand,
			line: 5,
		},
		{
			name: "missing op",
			path: "m.yaml",
			doc:  "functions:\n  - name: f\n    blocks:\n      - insts:\n          - {name: x}\n",
			code: ErrCodeInstruction,
			line: 5,
		},
		{
			name: "bad predicate",
			path: "m.yaml",
			doc:  "functions:\n  - name: f\n    blocks:\n      - insts:\n          - {op: icmp, name: c, pred: lt, args: [\"1\", \"2\"]}\n",
			code: ErrCodeInstruction,
			line: 5,
		},
		{
			name: "conditional branch with one target",
			path: "m.yaml",
			doc:  "functions:\n  - name: f\n    blocks:\n      - name: a\n        insts:\n          - {op: br, cond: \"1\", targets: [a]}\n",
			code: ErrCodeInstruction,
			line: 6,
		},
		{
			name: "byte out of range",
			path: "m.yaml",
			doc:  "globals:\n  - name: s\n    bytes: [1, 256]\n",
			code: ErrCodeGlobal,
			line: 2,
		},
		{
			name: "conflicting initializers",
			path: "m.yaml",
			doc:  "globals:\n  - name: s\n    string: a\n    int: 1\n",
			code: ErrCodeGlobal,
			line: 2,
		},
		{
			name: "cue syntax",
			path: "m.cue",
			doc:  "functions: [\n",
			code: ErrCodeSyntax,
		},
		{
			name: "cue unknown field",
			path: "m.cue",
			doc:  "functions: [{name: \"f\", blocs: []}]\n",
			code: ErrCodeSyntax,
		},
		{
			name: "cue incomplete value",
			path: "m.cue",
			doc:  "functions: [{name: string}]\n",
			code: ErrCodeSyntax,
		},
		{
			name: "cue dangling reference",
			path: "m.cue",
			doc:  "functions: [{name: \"f\", blocks: [{insts: [{op: \"ret\", args: [\"%v\"]}]}]}]\n",
			code: ErrCodeUnknownValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.path, []byte(tt.doc))
			require.Error(t, err)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "expected *LoadError, got %T: %v", err, err)
			assert.Equal(t, tt.code, loadErr.Code, loadErr.Error())
			if tt.line > 0 {
				assert.Equal(t, tt.line, loadErr.Line, loadErr.Error())
			}
			assert.Contains(t, loadErr.Error(), tt.path)
		})
	}
}

func TestCUEErrorsCarryPositions(t *testing.T) {
	doc := "functions: [\n\t{name: \"f\", blocks: [{insts: [\n\t\t{op: \"br\", targets: [\"missing\"]},\n\t]}]},\n]\n"

	_, err := Parse("pos.cue", []byte(doc))
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeUnknownTarget, loadErr.Code)
	require.True(t, loadErr.Pos.IsValid())
	assert.Equal(t, 3, loadErr.Pos.Line())
	assert.Contains(t, loadErr.Error(), "pos.cue:3:")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeReadFailed, loadErr.Code)
}

func TestLoadEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "empty", m.Name)
	assert.Empty(t, m.Funcs())
}

func TestIsModuleFile(t *testing.T) {
	assert.True(t, IsModuleFile("a/b.yaml"))
	assert.True(t, IsModuleFile("b.YML"))
	assert.True(t, IsModuleFile("b.cue"))
	assert.False(t, IsModuleFile("b.json"))
	assert.False(t, IsModuleFile("yaml"))
}
