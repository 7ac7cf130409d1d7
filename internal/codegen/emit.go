package codegen

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/hecate/internal/ir"
)

// Report summarizes one module translation.
type Report struct {
	Functions        int `json:"functions"`
	Declarations     int `json:"declarations"`
	Blocks           int `json:"blocks"`
	Instructions     int `json:"instructions"`
	Unhandled        int `json:"unhandled"`
	Allocas          int `json:"allocas"`
	Strings          int `json:"strings"`
	RegistersBound   int `json:"registers_bound"`
	FallbackBindings int `json:"fallback_bindings"`
}

// Translate lowers m into w using a fresh Session.
func Translate(m *ir.Module, w io.Writer, opts Options) (*Report, error) {
	return NewSession(m, opts).EmitModule(w)
}

// TranslateString lowers m and returns the assembly text.
func TranslateString(m *ir.Module, opts Options) (string, *Report) {
	s := NewSession(m, opts)
	s.emit()
	return s.out.String(), s.Report()
}

// EmitModule lowers the whole module and writes the assembly to w. The
// output is buffered; the only possible error is a failed write.
func (s *Session) EmitModule(w io.Writer) (*Report, error) {
	s.emit()
	if _, err := io.WriteString(w, s.out.String()); err != nil {
		return nil, fmt.Errorf("writing assembly: %w", err)
	}
	return s.Report(), nil
}

// Report returns the translation statistics gathered so far.
func (s *Session) Report() *Report {
	r := s.report
	r.RegistersBound = len(s.registers)
	return &r
}

func (s *Session) emit() {
	s.assignStringBases()
	s.emitGlobalData()
	if s.opts.InitStrings {
		s.emitStringInit()
	}

	for _, fid := range s.mod.Funcs() {
		if s.mod.Func(fid).IsDeclaration() {
			s.report.Declarations++
			continue
		}
		s.emitFunction(fid)
	}
}

// emitGlobalData writes the documentation-only listing of byte-string
// globals.
func (s *Session) emitGlobalData() {
	s.line("; --- Global Data Section ---")
	for _, gid := range s.mod.Globals() {
		g := s.mod.Global(gid)
		data, ok := g.StringInit()
		if !ok {
			continue
		}
		s.line(";" + g.Name + ":")
		s.line(";  db  " + joinBytes(data) + " ; \"" + displayText(data) + "\"")
	}
	s.line("; --- End of Global Data ---")
	s.line("")
}

// emitStringInit writes a globalinit block that materializes every
// byte-string global one byte at a time, then jumps to the entry point.
func (s *Session) emitStringInit() {
	s.line("globalinit:")
	for _, gid := range s.mod.Globals() {
		g := s.mod.Global(gid)
		data, ok := g.StringInit()
		if !ok {
			continue
		}
		base := s.stringBases[gid]
		s.comment(fmt.Sprintf("init string %s \"%s\" @%d", g.Name, displayText(data), base))
		for i, b := range data {
			s.inst(fmt.Sprintf("load %s, %d", ScratchRegister, b))
			s.inst(fmt.Sprintf("storeByte @%d, %s", base+i, ScratchRegister))
		}
	}
	s.inst("jmp @" + s.opts.EntryPoint)
	s.line("")
}

func (s *Session) emitFunction(fid ir.FuncID) {
	fn := s.mod.Func(fid)
	s.assignBlockLabels(fid)
	s.assignAllocaAddresses(fid)

	before := s.report.Instructions
	s.line(fn.Name + ":")
	for _, bid := range fn.Blocks {
		s.line(s.labels[bid] + ":")
		for _, iid := range s.mod.Block(bid).Insts {
			s.lowerInst(iid)
		}
	}
	if fn.Name == s.opts.EntryPoint {
		s.inst("halt ; " + s.opts.EntryPoint + " ended")
	}

	s.report.Functions++
	s.report.Blocks += len(fn.Blocks)
	s.log.Debug("lowered function",
		"function", fn.Name,
		"blocks", len(fn.Blocks),
		"instructions", s.report.Instructions-before,
		"pool_remaining", len(s.pool),
	)
}

func joinBytes(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = strconv.Itoa(int(b))
	}
	return strings.Join(parts, ",")
}

// displayText renders a byte string for a comment: it stops at the first
// NUL and writes control bytes as \XX so the comment stays on one line.
func displayText(data []byte) string {
	var b strings.Builder
	for _, c := range data {
		if c == 0 {
			break
		}
		if c < 0x20 || c == 0x7f {
			fmt.Fprintf(&b, "\\%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
