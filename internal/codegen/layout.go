package codegen

import (
	"strconv"

	"github.com/roach88/hecate/internal/ir"
)

// assignBlockLabels rebuilds the label map for fn. Named blocks keep their
// name; anonymous blocks are numbered Block0, Block1, ... counting only the
// anonymous ones.
func (s *Session) assignBlockLabels(fn ir.FuncID) {
	clear(s.labels)
	anon := 0
	for _, bid := range s.mod.Func(fn).Blocks {
		b := s.mod.Block(bid)
		if b.HasName() {
			s.labels[bid] = b.Name
			continue
		}
		s.labels[bid] = BlockLabelPrefix + strconv.Itoa(anon)
		anon++
	}
}

// assignAllocaAddresses gives every alloca of fn, in textual order across
// all blocks, the next stack address. The counter is never reset, so
// addresses keep increasing across functions.
func (s *Session) assignAllocaAddresses(fn ir.FuncID) {
	for _, bid := range s.mod.Func(fn).Blocks {
		for _, iid := range s.mod.Block(bid).Insts {
			if s.mod.Inst(iid).Op != ir.OpAlloca {
				continue
			}
			addr := AllocaBase + s.allocaCount*AllocaStep
			s.allocas[iid] = "@" + strconv.Itoa(addr)
			s.allocaCount++
			s.report.Allocas++
		}
	}
}

// assignStringBases lays byte-string globals out contiguously from
// StringBase in module order.
func (s *Session) assignStringBases() {
	for _, gid := range s.mod.Globals() {
		data, ok := s.mod.Global(gid).StringInit()
		if !ok {
			continue
		}
		s.stringBases[gid] = s.stringCursor
		s.stringCursor += len(data)
		s.report.Strings++
	}
}

// Label returns the label assigned to block b in the current function.
func (s *Session) Label(b ir.BlockID) string {
	return s.labels[b]
}

// AllocaAddress returns the stack address assigned to an alloca.
func (s *Session) AllocaAddress(inst ir.InstID) (string, bool) {
	addr, ok := s.allocas[inst]
	return addr, ok
}

// StringBaseOf returns the base address of a byte-string global.
func (s *Session) StringBaseOf(g ir.GlobalID) (int, bool) {
	base, ok := s.stringBases[g]
	return base, ok
}
