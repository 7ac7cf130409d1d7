package codegen

import (
	"strconv"

	"github.com/roach88/hecate/internal/ir"
)

// OperandText renders v as an instruction operand: R0 and R1 for the
// constants zero and one, decimal text for other constants, and a register
// from RegisterFor for everything else.
func (s *Session) OperandText(v ir.ValueID) string {
	if n, ok := s.mod.ConstInt(v); ok {
		switch n {
		case 0:
			return ZeroRegister
		case 1:
			return OneRegister
		}
		return strconv.FormatInt(n, 10)
	}
	return s.RegisterFor(v)
}

// isImmediate reports whether v renders as an unsigned decimal immediate.
// Negative constants are written in place and never staged.
func (s *Session) isImmediate(v ir.ValueID) bool {
	n, ok := s.mod.ConstInt(v)
	return ok && n > 1
}

// AddressText renders the memory operand for pointer value p. Resolution
// always succeeds; pointers with no known home render as UnknownMemory.
func (s *Session) AddressText(p ir.ValueID) string {
	if !p.IsValid() {
		return UnknownMemory
	}
	p = s.mod.StripCasts(p)

	if inst, ok := s.mod.AllocaOf(p); ok {
		if addr, ok := s.allocas[inst]; ok {
			return addr
		}
	}

	if v := s.mod.Value(p); v.Kind == ir.ValueGlobal {
		if base, ok := s.stringBases[v.Global]; ok {
			return "@" + strconv.Itoa(base)
		}
		return "@" + s.mod.Global(v.Global).Name
	}

	if name := s.mod.ValueName(p); name != "" {
		return "@" + name
	}
	return UnknownMemory
}
