package codegen

import "github.com/roach88/hecate/internal/ir"

// RegisterFor returns the register bound to v, binding one on first use.
//
// Bindings are permanent. While the pool lasts each new value takes the next
// register from it; after that every new value is bound to FallbackRegister,
// so distinct values may share R2.
func (s *Session) RegisterFor(v ir.ValueID) string {
	if r, ok := s.registers[v]; ok {
		return r
	}

	if n := len(s.pool); n > 0 {
		r := s.pool[n-1]
		s.pool = s.pool[:n-1]
		s.registers[v] = r
		return r
	}

	if !s.exhausted {
		s.exhausted = true
		s.log.Debug("register pool exhausted", "fallback", FallbackRegister)
	}
	s.report.FallbackBindings++
	s.registers[v] = FallbackRegister
	return FallbackRegister
}

// Bound reports the register already bound to v without allocating.
func (s *Session) Bound(v ir.ValueID) (string, bool) {
	r, ok := s.registers[v]
	return r, ok
}

// PoolRemaining returns how many pool registers are still unassigned.
func (s *Session) PoolRemaining() int {
	return len(s.pool)
}
