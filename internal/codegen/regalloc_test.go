package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hecate/internal/ir"
)

func TestRegisterForIdempotent(t *testing.T) {
	m := ir.NewModule("t")
	fn := m.AddFunc("f", "a")
	a := m.Func(fn).Params[0]
	s := newTestSession(m)

	first := s.RegisterFor(a)
	second := s.RegisterFor(a)

	assert.Equal(t, first, second, "same value must keep its register")
	assert.Equal(t, 3, s.PoolRemaining(), "second lookup must not consume the pool")
}

func TestRegisterPoolOrderAndFallback(t *testing.T) {
	m := ir.NewModule("t")
	fn := m.AddFunc("f", "a", "b", "c", "d", "e", "f")
	params := m.Func(fn).Params
	s := newTestSession(m)

	got := make([]string, len(params))
	for i, p := range params {
		got[i] = s.RegisterFor(p)
	}

	assert.Equal(t, []string{"R2", "R3", "R4", "R5", "R2", "R2"}, got)
	assert.Equal(t, 0, s.PoolRemaining())

	report := s.Report()
	assert.Equal(t, 6, report.RegistersBound)
	assert.Equal(t, 2, report.FallbackBindings)

	r, ok := s.Bound(params[5])
	require.True(t, ok)
	assert.Equal(t, FallbackRegister, r)
}

func TestReservedRegistersNeverAllocated(t *testing.T) {
	m := ir.NewModule("t")
	s := newTestSession(m)

	tests := []struct {
		name  string
		value int64
		want  string
	}{
		{"zero", 0, ZeroRegister},
		{"one", 1, OneRegister},
		{"immediate", 42, "42"},
		{"negative immediate", -3, "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.OperandText(m.Const(tt.value)))
		})
	}

	assert.Equal(t, len(registerPool), s.PoolRemaining(), "constants must never draw from the pool")
	assert.Equal(t, 0, s.Report().RegistersBound)
}

func TestReservedRegistersAfterExhaustion(t *testing.T) {
	m := ir.NewModule("t")
	fn := m.AddFunc("f", "a", "b", "c", "d", "e")
	s := newTestSession(m)
	for _, p := range m.Func(fn).Params {
		s.OperandText(p)
	}

	assert.Equal(t, ZeroRegister, s.OperandText(m.Const(0)))
	assert.Equal(t, OneRegister, s.OperandText(m.Const(1)))
}

func TestFreshSessionResetsState(t *testing.T) {
	m := ir.NewModule("t")
	fn := m.AddFunc("f", "a", "b")
	params := m.Func(fn).Params

	s1 := newTestSession(m)
	s1.RegisterFor(params[0])
	s1.RegisterFor(params[1])

	s2 := newTestSession(m)
	assert.Equal(t, "R2", s2.RegisterFor(params[1]), "a new session starts from a full pool")
}
