package testutil

import "github.com/roach88/hecate/internal/ir"

// SampleModule builds a module that reaches every lowering path: string and
// integer globals, declarations, an anonymous block, allocas, immediate and
// reserved-register stores, loads, icmp with a conditional branch, pool
// exhaustion, the inspect intrinsic, a direct call through a cast and an
// unhandled opcode.
//
// The lowered text is recorded in internal/codegen/testdata/golden/sample_module.golden.
func SampleModule() *ir.Module {
	m := ir.NewModule("sample")
	str := m.AddStringGlobal(".str", []byte("hi\n\x00"))
	m.AddGlobal("counter", &ir.Initializer{Kind: ir.InitInt, Int: 7})

	puts := m.AddFunc("puts", "s")
	inspect := m.AddFunc("inspect")

	helper := m.AddFunc("helper", "a")
	hb := m.AddBlock(helper, "")
	r := m.Binary(hb, ir.OpAdd, "r", m.Func(helper).Params[0], m.Const(2))
	m.Ret(hb, r)

	fn := m.AddFunc("main")
	entry := m.AddBlock(fn, "entry")
	then := m.AddBlock(fn, "then")
	other := m.AddBlock(fn, "")

	x := m.Alloca(entry, "x")
	y := m.Alloca(entry, "y")
	m.Store(entry, m.Const(0), x)
	m.Store(entry, m.Const(7), y)
	v := m.Load(entry, "v", x)
	c := m.ICmp(entry, "c", ir.PredSLT, v, m.Const(10))
	m.CondBr(entry, c, then, other)

	w := m.Load(then, "w", y)
	s := m.Binary(then, ir.OpMul, "s", w, v)
	m.Call(then, "", m.Func(inspect).Ref, x)
	m.Call(then, "", m.Func(puts).Ref, m.Cast(m.Global(str).Ref))
	m.Ret(then, s)

	m.Other(other, "getelementptr", "gep", x)
	m.Ret(other, m.Const(1))
	return m
}

// StoreLoadModule builds main with one alloca that is stored v, loaded
// back and returned.
func StoreLoadModule(v int64) *ir.Module {
	m := ir.NewModule("storeload")
	fn := m.AddFunc("main")
	b := m.AddBlock(fn, "entry")
	p := m.Alloca(b, "p")
	m.Store(b, m.Const(v), p)
	m.Ret(b, m.Load(b, "v", p))
	return m
}
