package codegen

import (
	"fmt"

	"github.com/roach88/hecate/internal/ir"
)

// binaryForms maps arithmetic opcodes to their comment verb, infix symbol
// and machine mnemonic.
var binaryForms = map[ir.Opcode]struct {
	verb, symbol, mnemonic string
}{
	ir.OpAdd:  {"plus", "+", "add"},
	ir.OpSub:  {"minus", "-", "sub"},
	ir.OpMul:  {"multiply", "*", "mul"},
	ir.OpUDiv: {"divide", "/", "div"},
}

// lowerInst appends the assembly for one instruction.
func (s *Session) lowerInst(id ir.InstID) {
	inst := s.mod.Inst(id)
	s.report.Instructions++

	if !hasOperands(inst) {
		s.unhandled(inst)
		return
	}

	switch inst.Op {
	case ir.OpAlloca:
		s.lowerAlloca(id)
	case ir.OpStore:
		s.lowerStore(inst)
	case ir.OpLoad:
		s.lowerLoad(inst)
	case ir.OpCall:
		s.lowerCall(inst)
	case ir.OpRet:
		s.lowerRet(inst)
	case ir.OpBr:
		s.inst("jmp @" + s.Label(inst.Targets[0]))
	case ir.OpCondBr:
		s.lowerCondBr(inst)
	case ir.OpICmp:
		s.lowerICmp(inst)
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpUDiv:
		s.lowerBinary(inst)
	default:
		s.unhandled(inst)
	}
}

// hasOperands reports whether inst carries the operands and targets its
// opcode reads. Instructions that do not are lowered as unhandled rather
// than aborting the walk.
func hasOperands(inst *ir.Inst) bool {
	var ops, targets int
	switch inst.Op {
	case ir.OpStore, ir.OpICmp, ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpUDiv:
		ops = 2
	case ir.OpLoad:
		ops = 1
	case ir.OpBr:
		targets = 1
	case ir.OpCondBr:
		ops, targets = 1, 2
	}
	return len(inst.Operands) >= ops && len(inst.Targets) >= targets
}

func (s *Session) unhandled(inst *ir.Inst) {
	s.report.Unhandled++
	s.comment("not handled: " + inst.Name())
}

func (s *Session) lowerAlloca(id ir.InstID) {
	addr, ok := s.allocas[id]
	if !ok {
		s.comment("unknown alloca")
		return
	}
	s.comment("local space: " + addr)
}

func (s *Session) lowerStore(inst *ir.Inst) {
	val := s.mod.StripCasts(inst.Operands[0])
	ptr := s.mod.StripCasts(inst.Operands[1])

	mem := s.AddressText(ptr)
	src := s.OperandText(val)
	if s.isImmediate(val) {
		s.inst(fmt.Sprintf("load %s, %s", ScratchRegister, src))
		s.inst(fmt.Sprintf("store %s, %s", mem, ScratchRegister))
		return
	}
	s.inst(fmt.Sprintf("store %s, %s", mem, src))
}

func (s *Session) lowerLoad(inst *ir.Inst) {
	addr := s.AddressText(inst.Operands[0])
	dest := s.RegisterFor(inst.Result)
	s.inst(fmt.Sprintf("load %s, %s", dest, addr))
}

func (s *Session) lowerCall(inst *ir.Inst) {
	if !inst.Callee.IsValid() || s.mod.Value(inst.Callee).Kind != ir.ValueFunc {
		s.comment("indirect call?")
		return
	}

	name := s.mod.Func(s.mod.Value(inst.Callee).Func).Name
	if name != s.opts.InspectIntrinsic {
		s.inst("call @" + name)
		return
	}

	mem := UnknownMemory
	if len(inst.Operands) > 0 {
		mem = s.AddressText(inst.Operands[0])
	}
	s.inst("inspect " + mem + " ; debug")
}

func (s *Session) lowerRet(inst *ir.Inst) {
	if len(inst.Operands) > 0 {
		s.comment("returning " + s.OperandText(inst.Operands[0]))
	}
	s.inst("ret")
}

// lowerCondBr compares the condition with R0, jumps to the false target on
// equality and otherwise jumps to the true target. Both jumps are always
// emitted.
func (s *Session) lowerCondBr(inst *ir.Inst) {
	cond := s.OperandText(inst.Operands[0])
	s.inst(fmt.Sprintf("cmp %s, %s", cond, ZeroRegister))
	s.inst("je @" + s.Label(inst.Targets[1]))
	s.inst("jmp @" + s.Label(inst.Targets[0]))
}

// lowerICmp records the predicate in a comment only; the emitted cmp is the
// same for every predicate.
func (s *Session) lowerICmp(inst *ir.Inst) {
	lhs := s.OperandText(inst.Operands[0])
	rhs := s.OperandText(inst.Operands[1])
	s.comment(fmt.Sprintf("icmp %s %s, %s", inst.Pred, lhs, rhs))
	s.inst(fmt.Sprintf("cmp %s, %s", lhs, rhs))
}

// lowerBinary loads the left operand into a fresh destination register and
// applies the operator in place. Operands are resolved before the
// destination is allocated.
func (s *Session) lowerBinary(inst *ir.Inst) {
	form := binaryForms[inst.Op]
	lhs := s.OperandText(inst.Operands[0])
	rhs := s.OperandText(inst.Operands[1])
	dest := s.RegisterFor(inst.Result)

	s.comment(fmt.Sprintf("%s %s = %s %s %s", form.verb, dest, lhs, form.symbol, rhs))
	s.inst(fmt.Sprintf("load %s, %s", dest, lhs))
	s.inst(fmt.Sprintf("%s %s, %s", form.mnemonic, dest, rhs))
}
