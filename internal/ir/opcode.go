package ir

// Opcode is the closed set of instruction kinds the code generator knows.
// OpOther carries any opcode outside the set; its textual name lives in
// Inst.OpName.
type Opcode uint8

const (
	OpInvalid Opcode = iota

	OpAlloca
	OpStore
	OpLoad
	OpCall
	OpRet
	OpBr
	OpCondBr
	OpICmp
	OpAdd
	OpSub
	OpMul
	OpUDiv
	OpOther
)

// String returns the IR spelling of the opcode. Both branch forms spell
// "br".
func (o Opcode) String() string {
	switch o {
	case OpAlloca:
		return "alloca"
	case OpStore:
		return "store"
	case OpLoad:
		return "load"
	case OpCall:
		return "call"
	case OpRet:
		return "ret"
	case OpBr, OpCondBr:
		return "br"
	case OpICmp:
		return "icmp"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpUDiv:
		return "udiv"
	case OpOther:
		return "other"
	}
	return "invalid Opcode"
}

// ParseOpcode maps an IR opcode name to its Opcode. "br" parses as the
// unconditional form; callers that see a condition upgrade it to OpCondBr.
// Unknown names yield OpOther.
func ParseOpcode(name string) Opcode {
	switch name {
	case "alloca":
		return OpAlloca
	case "store":
		return OpStore
	case "load":
		return OpLoad
	case "call":
		return OpCall
	case "ret":
		return OpRet
	case "br":
		return OpBr
	case "condbr":
		return OpCondBr
	case "icmp":
		return OpICmp
	case "add":
		return OpAdd
	case "sub":
		return OpSub
	case "mul":
		return OpMul
	case "udiv":
		return OpUDiv
	}
	return OpOther
}

// HasResult reports whether instructions of this kind define a value.
// Calls and unknown opcodes are treated as value-producing; a void call's
// result is simply never referenced.
func (o Opcode) HasResult() bool {
	switch o {
	case OpStore, OpRet, OpBr, OpCondBr, OpInvalid:
		return false
	}
	return true
}

// Predicate is an integer comparison kind.
type Predicate uint8

const (
	PredInvalid Predicate = iota

	PredEQ
	PredNE
	PredUGT
	PredUGE
	PredULT
	PredULE
	PredSGT
	PredSGE
	PredSLT
	PredSLE
)

var predicateNames = [...]string{
	PredInvalid: "invalid",
	PredEQ:      "eq",
	PredNE:      "ne",
	PredUGT:     "ugt",
	PredUGE:     "uge",
	PredULT:     "ult",
	PredULE:     "ule",
	PredSGT:     "sgt",
	PredSGE:     "sge",
	PredSLT:     "slt",
	PredSLE:     "sle",
}

func (p Predicate) String() string {
	if int(p) < len(predicateNames) {
		return predicateNames[p]
	}
	return "invalid"
}

// ParsePredicate maps a predicate name ("eq", "slt", ...) to a Predicate.
func ParsePredicate(name string) (Predicate, bool) {
	for i, n := range predicateNames {
		if i > 0 && n == name {
			return Predicate(i), true
		}
	}
	return PredInvalid, false
}
