package ir

// Module is an IR translation unit: ordered globals and ordered functions,
// plus the arenas that back them.
type Module struct {
	Name string

	globals []Global
	funcs   []Func
	blocks  []Block
	insts   []Inst
	values  []Value

	consts map[int64]ValueID
	casts  map[ValueID]ValueID
}

// InitKind classifies a global initializer.
type InitKind uint8

const (
	InitBytes InitKind = iota + 1 // byte-string constant
	InitInt                       // integer constant
	InitOther                     // anything else (aggregates, zeroinitializer, ...)
)

// Initializer is a global's constant initial value.
type Initializer struct {
	Kind  InitKind
	Bytes []byte
	Int   int64
}

// Global is a module-level variable.
type Global struct {
	Name string
	Init *Initializer // nil for external globals
	Ref  ValueID      // value referring to this global
}

// StringInit returns the global's byte-string initializer, if it has one.
func (g *Global) StringInit() ([]byte, bool) {
	if g.Init == nil || g.Init.Kind != InitBytes {
		return nil, false
	}
	return g.Init.Bytes, true
}

// Func is a function definition or declaration.
type Func struct {
	Name   string
	Params []ValueID
	Blocks []BlockID
	Ref    ValueID // value referring to this function
}

// IsDeclaration reports whether the function has no body.
func (f *Func) IsDeclaration() bool {
	return len(f.Blocks) == 0
}

// Block is a basic block.
type Block struct {
	Name  string // empty or a numeric slot for unnamed blocks
	Func  FuncID
	Insts []InstID
}

// HasName reports whether the block carries a textual identity.
func (b *Block) HasName() bool {
	return IsNamed(b.Name)
}

// Inst is one IR instruction.
//
// Operand conventions per opcode:
//   - store: Operands = [value, pointer]
//   - load: Operands = [pointer]
//   - call: Callee = called value, Operands = arguments
//   - ret: Operands = [] or [value]
//   - br: Targets = [dest]
//   - condbr: Operands = [cond], Targets = [true, false]
//   - icmp: Pred, Operands = [lhs, rhs]
//   - add/sub/mul/udiv: Operands = [lhs, rhs]
type Inst struct {
	Op       Opcode
	OpName   string // raw opcode text (only meaningful for OpOther)
	Block    BlockID
	Operands []ValueID
	Targets  []BlockID
	Callee   ValueID
	Pred     Predicate
	Result   ValueID // NoValue for void opcodes
}

// Name returns the textual opcode name, preferring the raw spelling.
func (i *Inst) Name() string {
	if i.OpName != "" {
		return i.OpName
	}
	return i.Op.String()
}

// ValueKind discriminates Value.
type ValueKind uint8

const (
	ValueConst ValueKind = iota + 1
	ValueInst
	ValueParam
	ValueGlobal
	ValueFunc
	ValueCast
)

// Value is an operand: a constant or a reference to another IR object.
type Value struct {
	Kind   ValueKind
	Name   string   // instruction result / parameter name
	Int    int64    // ValueConst
	Inst   InstID   // ValueInst
	Func   FuncID   // ValueParam owner, ValueFunc target
	Index  int      // ValueParam position
	Global GlobalID // ValueGlobal
	Inner  ValueID  // ValueCast operand
}

// IsNamed reports whether s is a textual identity. Empty names and purely
// numeric slot names ("0", "12") are anonymous.
func IsNamed(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return true
		}
	}
	return false
}

// Global returns the global with the given ID.
func (m *Module) Global(id GlobalID) *Global { return &m.globals[id-1] }

// Func returns the function with the given ID.
func (m *Module) Func(id FuncID) *Func { return &m.funcs[id-1] }

// Block returns the block with the given ID.
func (m *Module) Block(id BlockID) *Block { return &m.blocks[id-1] }

// Inst returns the instruction with the given ID.
func (m *Module) Inst(id InstID) *Inst { return &m.insts[id-1] }

// Value returns the value with the given ID.
func (m *Module) Value(id ValueID) *Value { return &m.values[id-1] }

// Globals returns global IDs in module order.
func (m *Module) Globals() []GlobalID {
	ids := make([]GlobalID, len(m.globals))
	for i := range m.globals {
		ids[i] = GlobalID(i + 1)
	}
	return ids
}

// Funcs returns function IDs in module order.
func (m *Module) Funcs() []FuncID {
	ids := make([]FuncID, len(m.funcs))
	for i := range m.funcs {
		ids[i] = FuncID(i + 1)
	}
	return ids
}

// LookupFunc finds a function by name.
func (m *Module) LookupFunc(name string) (FuncID, bool) {
	for i := range m.funcs {
		if m.funcs[i].Name == name {
			return FuncID(i + 1), true
		}
	}
	return NoFunc, false
}

// LookupGlobal finds a global by name.
func (m *Module) LookupGlobal(name string) (GlobalID, bool) {
	for i := range m.globals {
		if m.globals[i].Name == name {
			return GlobalID(i + 1), true
		}
	}
	return NoGlobal, false
}

// StripCasts follows pointer cast wrappers down to the underlying value.
func (m *Module) StripCasts(id ValueID) ValueID {
	for id.IsValid() {
		v := m.Value(id)
		if v.Kind != ValueCast {
			break
		}
		id = v.Inner
	}
	return id
}

// ValueName returns the textual identity of a value, or "" if it has none.
func (m *Module) ValueName(id ValueID) string {
	v := m.Value(id)
	switch v.Kind {
	case ValueInst, ValueParam:
		if IsNamed(v.Name) {
			return v.Name
		}
	case ValueGlobal:
		return m.Global(v.Global).Name
	case ValueFunc:
		return m.Func(v.Func).Name
	}
	return ""
}

// AllocaOf returns the alloca instruction a value refers to, if any.
func (m *Module) AllocaOf(id ValueID) (InstID, bool) {
	v := m.Value(id)
	if v.Kind != ValueInst {
		return NoInst, false
	}
	if m.Inst(v.Inst).Op != OpAlloca {
		return NoInst, false
	}
	return v.Inst, true
}

// ConstInt returns the integer a value holds, if it is a constant.
func (m *Module) ConstInt(id ValueID) (int64, bool) {
	v := m.Value(id)
	if v.Kind != ValueConst {
		return 0, false
	}
	return v.Int, true
}
