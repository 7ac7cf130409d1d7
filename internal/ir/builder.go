package ir

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{
		Name:   name,
		consts: make(map[int64]ValueID),
		casts:  make(map[ValueID]ValueID),
	}
}

func (m *Module) newValue(v Value) ValueID {
	m.values = append(m.values, v)
	return ValueID(len(m.values))
}

// Const interns an integer constant.
func (m *Module) Const(n int64) ValueID {
	if id, ok := m.consts[n]; ok {
		return id
	}
	id := m.newValue(Value{Kind: ValueConst, Int: n})
	m.consts[n] = id
	return id
}

// Cast interns a pointer cast wrapping inner.
func (m *Module) Cast(inner ValueID) ValueID {
	if id, ok := m.casts[inner]; ok {
		return id
	}
	id := m.newValue(Value{Kind: ValueCast, Inner: inner})
	m.casts[inner] = id
	return id
}

// AddGlobal appends a global variable. init may be nil.
func (m *Module) AddGlobal(name string, init *Initializer) GlobalID {
	m.globals = append(m.globals, Global{Name: name, Init: init})
	id := GlobalID(len(m.globals))
	ref := m.newValue(Value{Kind: ValueGlobal, Global: id})
	m.globals[id-1].Ref = ref
	return id
}

// AddStringGlobal appends a global initialized with a byte string.
func (m *Module) AddStringGlobal(name string, data []byte) GlobalID {
	return m.AddGlobal(name, &Initializer{Kind: InitBytes, Bytes: data})
}

// AddFunc appends a function with the given parameter names. The function
// stays a declaration until a block is added.
func (m *Module) AddFunc(name string, params ...string) FuncID {
	m.funcs = append(m.funcs, Func{Name: name})
	id := FuncID(len(m.funcs))
	ref := m.newValue(Value{Kind: ValueFunc, Func: id})

	f := m.Func(id)
	f.Ref = ref
	for i, p := range params {
		f.Params = append(f.Params, m.newValue(Value{Kind: ValueParam, Name: p, Func: id, Index: i}))
	}
	return id
}

// AddBlock appends a basic block to fn. An empty or numeric name leaves the
// block anonymous.
func (m *Module) AddBlock(fn FuncID, name string) BlockID {
	m.blocks = append(m.blocks, Block{Name: name, Func: fn})
	id := BlockID(len(m.blocks))
	f := m.Func(fn)
	f.Blocks = append(f.Blocks, id)
	return id
}

// AddInst appends inst to block b. If the opcode produces a value, a result
// value named name is interned and stored in Inst.Result.
func (m *Module) AddInst(b BlockID, name string, inst Inst) InstID {
	inst.Block = b
	m.insts = append(m.insts, inst)
	id := InstID(len(m.insts))
	if inst.Op.HasResult() {
		m.insts[id-1].Result = m.newValue(Value{Kind: ValueInst, Name: name, Inst: id})
	}
	blk := m.Block(b)
	blk.Insts = append(blk.Insts, id)
	return id
}

func (m *Module) result(id InstID) ValueID {
	return m.Inst(id).Result
}

// Alloca appends a stack allocation and returns its pointer value.
func (m *Module) Alloca(b BlockID, name string) ValueID {
	return m.result(m.AddInst(b, name, Inst{Op: OpAlloca}))
}

// Store appends a store of val through ptr.
func (m *Module) Store(b BlockID, val, ptr ValueID) InstID {
	return m.AddInst(b, "", Inst{Op: OpStore, Operands: []ValueID{val, ptr}})
}

// Load appends a load through ptr and returns the loaded value.
func (m *Module) Load(b BlockID, name string, ptr ValueID) ValueID {
	return m.result(m.AddInst(b, name, Inst{Op: OpLoad, Operands: []ValueID{ptr}}))
}

// Call appends a call of callee with args and returns its result value.
func (m *Module) Call(b BlockID, name string, callee ValueID, args ...ValueID) ValueID {
	return m.result(m.AddInst(b, name, Inst{Op: OpCall, Callee: callee, Operands: args}))
}

// Ret appends a return. At most one value is used.
func (m *Module) Ret(b BlockID, val ...ValueID) InstID {
	var ops []ValueID
	if len(val) > 0 {
		ops = val[:1]
	}
	return m.AddInst(b, "", Inst{Op: OpRet, Operands: ops})
}

// Br appends an unconditional branch.
func (m *Module) Br(b BlockID, dest BlockID) InstID {
	return m.AddInst(b, "", Inst{Op: OpBr, Targets: []BlockID{dest}})
}

// CondBr appends a conditional branch.
func (m *Module) CondBr(b BlockID, cond ValueID, ifTrue, ifFalse BlockID) InstID {
	return m.AddInst(b, "", Inst{Op: OpCondBr, Operands: []ValueID{cond}, Targets: []BlockID{ifTrue, ifFalse}})
}

// ICmp appends an integer comparison.
func (m *Module) ICmp(b BlockID, name string, pred Predicate, x, y ValueID) ValueID {
	return m.result(m.AddInst(b, name, Inst{Op: OpICmp, Pred: pred, Operands: []ValueID{x, y}}))
}

// Binary appends one of add, sub, mul or udiv.
func (m *Module) Binary(b BlockID, op Opcode, name string, x, y ValueID) ValueID {
	return m.result(m.AddInst(b, name, Inst{Op: op, Operands: []ValueID{x, y}}))
}

// Other appends an instruction outside the known opcode set.
func (m *Module) Other(b BlockID, opName, name string, args ...ValueID) ValueID {
	return m.result(m.AddInst(b, name, Inst{Op: OpOther, OpName: opName, Operands: args}))
}
