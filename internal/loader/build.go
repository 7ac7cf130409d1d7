package loader

import (
	"strconv"
	"strings"

	"github.com/roach88/hecate/internal/ir"
)

// Build converts a decoded document into an ir.Module. path is used only
// for error messages.
//
// Globals and functions are registered before any body is built, so
// operands may refer to names declared later in the document. Within a
// function, every instruction is created before operands are resolved,
// so %name may refer to a later result.
func Build(path string, doc *Document) (*ir.Module, error) {
	b := &builder{
		path:    path,
		mod:     ir.NewModule(doc.Name),
		symbols: make(map[string]ir.ValueID),
	}
	if err := b.declareGlobals(doc.Globals); err != nil {
		return nil, err
	}

	funcs := make([]ir.FuncID, len(doc.Functions))
	for i := range doc.Functions {
		fn, err := b.declareFunc(&doc.Functions[i])
		if err != nil {
			return nil, err
		}
		funcs[i] = fn
	}
	for i := range doc.Functions {
		if err := b.buildBody(funcs[i], &doc.Functions[i]); err != nil {
			return nil, err
		}
	}
	return b.mod, nil
}

type builder struct {
	path string
	mod  *ir.Module

	// symbols maps global and function names to their reference values.
	symbols map[string]ir.ValueID
}

// funcScope holds the names visible inside one function body.
type funcScope struct {
	locals map[string]ir.ValueID
	blocks map[string]ir.BlockID
	order  []ir.BlockID
}

func (b *builder) errorf(code string, src source, format string, args ...any) error {
	return newError(b.path, code, src, format, args...)
}

func (b *builder) declareGlobals(globals []GlobalDoc) error {
	for i := range globals {
		g := &globals[i]
		if g.Name == "" {
			return b.errorf(ErrCodeGlobal, g.src, "global %d has no name", i)
		}
		if _, dup := b.symbols[g.Name]; dup {
			return b.errorf(ErrCodeDuplicate, g.src, "duplicate symbol @%s", g.Name)
		}
		init, err := b.initializer(g)
		if err != nil {
			return err
		}
		id := b.mod.AddGlobal(g.Name, init)
		b.symbols[g.Name] = b.mod.Global(id).Ref
	}
	return nil
}

func (b *builder) initializer(g *GlobalDoc) (*ir.Initializer, error) {
	set := 0
	if g.String != nil {
		set++
	}
	if g.Bytes != nil {
		set++
	}
	if g.Int != nil {
		set++
	}
	if set > 1 {
		return nil, b.errorf(ErrCodeGlobal, g.src, "global @%s: string, bytes and int are exclusive", g.Name)
	}

	switch {
	case g.String != nil:
		return &ir.Initializer{Kind: ir.InitBytes, Bytes: []byte(*g.String)}, nil
	case g.Bytes != nil:
		data := make([]byte, len(g.Bytes))
		for i, n := range g.Bytes {
			if n < 0 || n > 255 {
				return nil, b.errorf(ErrCodeGlobal, g.src, "global @%s: byte %d out of range: %d", g.Name, i, n)
			}
			data[i] = byte(n)
		}
		return &ir.Initializer{Kind: ir.InitBytes, Bytes: data}, nil
	case g.Int != nil:
		return &ir.Initializer{Kind: ir.InitInt, Int: *g.Int}, nil
	}
	return nil, nil
}

func (b *builder) declareFunc(f *FuncDoc) (ir.FuncID, error) {
	if f.Name == "" {
		return ir.NoFunc, b.errorf(ErrCodeGeneric, f.src, "function has no name")
	}
	if _, dup := b.symbols[f.Name]; dup {
		return ir.NoFunc, b.errorf(ErrCodeDuplicate, f.src, "duplicate symbol @%s", f.Name)
	}
	seen := make(map[string]bool, len(f.Params))
	for _, p := range f.Params {
		if p != "" && seen[p] {
			return ir.NoFunc, b.errorf(ErrCodeDuplicate, f.src, "function @%s: duplicate parameter %%%s", f.Name, p)
		}
		seen[p] = true
	}
	id := b.mod.AddFunc(f.Name, f.Params...)
	b.symbols[f.Name] = b.mod.Func(id).Ref
	return id, nil
}

func (b *builder) buildBody(fn ir.FuncID, f *FuncDoc) error {
	scope := &funcScope{
		locals: make(map[string]ir.ValueID),
		blocks: make(map[string]ir.BlockID),
	}
	for i, p := range b.mod.Func(fn).Params {
		if name := f.Params[i]; name != "" {
			scope.locals[name] = p
		}
	}

	for i := range f.Blocks {
		bd := &f.Blocks[i]
		id := b.mod.AddBlock(fn, bd.Name)
		if bd.Name != "" {
			if _, dup := scope.blocks[bd.Name]; dup {
				return b.errorf(ErrCodeDuplicate, bd.src, "function @%s: duplicate block %s", f.Name, bd.Name)
			}
			scope.blocks[bd.Name] = id
		}
		scope.order = append(scope.order, id)
	}

	// Create every instruction first so results can be referenced before
	// their definition.
	insts := make([][]ir.InstID, len(f.Blocks))
	for i := range f.Blocks {
		for j := range f.Blocks[i].Insts {
			id, err := b.createInst(scope, scope.order[i], &f.Blocks[i].Insts[j])
			if err != nil {
				return err
			}
			insts[i] = append(insts[i], id)
		}
	}

	for i := range f.Blocks {
		for j := range f.Blocks[i].Insts {
			if err := b.wireInst(scope, insts[i][j], &f.Blocks[i].Insts[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) createInst(scope *funcScope, blk ir.BlockID, d *InstDoc) (ir.InstID, error) {
	if d.Op == "" {
		return ir.NoInst, b.errorf(ErrCodeInstruction, d.src, "instruction has no op")
	}

	inst := ir.Inst{Op: ir.ParseOpcode(d.Op)}
	switch inst.Op {
	case ir.OpOther:
		inst.OpName = d.Op
	case ir.OpBr, ir.OpCondBr:
		inst.Op = ir.OpBr
		if d.Cond != "" {
			inst.Op = ir.OpCondBr
		}
		want := 1
		if inst.Op == ir.OpCondBr {
			want = 2
		}
		if len(d.Targets) != want {
			return ir.NoInst, b.errorf(ErrCodeInstruction, d.src, "%s needs %d targets, got %d", d.Op, want, len(d.Targets))
		}
	case ir.OpICmp:
		pred, ok := ir.ParsePredicate(d.Pred)
		if !ok {
			return ir.NoInst, b.errorf(ErrCodeInstruction, d.src, "icmp: unknown predicate %q", d.Pred)
		}
		inst.Pred = pred
	}

	id := b.mod.AddInst(blk, d.Name, inst)
	if result := b.mod.Inst(id).Result; result.IsValid() && d.Name != "" {
		if _, dup := scope.locals[d.Name]; dup {
			return ir.NoInst, b.errorf(ErrCodeDuplicate, d.src, "duplicate value %%%s", d.Name)
		}
		scope.locals[d.Name] = result
	}
	return id, nil
}

func (b *builder) wireInst(scope *funcScope, id ir.InstID, d *InstDoc) error {
	inst := b.mod.Inst(id)

	var operands []string
	if inst.Op == ir.OpCondBr {
		operands = append(operands, d.Cond)
	}
	operands = append(operands, d.Args...)
	for _, text := range operands {
		v, err := b.operand(scope, d.src, text)
		if err != nil {
			return err
		}
		inst.Operands = append(inst.Operands, v)
	}

	for _, t := range d.Targets {
		blk, err := b.target(scope, d.src, t)
		if err != nil {
			return err
		}
		inst.Targets = append(inst.Targets, blk)
	}

	if inst.Op == ir.OpCall && d.Callee != "" {
		callee := d.Callee
		if !strings.HasPrefix(callee, "@") && !strings.HasPrefix(callee, "%") {
			callee = "@" + callee
		}
		v, err := b.operand(scope, d.src, callee)
		if err != nil {
			return err
		}
		inst.Callee = v
	}
	return nil
}

// operand resolves operand text to a value.
func (b *builder) operand(scope *funcScope, src source, text string) (ir.ValueID, error) {
	text = strings.TrimSpace(text)
	if inner, ok := strings.CutPrefix(text, "bitcast "); ok {
		v, err := b.operand(scope, src, inner)
		if err != nil {
			return ir.NoValue, err
		}
		return b.mod.Cast(v), nil
	}

	switch {
	case text == "":
		return ir.NoValue, b.errorf(ErrCodeOperand, src, "empty operand")
	case strings.HasPrefix(text, "%"):
		if v, ok := scope.locals[text[1:]]; ok {
			return v, nil
		}
		return ir.NoValue, b.errorf(ErrCodeUnknownValue, src, "undefined value %s", text)
	case strings.HasPrefix(text, "@"):
		if v, ok := b.symbols[text[1:]]; ok {
			return v, nil
		}
		return ir.NoValue, b.errorf(ErrCodeUnknownValue, src, "undefined symbol %s", text)
	}

	n, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return ir.NoValue, b.errorf(ErrCodeOperand, src, "malformed operand %q", text)
	}
	return b.mod.Const(n), nil
}

func (b *builder) target(scope *funcScope, src source, text string) (ir.BlockID, error) {
	if idx, ok := strings.CutPrefix(text, "#"); ok {
		n, err := strconv.Atoi(idx)
		if err != nil || n < 0 || n >= len(scope.order) {
			return ir.NoBlock, b.errorf(ErrCodeUnknownTarget, src, "no block %s", text)
		}
		return scope.order[n], nil
	}
	if blk, ok := scope.blocks[text]; ok {
		return blk, nil
	}
	return ir.NoBlock, b.errorf(ErrCodeUnknownTarget, src, "no block named %s", text)
}
