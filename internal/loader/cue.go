package loader

import (
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

// Fields accepted at each level of a CUE module document. Anything else is
// rejected, matching the strict YAML decoder.
var (
	cueModuleFields = fieldSet("name", "globals", "functions")
	cueGlobalFields = fieldSet("name", "string", "bytes", "int")
	cueFuncFields   = fieldSet("name", "params", "blocks")
	cueBlockFields  = fieldSet("name", "insts")
	cueInstFields   = fieldSet("op", "name", "args", "pred", "cond", "targets", "callee")
)

func fieldSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// decodeCUE compiles a CUE module document and walks its top-level fields.
// The value must be concrete; definitions and constraints may be used to
// produce it.
func decodeCUE(path string, data []byte) (*Document, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, cueError(path, err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(path, err)
	}

	d := &cueDecoder{path: path}
	doc := &Document{}
	if err := d.checkFields(v, cueModuleFields); err != nil {
		return nil, err
	}

	var err error
	if doc.Name, err = d.optionalString(v, "name"); err != nil {
		return nil, err
	}
	if err := d.eachItem(v, "globals", func(item cue.Value) error {
		g, err := d.global(item)
		if err != nil {
			return err
		}
		doc.Globals = append(doc.Globals, g)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := d.eachItem(v, "functions", func(item cue.Value) error {
		f, err := d.function(item)
		if err != nil {
			return err
		}
		doc.Functions = append(doc.Functions, f)
		return nil
	}); err != nil {
		return nil, err
	}
	return doc, nil
}

// cueError extracts the first positioned error from a CUE error list.
func cueError(path string, err error) *LoadError {
	e := &LoadError{Code: ErrCodeSyntax, Message: err.Error(), Path: path}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return e
	}
	first := errs[0]
	e.Message = first.Error()
	if positions := errors.Positions(first); len(positions) > 0 {
		e.Pos = positions[0]
	}
	return e
}

type cueDecoder struct {
	path string
}

func (d *cueDecoder) fail(v cue.Value, format string, args ...any) error {
	return newError(d.path, ErrCodeSyntax, source{pos: v.Pos()}, format, args...)
}

func (d *cueDecoder) checkFields(v cue.Value, allowed map[string]bool) error {
	iter, err := v.Fields()
	if err != nil {
		return d.fail(v, "expected a struct: %v", err)
	}
	for iter.Next() {
		if !allowed[iter.Label()] {
			return d.fail(iter.Value(), "field %s not allowed", iter.Label())
		}
	}
	return nil
}

func (d *cueDecoder) eachItem(v cue.Value, field string, fn func(cue.Value) error) error {
	list := v.LookupPath(cue.ParsePath(field))
	if !list.Exists() {
		return nil
	}
	iter, err := list.List()
	if err != nil {
		return d.fail(list, "%s: expected a list", field)
	}
	for iter.Next() {
		if err := fn(iter.Value()); err != nil {
			return err
		}
	}
	return nil
}

func (d *cueDecoder) optionalString(v cue.Value, field string) (string, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", d.fail(f, "%s: expected a string", field)
	}
	return s, nil
}

// operand reads an operand that may be written as a CUE int or string.
func (d *cueDecoder) operand(v cue.Value) (string, error) {
	if v.Kind() == cue.IntKind {
		n, err := v.Int64()
		if err != nil {
			return "", d.fail(v, "operand out of range: %v", err)
		}
		return strconv.FormatInt(n, 10), nil
	}
	s, err := v.String()
	if err != nil {
		return "", d.fail(v, "operand must be a string or integer")
	}
	return s, nil
}

func (d *cueDecoder) stringList(v cue.Value, field string) ([]string, error) {
	var out []string
	err := d.eachItem(v, field, func(item cue.Value) error {
		s, err := d.operand(item)
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	return out, err
}

func (d *cueDecoder) global(v cue.Value) (GlobalDoc, error) {
	g := GlobalDoc{src: source{pos: v.Pos()}}
	if err := d.checkFields(v, cueGlobalFields); err != nil {
		return g, err
	}

	var err error
	if g.Name, err = d.optionalString(v, "name"); err != nil {
		return g, err
	}

	// string accepts both CUE strings and byte literals ('...').
	if s := v.LookupPath(cue.ParsePath("string")); s.Exists() {
		var text string
		if s.Kind() == cue.BytesKind {
			b, err := s.Bytes()
			if err != nil {
				return g, d.fail(s, "string: %v", err)
			}
			text = string(b)
		} else if text, err = s.String(); err != nil {
			return g, d.fail(s, "string: expected a string or bytes")
		}
		g.String = &text
	}

	if err := d.eachItem(v, "bytes", func(item cue.Value) error {
		n, err := item.Int64()
		if err != nil {
			return d.fail(item, "bytes: expected integers")
		}
		g.Bytes = append(g.Bytes, int(n))
		return nil
	}); err != nil {
		return g, err
	}

	if i := v.LookupPath(cue.ParsePath("int")); i.Exists() {
		n, err := i.Int64()
		if err != nil {
			return g, d.fail(i, "int: expected an integer")
		}
		g.Int = &n
	}
	return g, nil
}

func (d *cueDecoder) function(v cue.Value) (FuncDoc, error) {
	f := FuncDoc{src: source{pos: v.Pos()}}
	if err := d.checkFields(v, cueFuncFields); err != nil {
		return f, err
	}

	var err error
	if f.Name, err = d.optionalString(v, "name"); err != nil {
		return f, err
	}
	if f.Params, err = d.stringList(v, "params"); err != nil {
		return f, err
	}
	err = d.eachItem(v, "blocks", func(item cue.Value) error {
		b, err := d.block(item)
		if err != nil {
			return err
		}
		f.Blocks = append(f.Blocks, b)
		return nil
	})
	return f, err
}

func (d *cueDecoder) block(v cue.Value) (BlockDoc, error) {
	b := BlockDoc{src: source{pos: v.Pos()}}
	if err := d.checkFields(v, cueBlockFields); err != nil {
		return b, err
	}

	var err error
	if b.Name, err = d.optionalString(v, "name"); err != nil {
		return b, err
	}
	err = d.eachItem(v, "insts", func(item cue.Value) error {
		in, err := d.inst(item)
		if err != nil {
			return err
		}
		b.Insts = append(b.Insts, in)
		return nil
	})
	return b, err
}

func (d *cueDecoder) inst(v cue.Value) (InstDoc, error) {
	in := InstDoc{src: source{pos: v.Pos()}}
	if err := d.checkFields(v, cueInstFields); err != nil {
		return in, err
	}

	fields := []struct {
		field string
		dst   *string
	}{
		{"op", &in.Op},
		{"name", &in.Name},
		{"pred", &in.Pred},
		{"callee", &in.Callee},
	}
	for _, s := range fields {
		val, err := d.optionalString(v, s.field)
		if err != nil {
			return in, err
		}
		*s.dst = val
	}

	if c := v.LookupPath(cue.ParsePath("cond")); c.Exists() {
		cond, err := d.operand(c)
		if err != nil {
			return in, err
		}
		in.Cond = cond
	}

	var err error
	if in.Args, err = d.stringList(v, "args"); err != nil {
		return in, err
	}
	in.Targets, err = d.stringList(v, "targets")
	return in, err
}
