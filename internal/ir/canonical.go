package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces deterministic JSON for hashing.
//
// Differences from json.Marshal:
//  1. Object keys are sorted
//  2. No HTML escaping
//  3. Strings are NFC normalized
//  4. Floats and null are rejected
//
// Supported inputs: string, int, int64, bool, []any, []string and
// map[string]any, nested arbitrarily.
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		return writeCanonicalString(buf, val)
	case int:
		buf.WriteString(strconv.Itoa(val))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case []string:
		items := make([]any, len(val))
		for i, s := range val {
			items[i] = s
		}
		return writeCanonical(buf, items)
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("object[%q]: %w", k, err)
			}
		}
		buf.WriteByte('}')
	case float64, float32:
		return fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

// writeCanonicalString writes an NFC-normalized JSON string without HTML
// escaping.
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// Canonical returns a map describing the module's structure, suitable for
// MarshalCanonical. Blocks are referenced by their position in the function.
func (m *Module) Canonical() map[string]any {
	globals := make([]any, 0, len(m.globals))
	for i := range m.globals {
		g := &m.globals[i]
		obj := map[string]any{"name": g.Name}
		if g.Init != nil {
			obj["init_kind"] = int(g.Init.Kind)
			switch g.Init.Kind {
			case InitBytes:
				bs := make([]any, len(g.Init.Bytes))
				for j, b := range g.Init.Bytes {
					bs[j] = int(b)
				}
				obj["bytes"] = bs
			case InitInt:
				obj["int"] = g.Init.Int
			}
		}
		globals = append(globals, obj)
	}

	funcs := make([]any, 0, len(m.funcs))
	for i := range m.funcs {
		funcs = append(funcs, m.canonicalFunc(&m.funcs[i]))
	}

	return map[string]any{
		"name":      m.Name,
		"globals":   globals,
		"functions": funcs,
	}
}

func (m *Module) canonicalFunc(f *Func) map[string]any {
	params := make([]any, len(f.Params))
	for i, p := range f.Params {
		params[i] = m.Value(p).Name
	}

	blockIndex := make(map[BlockID]int, len(f.Blocks))
	for i, b := range f.Blocks {
		blockIndex[b] = i
	}

	blocks := make([]any, 0, len(f.Blocks))
	for _, bid := range f.Blocks {
		b := m.Block(bid)
		insts := make([]any, 0, len(b.Insts))
		for _, iid := range b.Insts {
			inst := m.Inst(iid)
			obj := map[string]any{"op": inst.Name()}
			if inst.Result.IsValid() {
				obj["result"] = m.Value(inst.Result).Name
			}
			operands := make([]any, len(inst.Operands))
			for j, op := range inst.Operands {
				operands[j] = m.canonicalValue(op)
			}
			obj["operands"] = operands
			if len(inst.Targets) > 0 {
				targets := make([]any, len(inst.Targets))
				for j, t := range inst.Targets {
					targets[j] = blockIndex[t]
				}
				obj["targets"] = targets
			}
			if inst.Callee.IsValid() {
				obj["callee"] = m.canonicalValue(inst.Callee)
			}
			if inst.Op == OpICmp {
				obj["pred"] = inst.Pred.String()
			}
			insts = append(insts, obj)
		}
		blocks = append(blocks, map[string]any{"name": b.Name, "insts": insts})
	}

	return map[string]any{
		"name":   f.Name,
		"params": params,
		"blocks": blocks,
	}
}

func (m *Module) canonicalValue(id ValueID) any {
	v := m.Value(id)
	switch v.Kind {
	case ValueConst:
		return map[string]any{"const": v.Int}
	case ValueInst:
		return map[string]any{"inst": int64(v.Inst), "name": v.Name}
	case ValueParam:
		return map[string]any{"param": v.Index, "name": v.Name}
	case ValueGlobal:
		return map[string]any{"global": m.Global(v.Global).Name}
	case ValueFunc:
		return map[string]any{"func": m.Func(v.Func).Name}
	case ValueCast:
		return map[string]any{"cast": m.canonicalValue(v.Inner)}
	}
	return map[string]any{"invalid": true}
}
