package loader

import "cuelang.org/go/cue/token"

// Document is the decoded form of a module file, shared by the YAML and
// CUE front ends. Build turns it into an ir.Module.
type Document struct {
	// Name is the module name. Defaults to the file name without extension.
	Name string `yaml:"name,omitempty"`

	// Globals lists module-level variables in declaration order.
	Globals []GlobalDoc `yaml:"globals,omitempty"`

	// Functions lists functions in declaration order. A function without
	// blocks is a declaration.
	Functions []FuncDoc `yaml:"functions,omitempty"`
}

// GlobalDoc describes one global variable.
//
// At most one of String, Bytes and Int may be set. String and Bytes give a
// byte-string initializer; Int gives a non-string initializer. A global
// with none of them has no initializer.
type GlobalDoc struct {
	Name   string  `yaml:"name"`
	String *string `yaml:"string,omitempty"`
	Bytes  []int   `yaml:"bytes,omitempty"`
	Int    *int64  `yaml:"int,omitempty"`

	src source
}

// FuncDoc describes one function.
type FuncDoc struct {
	Name   string     `yaml:"name"`
	Params []string   `yaml:"params,omitempty"`
	Blocks []BlockDoc `yaml:"blocks,omitempty"`

	src source
}

// BlockDoc describes one basic block. Name is optional.
type BlockDoc struct {
	Name  string    `yaml:"name,omitempty"`
	Insts []InstDoc `yaml:"insts"`

	src source
}

// InstDoc describes one instruction.
//
// Operands in Args and Cond use the operand syntax: an integer literal,
// %name for a parameter or instruction result, @name for a global or
// function, and "bitcast <operand>" for a pointer cast. Targets name a
// block of the same function, or "#<index>" for its position.
type InstDoc struct {
	// Op is the opcode name. Unknown names are kept as "other".
	Op string `yaml:"op"`

	// Name is the result name for value-producing instructions.
	Name string `yaml:"name,omitempty"`

	Args []string `yaml:"args,omitempty"`

	// Pred is the icmp predicate (eq, ne, ugt, ...).
	Pred string `yaml:"pred,omitempty"`

	// Cond turns a br into a conditional branch over two targets.
	Cond string `yaml:"cond,omitempty"`

	// Targets are the branch destinations, true target first.
	Targets []string `yaml:"targets,omitempty"`

	// Callee names the called function. Omitted means an indirect call.
	Callee string `yaml:"callee,omitempty"`

	src source
}

// source records where a document element came from.
type source struct {
	line int       // YAML line, 1-based
	pos  token.Pos // CUE position
}
