package ir

// GlobalID identifies a global variable within a Module.
type GlobalID uint32

// FuncID identifies a function within a Module.
type FuncID uint32

// BlockID identifies a basic block within a Module.
type BlockID uint32

// InstID identifies an instruction within a Module.
type InstID uint32

// ValueID identifies an interned value within a Module.
type ValueID uint32

// Invalid ID constants (zero is sentinel).
const (
	NoGlobal GlobalID = 0
	NoFunc   FuncID   = 0
	NoBlock  BlockID  = 0
	NoInst   InstID   = 0
	NoValue  ValueID  = 0
)

// IsValid returns true if the ID is valid (non-zero).
func (id GlobalID) IsValid() bool { return id != NoGlobal }
func (id FuncID) IsValid() bool   { return id != NoFunc }
func (id BlockID) IsValid() bool  { return id != NoBlock }
func (id InstID) IsValid() bool   { return id != NoInst }
func (id ValueID) IsValid() bool  { return id != NoValue }
