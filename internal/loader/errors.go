package loader

import (
	"fmt"

	"cuelang.org/go/cue/token"
)

// Load error codes.
const (
	ErrCodeGeneric       = "E001" // Generic load error
	ErrCodeReadFailed    = "E002" // File could not be read
	ErrCodeFormat        = "E003" // Unsupported file extension
	ErrCodeSyntax        = "E004" // YAML or CUE syntax / decode error
	ErrCodeDuplicate     = "E005" // Duplicate global, function, block or value name
	ErrCodeUnknownValue  = "E006" // Operand references an undefined name
	ErrCodeUnknownTarget = "E007" // Branch target names no block
	ErrCodeOperand       = "E008" // Malformed operand text
	ErrCodeInstruction   = "E009" // Missing opcode, bad predicate or branch shape
	ErrCodeGlobal        = "E010" // Conflicting or out-of-range global initializer
)

// LoadError is a positioned module loading failure.
type LoadError struct {
	Code    string
	Message string
	Path    string
	Line    int       // YAML line when known
	Pos     token.Pos // CUE position when known
}

func (e *LoadError) Error() string {
	switch {
	case e.Pos.IsValid():
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s: %s", e.Path, e.Line, e.Code, e.Message)
	case e.Path != "":
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(path, code string, src source, format string, args ...any) *LoadError {
	return &LoadError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Path:    path,
		Line:    src.line,
		Pos:     src.pos,
	}
}
