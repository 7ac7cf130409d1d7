package codegen

import (
	"log/slog"
	"strings"

	"github.com/roach88/hecate/internal/ir"
)

// Machine conventions of the target.
const (
	ZeroRegister     = "R0" // always holds 0
	OneRegister      = "R1" // always holds 1
	ScratchRegister  = "R5" // stages immediates for store
	FallbackRegister = "R2" // handed out once the pool is empty

	AllocaBase = 1000 // first stack slot address
	AllocaStep = 4    // bytes per stack slot
	StringBase = 2000 // first byte-string global address

	UnknownMemory    = "@unknown_mem"
	BlockLabelPrefix = "Block"

	DefaultEntryPoint       = "main"
	DefaultInspectIntrinsic = "inspect"
)

// registerPool is consumed from the end, so R2 is handed out first.
var registerPool = [...]string{"R5", "R4", "R3", "R2"}

// Options configures a translation.
type Options struct {
	// EntryPoint names the function that gets a trailing halt.
	// Defaults to "main".
	EntryPoint string

	// InspectIntrinsic names the callee lowered to the debug inspect
	// instruction. Defaults to "inspect".
	InspectIntrinsic string

	// InitStrings emits a globalinit block that stores every byte-string
	// global into memory before jumping to the entry point.
	InitStrings bool

	// Logger receives debug events. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.EntryPoint == "" {
		o.EntryPoint = DefaultEntryPoint
	}
	if o.InspectIntrinsic == "" {
		o.InspectIntrinsic = DefaultInspectIntrinsic
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Session holds the state of one module translation.
//
// A Session is single-use and not safe for concurrent use. The register
// map, the register pool and the alloca counter persist across all
// functions of the module; block labels are reset per function.
type Session struct {
	mod  *ir.Module
	opts Options
	log  *slog.Logger

	registers map[ir.ValueID]string
	pool      []string

	allocas     map[ir.InstID]string
	allocaCount int

	stringBases  map[ir.GlobalID]int
	stringCursor int

	labels map[ir.BlockID]string

	exhausted bool
	report    Report
	out       strings.Builder
}

// NewSession creates a translation session for m.
func NewSession(m *ir.Module, opts Options) *Session {
	opts = opts.withDefaults()
	return &Session{
		mod:          m,
		opts:         opts,
		log:          opts.Logger,
		registers:    make(map[ir.ValueID]string),
		pool:         append([]string(nil), registerPool[:]...),
		allocas:      make(map[ir.InstID]string),
		stringBases:  make(map[ir.GlobalID]int),
		stringCursor: StringBase,
		labels:       make(map[ir.BlockID]string),
	}
}

// line appends one line of output.
func (s *Session) line(text string) {
	s.out.WriteString(text)
	s.out.WriteByte('\n')
}

// inst appends an indented instruction line.
func (s *Session) inst(text string) {
	s.line("  " + text)
}

// comment appends an indented comment line.
func (s *Session) comment(text string) {
	s.line("  ; " + text)
}
