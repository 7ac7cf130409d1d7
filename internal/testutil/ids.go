package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDGenerator returns "<prefix>-0001", "<prefix>-0002", ... so
// that recorded IDs are stable across test runs.
//
// Thread-safety: SequenceIDGenerator is safe for concurrent use via internal mutex.
type SequenceIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceIDGenerator creates a generator for prefix. An empty prefix
// defaults to "test".
func NewSequenceIDGenerator(prefix string) *SequenceIDGenerator {
	if prefix == "" {
		prefix = "test"
	}
	return &SequenceIDGenerator{prefix: prefix}
}

// Generate returns the next ID in the sequence.
func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}

// FixedIDGenerator returns predetermined IDs in order.
//
// Example:
//
//	gen := NewFixedIDGenerator("a", "b")
//	gen.Generate() // "a"
//	gen.Generate() // "b"
//	gen.Generate() // panic: all IDs exhausted
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator creates a generator that returns ids in order.
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next predetermined ID.
//
// Panics if all IDs have been consumed, so a test that records more
// translations than it planned for fails fast.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedIDGenerator: all IDs exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
