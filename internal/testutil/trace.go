package testutil

import (
	"fmt"
	"sync"
)

// FixedTraceID returns the same trace id on every call.
//
// This keeps JSON command output byte-identical across runs so it can be
// compared against golden files.
type FixedTraceID struct {
	id string
}

// NewFixedTraceID creates a generator for id. An empty id becomes
// "test-trace-default".
func NewFixedTraceID(id string) *FixedTraceID {
	if id == "" {
		id = "test-trace-default"
	}
	return &FixedTraceID{id: id}
}

// Generate returns the fixed id.
func (g *FixedTraceID) Generate() string {
	return g.id
}

// SequentialTraceIDs hands out "test-trace-0001", "test-trace-0002", ...
//
// Safe for concurrent use.
type SequentialTraceIDs struct {
	mu  sync.Mutex
	seq int
}

// Generate returns the next id in the sequence.
func (g *SequentialTraceIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("test-trace-%04d", g.seq)
}

// Reset restarts the sequence at 1.
func (g *SequentialTraceIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
