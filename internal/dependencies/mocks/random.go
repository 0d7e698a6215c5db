package mocks

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mcoot/clickgame-go/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	mu sync.Mutex

	// HexResults is a queue of results to return from Hex
	HexResults []string
	hexIndex   int

	// fallback counter so unqueued calls still yield distinct values
	calls int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Hex returns the next queued result. Once the queue is drained it returns
// a deterministic, zero-padded counter of the requested width.
func (r *MockRandom) Hex(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hexIndex < len(r.HexResults) {
		result := r.HexResults[r.hexIndex]
		r.hexIndex++
		return result
	}

	r.calls++
	s := fmt.Sprintf("%x", r.calls)
	if len(s) >= 2*n {
		return s
	}
	return strings.Repeat("0", 2*n-len(s)) + s
}

// QueueHex adds values to the Hex result queue
func (r *MockRandom) QueueHex(values ...string) {
	r.mu.Lock()
	r.HexResults = append(r.HexResults, values...)
	r.mu.Unlock()
}
