package browse

import (
	"errors"
	"sync"
)

// ErrSuperseded is returned when a newer request for the same context was
// issued while a response was in flight. The stale response is discarded.
var ErrSuperseded = errors.New("request superseded")

// Token identifies one issued request within a context key.
type Token struct {
	Key string
	Seq uint64
}

// Generation issues monotonically increasing tokens per key. A response is
// applied only while its token is still the latest for its key.
type Generation struct {
	mu     sync.Mutex
	latest map[string]uint64
}

// Next issues a new token for key, superseding every earlier one.
func (g *Generation) Next(key string) Token {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.latest == nil {
		g.latest = make(map[string]uint64)
	}
	g.latest[key]++
	return Token{Key: key, Seq: g.latest[key]}
}

// Peek returns the latest token for key without issuing a new one.
func (g *Generation) Peek(key string) Token {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Token{Key: key, Seq: g.latest[key]}
}

// Current reports whether t is still the latest token for its key.
func (g *Generation) Current(t Token) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.latest[t.Key] == t.Seq
}
