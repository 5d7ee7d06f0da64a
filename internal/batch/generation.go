package batch

import "sync/atomic"

// Token identifies one generation of work
type Token uint64

// Generation is a monotonic counter. Work captures a Token when it starts
// and may touch shared state on completion only if the token is still
// current.
type Generation struct {
	n atomic.Uint64
}

// Next starts a new generation and returns its token
func (g *Generation) Next() Token {
	return Token(g.n.Add(1))
}

// Current returns the token of the current generation
func (g *Generation) Current() Token {
	return Token(g.n.Load())
}

// IsCurrent reports whether t belongs to the current generation
func (g *Generation) IsCurrent(t Token) bool {
	return g.n.Load() == uint64(t)
}
