package views

import "sync"

// Scope ties in-flight work to a page's lifetime. Work started under a
// Ticket may only touch page state while the ticket is current; leaving
// or reloading the page makes older tickets stale.
type Scope struct {
	mu  sync.Mutex
	gen uint64
}

// Ticket is a snapshot of the scope's generation.
type Ticket struct {
	scope *Scope
	gen   uint64
}

// Begin returns a ticket for the current generation.
func (s *Scope) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Ticket{scope: s, gen: s.gen}
}

// Invalidate makes every outstanding ticket stale.
func (s *Scope) Invalidate() {
	s.mu.Lock()
	s.gen++
	s.mu.Unlock()
}

// Current reports whether the ticket's generation is still live.
func (t Ticket) Current() bool {
	t.scope.mu.Lock()
	defer t.scope.mu.Unlock()
	return t.scope.gen == t.gen
}

// Apply runs fn only if the ticket is current. fn runs under the scope
// lock, so it must not call back into the scope.
func (t Ticket) Apply(fn func()) bool {
	t.scope.mu.Lock()
	defer t.scope.mu.Unlock()
	if t.scope.gen != t.gen {
		return false
	}
	fn()
	return true
}
