// Package signal carries the feed-recomputation signal from store mutations to
// the presentation layer. It is deliberately a single-slot registry rather
// than a broadcast bus: exactly one UI subscriber exists at a time, and
// registering a new one replaces the previous. The slot is an explicit,
// injected dependency so the single-subscriber constraint is a tested
// contract, not an accident of a global variable.
package signal

import "sync"

// Refresh is the single-slot refresh signal. The zero value is not usable;
// construct with New.
type Refresh struct {
	mu       sync.Mutex
	listener func()
}

func New() *Refresh {
	return &Refresh{}
}

// Register installs fn as the sole subscriber, silently replacing any
// previous one. A nil fn clears the slot.
func (r *Refresh) Register(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listener = fn
}

// Notify invokes the current subscriber at most once. A missing subscriber is
// a no-op. The callback runs outside the lock so subscribers may re-register.
func (r *Refresh) Notify() {
	r.mu.Lock()
	fn := r.listener
	r.mu.Unlock()
	if fn != nil {
		fn()
	}
}
