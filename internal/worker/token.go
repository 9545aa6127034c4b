package worker

import "sync"

// Token is a liveness flag owned by the caller. Once canceled, every task
// submitted with it resolves with ErrCanceled. A nil *Token is always alive.
type Token struct {
	mu    sync.Mutex
	dead  bool
	next  uint64
	hooks map[uint64]func()
}

// NewToken returns a live token.
func NewToken() *Token {
	return &Token{}
}

// Alive reports whether results for this token are still wanted.
func (t *Token) Alive() bool {
	if t == nil {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.dead
}

// Cancel marks the token dead. It is safe to call more than once.
func (t *Token) Cancel() {
	if t == nil {
		return
	}
	t.mu.Lock()
	if t.dead {
		t.mu.Unlock()
		return
	}
	t.dead = true
	hooks := t.hooks
	t.hooks = nil
	t.mu.Unlock()

	// Hooks run without the token lock; they take the pool lock.
	for _, fn := range hooks {
		fn()
	}
}

// onCancel registers fn to run on Cancel and returns its unregister func.
// ok is false if the token is already dead, in which case fn is dropped.
func (t *Token) onCancel(fn func()) (unregister func(), ok bool) {
	if t == nil {
		return func() {}, true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dead {
		return nil, false
	}
	if t.hooks == nil {
		t.hooks = make(map[uint64]func())
	}
	id := t.next
	t.next++
	t.hooks[id] = fn
	return func() {
		t.mu.Lock()
		delete(t.hooks, id)
		t.mu.Unlock()
	}, true
}
