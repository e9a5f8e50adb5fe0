package session

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// Registry hands out one Session per owner. It keeps at most size sessions
// in memory; an evicted owner gets a new session whose cart is reloaded from
// the gateway and whose checkout starts over. A session evicted while it is
// placing an order is parked until that owner asks for it again, so the
// placement finishes against the session the owner keeps using.
type Registry struct {
	sessions *lru.Cache
	deps     Dependencies

	mu     sync.Mutex
	parked map[string]*Session
}

func NewRegistry(size int, deps Dependencies) (*Registry, error) {
	r := &Registry{deps: deps, parked: map[string]*Session{}}
	sessions, err := lru.NewWithEvict(size, r.evicted)
	if err != nil {
		return nil, err
	}
	r.sessions = sessions
	return r, nil
}

// evicted runs under the cache lock and must not call back into it.
func (r *Registry) evicted(key, value interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for owner, s := range r.parked {
		if !s.Processing() {
			delete(r.parked, owner)
		}
	}
	if s := value.(*Session); s.Processing() {
		r.parked[key.(string)] = s
	}
}

func (r *Registry) unpark(owner string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.parked[owner]
	if ok {
		delete(r.parked, owner)
	}
	return s, ok
}

func (r *Registry) Get(ctx context.Context, owner string) (*Session, error) {
	if s, ok := r.sessions.Get(owner); ok {
		return s.(*Session), nil
	}

	opened, ok := r.unpark(owner)
	if !ok {
		var err error
		if opened, err = Open(ctx, owner, r.deps); err != nil {
			return nil, err
		}
	}
	// another request may have opened the same owner meanwhile
	if prev, found, _ := r.sessions.PeekOrAdd(owner, opened); found {
		return prev.(*Session), nil
	}
	return opened, nil
}

// Forget drops the in-memory session of owner.
func (r *Registry) Forget(owner string) {
	r.sessions.Remove(owner)
	r.unpark(owner)
}

func (r *Registry) Len() int {
	return r.sessions.Len()
}
