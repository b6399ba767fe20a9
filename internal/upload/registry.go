package upload

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type registryEntry struct {
	ctrl    *Controller
	expires time.Time
}

// Registry maps upload ids to controllers so a browser can upload its resume
// ahead of submitting the form. Entries expire after ttl.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
	ttl     time.Duration
	factory func() *Controller
	now     func() time.Time
}

func NewRegistry(ttl time.Duration, factory func() *Controller) *Registry {
	return &Registry{
		entries: make(map[string]*registryEntry),
		ttl:     ttl,
		factory: factory,
		now:     time.Now,
	}
}

func (r *Registry) Create() (string, *Controller) {
	id := uuid.NewString()
	ctrl := r.factory()

	r.mu.Lock()
	r.entries[id] = &registryEntry{ctrl: ctrl, expires: r.now().Add(r.ttl)}
	r.mu.Unlock()
	return id, ctrl
}

// Get returns the controller for id and extends its lifetime.
func (r *Registry) Get(id string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	now := r.now()
	if now.After(e.expires) {
		delete(r.entries, id)
		return nil, false
	}
	e.expires = now.Add(r.ttl)
	return e.ctrl, true
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

// Sweep drops expired entries and reports how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	n := 0
	for id, e := range r.entries {
		if now.After(e.expires) {
			delete(r.entries, id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep()
		}
	}
}

// NewController builds an unregistered controller with the registry's
// settings.
func (r *Registry) NewController() *Controller {
	return r.factory()
}
