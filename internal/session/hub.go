// Package session tracks sign-in and sign-out notifications for browser
// sessions. Session tokens are stateless JWTs; the hub only remembers which
// session ids were signed out before they expired.
package session

import (
	"sync"
	"time"

	"github.com/SundayYogurt/herohq/internal/pubsub"
)

type EventType string

const (
	SignedIn  EventType = "signed_in"
	SignedOut EventType = "signed_out"
)

type Session struct {
	ID        string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

type Event struct {
	Type    EventType
	Session Session
}

type Hub struct {
	events *pubsub.Hub[Event]

	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		events:  pubsub.NewHub[Event](),
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (h *Hub) Subscribe(fn func(Event)) (unsubscribe func()) {
	return h.events.Subscribe(fn)
}

func (h *Hub) SignIn(s Session) {
	h.events.Publish(Event{Type: SignedIn, Session: s})
}

// SignOut revokes s and notifies listeners.
func (h *Hub) SignOut(s Session) {
	h.mu.Lock()
	exp := s.ExpiresAt
	if exp.IsZero() {
		exp = h.now().Add(24 * time.Hour)
	}
	h.revoked[s.ID] = exp
	h.mu.Unlock()

	h.events.Publish(Event{Type: SignedOut, Session: s})
}

// Active reports whether s is still usable.
func (h *Hub) Active(s Session) bool {
	if s.ID == "" {
		return false
	}
	now := h.now()
	if !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt) {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, revoked := h.revoked[s.ID]
	return !revoked
}

// Sweep forgets revocations whose tokens have expired anyway.
func (h *Hub) Sweep() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	n := 0
	for id, exp := range h.revoked {
		if now.After(exp) {
			delete(h.revoked, id)
			n++
		}
	}
	return n
}

func (h *Hub) Listeners() int {
	return h.events.Len()
}
