// Package dashboard holds the admin dashboard state of each signed-in
// session: its listing position and its inspector selection.
package dashboard

import (
	"sync"
	"time"

	"github.com/SundayYogurt/herohq/internal/dto"
	"github.com/SundayYogurt/herohq/internal/inspector"
	"github.com/SundayYogurt/herohq/internal/listing"
	"github.com/SundayYogurt/herohq/internal/pubsub"
	"github.com/SundayYogurt/herohq/internal/session"
)

type State struct {
	Listing   *listing.Controller
	Inspector *inspector.Panel
}

type Factory func() *State

type board struct {
	state     *State
	expiresAt time.Time
}

type Store struct {
	factory Factory
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*board
	unsubs   []func()
}

// NewStore drops a session's state when it signs out and removes deleted
// applicants from every open listing.
func NewStore(hub *session.Hub, feed *pubsub.Hub[dto.AdminEvent], factory Factory) *Store {
	s := &Store{
		factory:  factory,
		now:      time.Now,
		sessions: make(map[string]*board),
	}
	if hub != nil {
		s.unsubs = append(s.unsubs, hub.Subscribe(func(e session.Event) {
			if e.Type == session.SignedOut {
				s.Drop(e.Session.ID)
			}
		}))
	}
	if feed != nil {
		s.unsubs = append(s.unsubs, feed.Subscribe(func(e dto.AdminEvent) {
			if e.Type == dto.EventApplicationDeleted {
				s.forEach(func(st *State) { st.Listing.Remove(e.ID) })
			}
		}))
	}
	return s
}

// Get returns the state for sess, creating it on first use. The state lives
// until sess signs out or Sweep runs after sess.ExpiresAt.
func (s *Store) Get(sess session.Session) *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.sessions[sess.ID]
	if !ok {
		b = &board{state: s.factory()}
		s.sessions[sess.ID] = b
	}
	b.expiresAt = sess.ExpiresAt
	return b.state
}

func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// Sweep drops the state of sessions whose tokens have expired.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for id, b := range s.sessions {
		if !b.expiresAt.IsZero() && now.After(b.expiresAt) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) Close() {
	s.mu.Lock()
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
}

func (s *Store) forEach(fn func(*State)) {
	s.mu.Lock()
	states := make([]*State, 0, len(s.sessions))
	for _, b := range s.sessions {
		states = append(states, b.state)
	}
	s.mu.Unlock()

	for _, st := range states {
		fn(st)
	}
}
