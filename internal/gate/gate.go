// Package gate decides whether a visitor may see the admin area. A Gate is
// mounted for the lifetime of one protected view (a request or a live
// stream) and re-evaluates on every session notification for its session.
package gate

import (
	"context"
	"sync"

	"github.com/SundayYogurt/herohq/internal/common"
	"github.com/SundayYogurt/herohq/internal/domain"
	"github.com/SundayYogurt/herohq/internal/logging"
	"github.com/SundayYogurt/herohq/internal/pubsub"
	"github.com/SundayYogurt/herohq/internal/session"
)

type State string

const (
	Checking     State = "CHECKING"
	Authorized   State = "AUTHORIZED"
	Unauthorized State = "UNAUTHORIZED"
)

// RoleLookup returns the authorization role stored for a user.
type RoleLookup func(ctx context.Context, userID string) (string, error)

type Option func(*Gate)

// WithoutRoleCheck authorizes any signed-in session.
func WithoutRoleCheck() Option {
	return func(g *Gate) { g.requireAdmin = false }
}

func WithLogger(l logging.Logger) Option {
	return func(g *Gate) { g.log = l }
}

type Gate struct {
	lookup       RoleLookup
	requireAdmin bool
	log          logging.Logger

	mu      sync.Mutex
	ctx     context.Context
	hub     *session.Hub
	current *session.Session
	state   State
	reason  error
	unsub   func()
	changes *pubsub.Hub[State]
}

func New(lookup RoleLookup, opts ...Option) *Gate {
	g := &Gate{
		lookup:       lookup,
		requireAdmin: true,
		log:          logging.Nop(),
		state:        Checking,
		reason:       common.ErrUnauthorized,
		changes:      pubsub.NewHub[State](),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Mount subscribes to hub and evaluates s. It returns once the gate has left
// CHECKING; s may be nil for a visitor without a session.
func (g *Gate) Mount(ctx context.Context, hub *session.Hub, s *session.Session) State {
	g.mu.Lock()
	if g.unsub != nil {
		g.mu.Unlock()
		return g.State()
	}
	g.ctx = ctx
	g.hub = hub
	g.current = s
	g.unsub = hub.Subscribe(g.onSessionEvent)
	g.mu.Unlock()

	g.evaluate()
	return g.State()
}

// Unmount stops listening. The gate keeps its last state.
func (g *Gate) Unmount() {
	g.mu.Lock()
	unsub := g.unsub
	g.unsub = func() {}
	g.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Reason explains an UNAUTHORIZED state: common.ErrUnauthorized when there
// is no usable session, common.ErrForbidden when the role is not admin.
func (g *Gate) Reason() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == Authorized {
		return nil
	}
	return g.reason
}

// OnChange registers fn for state transitions after mount.
func (g *Gate) OnChange(fn func(State)) (unsubscribe func()) {
	return g.changes.Subscribe(fn)
}

func (g *Gate) onSessionEvent(e session.Event) {
	g.mu.Lock()
	current := g.current
	if current == nil || e.Session.ID != current.ID {
		g.mu.Unlock()
		return
	}
	if e.Type == session.SignedOut {
		g.current = nil
	}
	g.mu.Unlock()

	g.evaluate()
}

func (g *Gate) evaluate() {
	g.mu.Lock()
	ctx, hub, s := g.ctx, g.hub, g.current
	g.mu.Unlock()

	state, reason := g.decide(ctx, hub, s)

	g.mu.Lock()
	changed := g.state != state
	g.state = state
	g.reason = reason
	g.mu.Unlock()

	if changed {
		g.changes.Publish(state)
	}
}

func (g *Gate) decide(ctx context.Context, hub *session.Hub, s *session.Session) (State, error) {
	if s == nil || !hub.Active(*s) {
		return Unauthorized, common.ErrUnauthorized
	}
	if !g.requireAdmin {
		return Authorized, nil
	}
	if g.lookup == nil {
		return Unauthorized, common.ErrForbidden
	}

	role, err := g.lookup(ctx, s.UserID)
	if err != nil {
		g.log.Warn(ctx, "role lookup failed, denying access", "user_id", s.UserID, "error", err)
		return Unauthorized, common.ErrForbidden
	}
	if role != domain.RoleAdmin {
		return Unauthorized, common.ErrForbidden
	}
	return Authorized, nil
}
