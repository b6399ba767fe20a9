package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SundayYogurt/herohq/internal/common"
	"github.com/SundayYogurt/herohq/internal/domain"
	"github.com/SundayYogurt/herohq/internal/helper"
	"github.com/SundayYogurt/herohq/internal/logging"
	"github.com/SundayYogurt/herohq/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	sessions map[string]*session.Session
}

func (f fakeAuth) Authenticate(token string) (*session.Session, error) {
	if s, ok := f.sessions[token]; ok {
		return s, nil
	}
	return nil, common.ErrInvalidToken
}

func roleOf(role string, err error) func(context.Context, string) (string, error) {
	return func(context.Context, string) (string, error) { return role, err }
}

func newApp(role string, lookupErr error) (*fiber.App, *session.Hub) {
	hub := session.NewHub()
	auth := fakeAuth{sessions: map[string]*session.Session{
		"good": {ID: "s1", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)},
	}}

	app := fiber.New()
	app.Use(AuthMiddleware(auth))
	guard := AdminGate(roleOf(role, lookupErr), hub, logging.Nop())
	app.Get("/admin", guard, func(c *fiber.Ctx) error { return c.SendString("secret") })
	app.Get("/admin/api/ping", guard, func(c *fiber.Ctx) error { return c.SendString("pong") })
	return app, hub
}

func get(t *testing.T, app *fiber.App, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.AddCookie(newCookie(token))
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header.Get("Location")
}

func TestAdminGate_RedirectsAnonymousHTML(t *testing.T) {
	app, _ := newApp(domain.RoleAdmin, nil)

	status, loc := get(t, app, "/admin", "")
	assert.Equal(t, fiber.StatusSeeOther, status)
	assert.Equal(t, "/login", loc)
}

func TestAdminGate_APIStatuses(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		app, _ := newApp(domain.RoleAdmin, nil)
		status, _ := get(t, app, "/admin/api/ping", "")
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})
	t.Run("bad token", func(t *testing.T) {
		app, _ := newApp(domain.RoleAdmin, nil)
		status, _ := get(t, app, "/admin/api/ping", "forged")
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})
	t.Run("not admin", func(t *testing.T) {
		app, _ := newApp(domain.RoleUser, nil)
		status, _ := get(t, app, "/admin/api/ping", "good")
		assert.Equal(t, fiber.StatusForbidden, status)
	})
	t.Run("role lookup fails closed", func(t *testing.T) {
		app, _ := newApp(domain.RoleAdmin, errors.New("db down"))
		status, _ := get(t, app, "/admin/api/ping", "good")
		assert.Equal(t, fiber.StatusForbidden, status)
	})
	t.Run("admin", func(t *testing.T) {
		app, _ := newApp(domain.RoleAdmin, nil)
		status, _ := get(t, app, "/admin/api/ping", "good")
		assert.Equal(t, fiber.StatusOK, status)
	})
}

func TestAdminGate_SignedOutSessionIsRefused(t *testing.T) {
	app, hub := newApp(domain.RoleAdmin, nil)
	hub.SignOut(session.Session{ID: "s1"})

	status, loc := get(t, app, "/admin", "good")
	assert.Equal(t, fiber.StatusSeeOther, status)
	assert.Equal(t, "/login", loc)
}

func TestAdminGate_UnmountsAfterRequest(t *testing.T) {
	app, hub := newApp(domain.RoleAdmin, nil)

	status, _ := get(t, app, "/admin", "good")
	require.Equal(t, fiber.StatusOK, status)
	assert.Zero(t, hub.Listeners())
}

func TestAdminGate_ForbiddenHTMLRedirectsWithFlag(t *testing.T) {
	app, _ := newApp(domain.RoleUser, nil)

	status, loc := get(t, app, "/admin", "good")
	assert.Equal(t, fiber.StatusSeeOther, status)
	assert.Equal(t, "/login?denied=1", loc)
}

func newCookie(token string) *http.Cookie {
	return &http.Cookie{Name: helper.SessionCookie, Value: token}
}
