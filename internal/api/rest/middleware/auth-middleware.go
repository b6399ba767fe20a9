package middleware

import (
	"errors"
	"strings"

	"github.com/SundayYogurt/herohq/internal/common"
	"github.com/SundayYogurt/herohq/internal/gate"
	"github.com/SundayYogurt/herohq/internal/helper"
	"github.com/SundayYogurt/herohq/internal/helper/utils"
	"github.com/SundayYogurt/herohq/internal/logging"
	"github.com/SundayYogurt/herohq/internal/session"
	"github.com/gofiber/fiber/v2"
)

const (
	LocalSession = "session"
	LocalGate    = "gate"
)

// Authenticator turns a raw token into a live session.
type Authenticator interface {
	Authenticate(token string) (*session.Session, error)
}

// AuthMiddleware decodes the session cookie (or a Bearer header) when one is
// present. It never rejects a request; guarded routes use AdminGate.
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// 1) try cookie first
		tokenStr := strings.TrimSpace(ctx.Cookies(helper.SessionCookie))

		// 2) fallback to Authorization header
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get(fiber.HeaderAuthorization))
		}
		if tokenStr == "" {
			return ctx.Next()
		}

		s, err := auth.Authenticate(tokenStr)
		if err == nil {
			ctx.Locals(LocalSession, s)
		}
		return ctx.Next()
	}
}

// CurrentSession returns the session AuthMiddleware attached, or nil.
func CurrentSession(ctx *fiber.Ctx) *session.Session {
	s, _ := ctx.Locals(LocalSession).(*session.Session)
	return s
}

func RequireSession() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if CurrentSession(ctx) == nil {
			return utils.ResponseErr(ctx, common.ErrUnauthorized)
		}
		return ctx.Next()
	}
}

// AdminGate mounts a gate for the request. HTML routes are redirected to the
// login page with 303 when the gate refuses; JSON routes get 401 or 403.
// Handlers behind it can keep the gate mounted (see GateFrom) and must not
// unmount it themselves.
func AdminGate(lookup gate.RoleLookup, hub *session.Hub, log logging.Logger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		g := gate.New(lookup, gate.WithLogger(log))
		state := g.Mount(ctx.UserContext(), hub, CurrentSession(ctx))

		if state != gate.Authorized {
			g.Unmount()
			return refuse(ctx, g.Reason())
		}

		ctx.Locals(LocalGate, g)
		err := ctx.Next()
		if !keepMounted(ctx) {
			g.Unmount()
		}
		return err
	}
}

// GateFrom returns the request's mounted gate. Calling it hands ownership to
// the caller, which must Unmount when done.
func GateFrom(ctx *fiber.Ctx) *gate.Gate {
	g, _ := ctx.Locals(LocalGate).(*gate.Gate)
	if g != nil {
		ctx.Locals(localKeepGate, true)
	}
	return g
}

const localKeepGate = "gate_kept"

func keepMounted(ctx *fiber.Ctx) bool {
	kept, _ := ctx.Locals(localKeepGate).(bool)
	return kept
}

func refuse(ctx *fiber.Ctx, reason error) error {
	if reason == nil {
		reason = common.ErrUnauthorized
	}
	if isAPI(ctx.Path()) {
		return utils.ResponseErr(ctx, reason)
	}
	if errors.Is(reason, common.ErrForbidden) {
		return ctx.Redirect("/login?denied=1", fiber.StatusSeeOther)
	}
	return ctx.Redirect("/login", fiber.StatusSeeOther)
}

func isAPI(path string) bool {
	return strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/admin/api")
}
