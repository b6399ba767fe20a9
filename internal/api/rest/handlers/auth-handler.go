package handlers

import (
	"crypto/subtle"
	"time"

	"github.com/SundayYogurt/herohq/internal/api/rest/middleware"
	"github.com/SundayYogurt/herohq/internal/common"
	"github.com/SundayYogurt/herohq/internal/dto"
	"github.com/SundayYogurt/herohq/internal/helper"
	"github.com/SundayYogurt/herohq/internal/helper/utils"
	"github.com/SundayYogurt/herohq/internal/logging"
	"github.com/SundayYogurt/herohq/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	stateCookie = "herohq_oauth_state"
	stateTTL    = 10 * time.Minute
)

type AuthHandler struct {
	svc    services.UserService
	google helper.GoogleSignIn
	secure bool
	log    logging.Logger
}

// NewAuthHandler wires the sign-in endpoints. google may be nil when
// federated sign-in is not configured.
func NewAuthHandler(svc services.UserService, google helper.GoogleSignIn, secureCookies bool, log logging.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		google: google,
		secure: secureCookies,
		log:    log.With("component", "auth"),
	}
}

func (h *AuthHandler) SetupRoutes(app *fiber.App) {
	auth := app.Group("/api/auth")

	auth.Post("/signup", h.Signup)
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)

	app.Get("/api/session", middleware.RequireSession(), h.Session)

	app.Get("/auth/google", h.GoogleStart)
	app.Get("/auth/google/callback", h.GoogleCallback)
}

// Signup godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.SignupRequest true "signup"
// @Success 201 {object} dto.APISuccessSession
// @Failure 400 {object} dto.APIError
// @Failure 409 {object} dto.APIError
// @Router /api/auth/signup [post]
func (h *AuthHandler) Signup(ctx *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	if err := helper.ValidateStruct(req); err != nil {
		return utils.ResponseErr(ctx, err)
	}

	signed, err := h.svc.Signup(ctx.UserContext(), req)
	if err != nil {
		return utils.ResponseErr(ctx, err)
	}
	h.setSession(ctx, signed)
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, sessionResponse(signed))
}

// Login godoc
// @Summary Sign in with e-mail and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.UserLogin true "credentials"
// @Success 200 {object} dto.APISuccessSession
// @Failure 400 {object} dto.APIError
// @Failure 401 {object} dto.APIError
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(ctx *fiber.Ctx) error {
	var req dto.UserLogin
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and password are required")
	}
	if err := helper.ValidateStruct(req); err != nil {
		return utils.ResponseErr(ctx, err)
	}

	signed, err := h.svc.Login(ctx.UserContext(), req)
	if err != nil {
		return utils.ResponseErr(ctx, err)
	}
	h.setSession(ctx, signed)
	return utils.ResponseSuccess(ctx, fiber.StatusOK, sessionResponse(signed))
}

// Logout godoc
// @Summary Sign out
// @Tags auth
// @Success 204
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fiber.Ctx) error {
	if s := middleware.CurrentSession(ctx); s != nil {
		h.svc.Logout(*s)
	}
	h.clearCookie(ctx, helper.SessionCookie)
	return ctx.SendStatus(fiber.StatusNoContent)
}

// Session godoc
// @Summary Current session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APISuccessSession
// @Failure 401 {object} dto.APIError
// @Router /api/session [get]
func (h *AuthHandler) Session(ctx *fiber.Ctx) error {
	s := middleware.CurrentSession(ctx)

	role, err := h.svc.GetRole(ctx.UserContext(), s.UserID)
	if err != nil {
		h.log.Warn(ctx.UserContext(), "role lookup failed", "user_id", s.UserID, "error", err)
		role = ""
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.SessionResponse{
		UserID: s.UserID,
		Email:  s.Email,
		Role:   role,
	})
}

func (h *AuthHandler) GoogleStart(ctx *fiber.Ctx) error {
	if h.google == nil {
		return utils.ResponseErr(ctx, common.ErrNotFound)
	}
	state := uuid.NewString()
	ctx.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth/google",
		Expires:  time.Now().Add(stateTTL),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return ctx.Redirect(h.google.AuthCodeURL(state), fiber.StatusSeeOther)
}

func (h *AuthHandler) GoogleCallback(ctx *fiber.Ctx) error {
	if h.google == nil {
		return utils.ResponseErr(ctx, common.ErrNotFound)
	}
	want := ctx.Cookies(stateCookie)
	got := ctx.Query("state")
	ctx.Cookie(&fiber.Cookie{Name: stateCookie, Path: "/auth/google", Expires: time.Unix(0, 0), MaxAge: -1})

	if want == "" || subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		h.log.Warn(ctx.UserContext(), "google sign-in state mismatch")
		return ctx.Redirect("/login?error=google", fiber.StatusSeeOther)
	}
	if ctx.Query("error") != "" || ctx.Query("code") == "" {
		return ctx.Redirect("/login?error=google", fiber.StatusSeeOther)
	}

	identity, err := h.google.Exchange(ctx.UserContext(), ctx.Query("code"))
	if err != nil {
		h.log.Warn(ctx.UserContext(), "google exchange failed", "error", err)
		return ctx.Redirect("/login?error=google", fiber.StatusSeeOther)
	}
	signed, err := h.svc.GoogleLogin(ctx.UserContext(), identity)
	if err != nil {
		h.log.Error(ctx.UserContext(), "google sign-in failed", "error", err)
		return ctx.Redirect("/login?error=google", fiber.StatusSeeOther)
	}

	h.setSession(ctx, signed)
	return ctx.Redirect("/admin", fiber.StatusSeeOther)
}

func (h *AuthHandler) setSession(ctx *fiber.Ctx, signed *services.SignedIn) {
	ctx.Cookie(&fiber.Cookie{
		Name:     helper.SessionCookie,
		Value:    signed.Token,
		Path:     "/",
		Expires:  signed.Session.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookie(ctx *fiber.Ctx, name string) {
	ctx.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func sessionResponse(signed *services.SignedIn) dto.SessionResponse {
	return dto.SessionResponse{
		UserID: signed.User.ID,
		Email:  signed.User.Email,
		Role:   signed.User.Role,
	}
}
