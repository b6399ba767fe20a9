package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/SundayYogurt/herohq/internal/api/rest/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

//go:embed templates/*.html
var pageFS embed.FS

var pageNames = []string{"landing", "login", "signup", "admin"}

type PageHandler struct {
	pages    map[string]*template.Template
	guard    fiber.Handler
	google   bool
	maxBytes int64
}

func NewPageHandler(guard fiber.Handler, googleEnabled bool, maxBytes int64) (*PageHandler, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(pageFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s page: %w", name, err)
		}
		pages[name] = t
	}
	return &PageHandler{pages: pages, guard: guard, google: googleEnabled, maxBytes: maxBytes}, nil
}

func (h *PageHandler) SetupRoutes(app *fiber.App) {
	app.Get("/", h.Landing)
	app.Get("/login", h.Login)
	app.Get("/signup", h.Signup)
	app.Get("/admin", h.guard, h.Admin)
}

func (h *PageHandler) Landing(ctx *fiber.Ctx) error {
	return h.render(ctx, "landing", fiber.Map{
		"Title":     "Careers",
		"FormToken": uuid.NewString(),
		"MaxBytes":  h.maxBytes,
		"MaxMB":     h.maxBytes / (1024 * 1024),
	})
}

func (h *PageHandler) Login(ctx *fiber.Ctx) error {
	return h.render(ctx, "login", fiber.Map{
		"Title":  "Sign in",
		"Google": h.google,
		"Denied": ctx.Query("denied") != "",
		"Error":  ctx.Query("error") != "",
	})
}

func (h *PageHandler) Signup(ctx *fiber.Ctx) error {
	return h.render(ctx, "signup", fiber.Map{
		"Title":  "Sign up",
		"Google": h.google,
	})
}

// Admin only runs once the gate has authorized the request.
func (h *PageHandler) Admin(ctx *fiber.Ctx) error {
	s := middleware.CurrentSession(ctx)
	return h.render(ctx, "admin", fiber.Map{
		"Title": "Admin",
		"Email": s.Email,
	})
}

func (h *PageHandler) render(ctx *fiber.Ctx, name string, data fiber.Map) error {
	var buf bytes.Buffer
	if err := h.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	ctx.Set(fiber.HeaderCacheControl, "no-store")
	ctx.Type("html", "utf-8")
	return ctx.Send(buf.Bytes())
}
