package handlers

import (
	"bufio"
	"time"

	"github.com/SundayYogurt/herohq/internal/api/rest/middleware"
	"github.com/SundayYogurt/herohq/internal/common"
	"github.com/SundayYogurt/herohq/internal/dashboard"
	"github.com/SundayYogurt/herohq/internal/domain"
	"github.com/SundayYogurt/herohq/internal/dto"
	"github.com/SundayYogurt/herohq/internal/gate"
	"github.com/SundayYogurt/herohq/internal/helper/utils"
	"github.com/SundayYogurt/herohq/internal/listing"
	"github.com/SundayYogurt/herohq/internal/logging"
	"github.com/SundayYogurt/herohq/internal/pubsub"
	"github.com/SundayYogurt/herohq/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const feedBuffer = 64

type AdminHandler struct {
	boards *dashboard.Store
	feed   *pubsub.Hub[dto.AdminEvent]
	audit  repository.AuditRepository
	guard  fiber.Handler
	log    logging.Logger
}

func NewAdminHandler(
	boards *dashboard.Store,
	feed *pubsub.Hub[dto.AdminEvent],
	audit repository.AuditRepository,
	guard fiber.Handler,
	log logging.Logger,
) *AdminHandler {
	return &AdminHandler{
		boards: boards,
		feed:   feed,
		audit:  audit,
		guard:  guard,
		log:    log.With("component", "admin"),
	}
}

func (h *AdminHandler) SetupRoutes(app *fiber.App) {
	admin := app.Group("/admin/api", h.guard)

	// Listing
	admin.Get("/applications", h.List)

	// Inspector
	admin.Get("/applications/:id", h.Open)
	admin.Delete("/applications/:id", h.Delete)
	admin.Get("/inspector", h.Selected)
	admin.Post("/inspector/close", h.Close)

	// Live updates
	admin.Get("/events", h.Events)
}

// List godoc
// @Summary Page through applications, newest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param dir query string false "INIT, NEXT or PREV"
// @Success 200 {object} dto.APISuccessPage
// @Failure 400 {object} dto.APIError
// @Failure 401 {object} dto.APIError
// @Failure 403 {object} dto.APIError
// @Router /admin/api/applications [get]
func (h *AdminHandler) List(ctx *fiber.Ctx) error {
	dir, err := listing.ParseDirection(ctx.Query("dir"))
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	page, err := h.board(ctx).Listing.Load(ctx.UserContext(), dir)
	if err != nil {
		h.log.Error(ctx.UserContext(), "load applications", "dir", dir, "error", err)
		return utils.ResponseError(ctx, fiber.StatusBadGateway, "could not load applications, please try again")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, pageResponse(page))
}

// Open godoc
// @Summary Open an applicant from the current page in the inspector
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "applicant id"
// @Success 200 {object} dto.APISuccessDetail
// @Failure 404 {object} dto.APIError
// @Router /admin/api/applications/{id} [get]
func (h *AdminHandler) Open(ctx *fiber.Ctx) error {
	detail, err := h.board(ctx).Inspector.OpenByID(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return utils.ResponseErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, detail)
}

// Selected godoc
// @Summary Applicant currently shown in the inspector
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APISuccessDetail
// @Success 204
// @Router /admin/api/inspector [get]
func (h *AdminHandler) Selected(ctx *fiber.Ctx) error {
	detail, ok := h.board(ctx).Inspector.Selected()
	if !ok {
		return ctx.SendStatus(fiber.StatusNoContent)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, detail)
}

// Close godoc
// @Summary Close the inspector
// @Tags admin
// @Security BearerAuth
// @Success 204
// @Router /admin/api/inspector/close [post]
func (h *AdminHandler) Close(ctx *fiber.Ctx) error {
	h.board(ctx).Inspector.Close()
	return ctx.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary Delete an applicant
// @Description The request must confirm the deletion, either in the body or with ?confirm=true.
// @Tags admin
// @Accept json
// @Security BearerAuth
// @Param id path string true "applicant id"
// @Param body body dto.DeleteRequest false "confirmation"
// @Success 204
// @Failure 400 {object} dto.APIError
// @Failure 404 {object} dto.APIError
// @Router /admin/api/applications/{id} [delete]
func (h *AdminHandler) Delete(ctx *fiber.Ctx) error {
	var req dto.DeleteRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
		}
	}
	confirmed := req.Confirm || ctx.QueryBool("confirm")
	id := ctx.Params("id")

	err := h.board(ctx).Inspector.Delete(ctx.UserContext(), id, confirmed)
	if err != nil {
		if status := utils.StatusFor(err); status == fiber.StatusInternalServerError {
			h.log.Error(ctx.UserContext(), "delete applicant", "id", id, "error", err)
			return utils.ResponseError(ctx, fiber.StatusBadGateway, "could not delete the application, please try again")
		}
		return utils.ResponseErr(ctx, err)
	}

	if h.audit != nil {
		entry := &domain.AuditLog{
			ActorID:  middleware.CurrentSession(ctx).UserID,
			Action:   domain.AuditApplicantDeleted,
			Entity:   domain.AuditEntityApplicant,
			EntityID: id,
		}
		if err := h.audit.Record(ctx.UserContext(), entry); err != nil {
			h.log.Warn(ctx.UserContext(), "audit entry not written", "id", id, "error", err)
		}
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// Events godoc
// @Summary Live dashboard updates (server-sent events)
// @Description Ends with a "signed_out" event when the session stops being authorized.
// @Tags admin
// @Produce text/event-stream
// @Security BearerAuth
// @Router /admin/api/events [get]
func (h *AdminHandler) Events(ctx *fiber.Ctx) error {
	g := middleware.GateFrom(ctx)
	if g == nil {
		return utils.ResponseErr(ctx, common.ErrUnauthorized)
	}

	// ctx is recycled once the handler returns; the stream outlives it
	reqCtx := ctx.UserContext()
	events := make(chan dto.AdminEvent, feedBuffer)
	stopFeed := h.feed.Subscribe(func(e dto.AdminEvent) {
		select {
		case events <- e:
		default:
			h.log.Warn(reqCtx, "admin stream lagging, event dropped", "type", e.Type, "id", e.ID)
		}
	})

	revoked := make(chan struct{}, 1)
	stopGate := g.OnChange(func(s gate.State) {
		if s == gate.Unauthorized {
			select {
			case revoked <- struct{}{}:
			default:
			}
		}
	})

	startStream(ctx)
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer g.Unmount()
		defer stopGate()
		defer stopFeed()

		if g.State() != gate.Authorized {
			_ = writeEvent(w, "signed_out", fiber.Map{"error": errorText(g.Reason())})
			return
		}
		if err := writeEvent(w, "ready", fiber.Map{"at": time.Now().UTC()}); err != nil {
			return
		}

		ping := time.NewTicker(keepAliveEvery)
		defer ping.Stop()
		for {
			select {
			case e := <-events:
				if err := writeEvent(w, e.Type, e); err != nil {
					return
				}
			case <-revoked:
				_ = writeEvent(w, "signed_out", fiber.Map{"error": errorText(g.Reason())})
				return
			case <-ping.C:
				if err := writePing(w); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func (h *AdminHandler) board(ctx *fiber.Ctx) *dashboard.State {
	return h.boards.Get(*middleware.CurrentSession(ctx))
}

func pageResponse(p listing.Page) dto.PageResponse {
	return dto.PageResponse{
		Items:   p.Items,
		Page:    p.Number,
		HasMore: p.HasMore,
		Total:   p.Total,
		Notice:  p.Notice,
	}
}

func errorText(err error) string {
	if err == nil {
		return common.ErrUnauthorized.Error()
	}
	return err.Error()
}
