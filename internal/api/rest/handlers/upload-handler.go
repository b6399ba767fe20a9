package handlers

import (
	"bufio"
	"errors"
	"mime/multipart"
	"time"

	"github.com/SundayYogurt/herohq/internal/common"
	"github.com/SundayYogurt/herohq/internal/dto"
	"github.com/SundayYogurt/herohq/internal/helper/utils"
	"github.com/SundayYogurt/herohq/internal/logging"
	"github.com/SundayYogurt/herohq/internal/upload"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const resumeField = "resume"

type UploadHandler struct {
	uploads *upload.Registry
	log     logging.Logger
}

func NewUploadHandler(uploads *upload.Registry, log logging.Logger) *UploadHandler {
	return &UploadHandler{uploads: uploads, log: log.With("component", "uploads")}
}

func (h *UploadHandler) SetupRoutes(app *fiber.App) {
	uploads := app.Group("/api/uploads")

	uploads.Post("/", h.Create)
	uploads.Put("/:id", h.Upload)
	uploads.Get("/:id", h.Status)
	uploads.Get("/:id/events", h.Events)
	uploads.Delete("/:id", h.Reset)
}

// Create godoc
// @Summary Start a resume upload
// @Tags uploads
// @Produce json
// @Success 201 {object} dto.UploadCreatedResponse
// @Router /api/uploads [post]
func (h *UploadHandler) Create(ctx *fiber.Ctx) error {
	id, ctrl := h.uploads.Create()
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, dto.UploadCreatedResponse{
		UploadID: id,
		Status:   string(ctrl.Snapshot().Status),
	})
}

// Upload godoc
// @Summary Upload the resume file
// @Tags uploads
// @Accept mpfd
// @Produce json
// @Param id path string true "upload id"
// @Param resume formData file true "PDF, DOC or DOCX, at most 5 MB"
// @Success 200 {object} upload.Snapshot
// @Failure 400 {object} dto.APIError
// @Failure 413 {object} dto.APIError
// @Failure 415 {object} dto.APIError
// @Failure 502 {object} dto.APIError
// @Router /api/uploads/{id} [put]
func (h *UploadHandler) Upload(ctx *fiber.Ctx) error {
	ctrl, ok := h.uploads.Get(ctx.Params("id"))
	if !ok {
		return utils.ResponseErr(ctx, common.ErrNotFound)
	}

	file, closeFile, err := resumeFromForm(ctx)
	if err != nil {
		return utils.ResponseErr(ctx, err)
	}
	if file == nil {
		return utils.ResponseErr(ctx, common.ErrResumeRequired)
	}
	defer closeFile()

	if _, err := ctrl.Upload(ctx.UserContext(), *file); err != nil {
		return utils.ResponseErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, ctrl.Snapshot())
}

// Status godoc
// @Summary Current upload state
// @Tags uploads
// @Produce json
// @Param id path string true "upload id"
// @Success 200 {object} upload.Snapshot
// @Failure 404 {object} dto.APIError
// @Router /api/uploads/{id} [get]
func (h *UploadHandler) Status(ctx *fiber.Ctx) error {
	ctrl, ok := h.uploads.Get(ctx.Params("id"))
	if !ok {
		return utils.ResponseErr(ctx, common.ErrNotFound)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, ctrl.Snapshot())
}

// Events godoc
// @Summary Stream upload progress (server-sent events)
// @Tags uploads
// @Produce text/event-stream
// @Param id path string true "upload id"
// @Router /api/uploads/{id}/events [get]
func (h *UploadHandler) Events(ctx *fiber.Ctx) error {
	ctrl, ok := h.uploads.Get(ctx.Params("id"))
	if !ok {
		return utils.ResponseErr(ctx, common.ErrNotFound)
	}

	updates, push := latest[upload.Snapshot]()
	unsubscribe := ctrl.Subscribe(push)

	startStream(ctx)
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()

		snap := ctrl.Snapshot()
		if err := writeEvent(w, "upload", snap); err != nil || terminal(snap.Status) {
			return
		}

		ping := time.NewTicker(keepAliveEvery)
		defer ping.Stop()
		for {
			select {
			case snap := <-updates:
				if err := writeEvent(w, "upload", snap); err != nil || terminal(snap.Status) {
					return
				}
			case <-ping.C:
				if err := writePing(w); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

// Reset godoc
// @Summary Discard an upload
// @Tags uploads
// @Param id path string true "upload id"
// @Success 204
// @Router /api/uploads/{id} [delete]
func (h *UploadHandler) Reset(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if ctrl, ok := h.uploads.Get(id); ok {
		if ctrl.Snapshot().Status == upload.StatusUploading {
			return utils.ResponseErr(ctx, common.ErrUploadInProgress)
		}
		ctrl.Reset()
	}
	h.uploads.Remove(id)
	return ctx.SendStatus(fiber.StatusNoContent)
}

func terminal(s upload.Status) bool {
	return s == upload.StatusSuccess || s == upload.StatusError
}

// resumeFromForm returns the multipart resume, or nil when none was sent.
func resumeFromForm(ctx *fiber.Ctx) (*upload.File, func(), error) {
	fh, err := ctx.FormFile(resumeField)
	if err != nil {
		if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
			return nil, func() {}, nil
		}
		return nil, func() {}, common.ErrResumeRequired
	}
	return openResume(fh)
}

func openResume(fh *multipart.FileHeader) (*upload.File, func(), error) {
	if fh.Size == 0 {
		return nil, func() {}, common.ErrResumeRequired
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &upload.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}
