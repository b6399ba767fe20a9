package handlers

import (
	"strings"

	"github.com/SundayYogurt/herohq/internal/dto"
	"github.com/SundayYogurt/herohq/internal/helper"
	"github.com/SundayYogurt/herohq/internal/helper/utils"
	"github.com/SundayYogurt/herohq/internal/logging"
	"github.com/SundayYogurt/herohq/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	svc services.ApplicationService
	log logging.Logger
}

func NewApplicationHandler(svc services.ApplicationService, log logging.Logger) *ApplicationHandler {
	return &ApplicationHandler{svc: svc, log: log.With("component", "applications")}
}

func (h *ApplicationHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/form", h.NewForm)
	api.Post("/applications", h.Submit)
}

// NewForm godoc
// @Summary Fresh application form state
// @Tags applications
// @Produce json
// @Success 200 {object} dto.FormState
// @Router /api/form [get]
func (h *ApplicationHandler) NewForm(ctx *fiber.Ctx) error {
	return utils.ResponseSuccess(ctx, fiber.StatusOK, emptyForm())
}

// Submit godoc
// @Summary Submit an application
// @Description Either attach the resume as "resume" or reference a finished upload with upload_id.
// @Tags applications
// @Accept mpfd
// @Produce json
// @Param form_token formData string false "one submission at a time per token"
// @Param name formData string true "full name"
// @Param email formData string true "e-mail"
// @Param phone formData string false "phone"
// @Param message formData string true "cover message"
// @Param upload_id formData string false "pre-uploaded resume"
// @Param resume formData file false "PDF, DOC or DOCX, at most 5 MB"
// @Success 201 {object} dto.APISuccessApplication
// @Failure 400 {object} dto.APIError
// @Failure 409 {object} dto.APIError
// @Failure 413 {object} dto.APIError
// @Failure 415 {object} dto.APIError
// @Failure 502 {object} dto.APIError
// @Router /api/applications [post]
func (h *ApplicationHandler) Submit(ctx *fiber.Ctx) error {
	var req dto.ApplicationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Message = strings.TrimSpace(req.Message)
	if err := helper.ValidateStruct(req); err != nil {
		return utils.ResponseErr(ctx, err)
	}

	resume, closeResume, err := resumeFromForm(ctx)
	if err != nil {
		return utils.ResponseErr(ctx, err)
	}
	defer closeResume()

	applicant, err := h.svc.Submit(ctx.UserContext(), services.SubmitInput{
		FormToken: req.FormToken,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		Resume:    resume,
		UploadID:  req.UploadID,
	})
	if err != nil {
		return utils.ResponseErr(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, dto.ApplicationResponse{
		Application: applicant,
		Form:        emptyForm(),
	})
}

func emptyForm() dto.FormState {
	return dto.FormState{FormToken: uuid.NewString()}
}
