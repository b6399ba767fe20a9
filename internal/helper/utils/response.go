package utils

import (
	"errors"

	"github.com/SundayYogurt/herohq/internal/common"
	"github.com/gofiber/fiber/v2"
)

func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

// create a generic response function for success
func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"data": data})
}

// ResponseErr writes err with the status StatusFor picks. Unknown errors are
// reported as a generic 500 so internals never reach the browser.
func ResponseErr(ctx *fiber.Ctx, err error) error {
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		return ResponseError(ctx, status, "something went wrong, please try again")
	}
	return ResponseError(ctx, status, err.Error())
}

// ErrorHandler answers errors that escape the handlers, the transport's own
// body limit included, with the JSON error envelope.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code == fiber.StatusRequestEntityTooLarge {
			return ResponseError(ctx, fe.Code, common.ErrFileTooLarge.Error())
		}
		return ResponseError(ctx, fe.Code, fe.Message)
	}
	return ResponseErr(ctx, err)
}

// BodyLimit leaves room for the multipart envelope around a resume of
// maxUpload bytes.
func BodyLimit(maxUpload int64) int {
	return int(maxUpload) + 1024*1024
}

func StatusFor(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, common.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, common.ErrUnsupportedType):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrConfirmationRequired):
		return fiber.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, common.ErrEmailTaken),
		errors.Is(err, common.ErrSubmissionInFlight),
		errors.Is(err, common.ErrUploadInProgress),
		errors.Is(err, common.ErrUploadNotReady):
		return fiber.StatusConflict
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, common.ErrUploadFailed):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
