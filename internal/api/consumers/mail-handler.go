package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SundayYogurt/herohq/internal/dto"
	"github.com/SundayYogurt/herohq/internal/interfaces"
	"github.com/SundayYogurt/herohq/internal/logging"
	"github.com/SundayYogurt/herohq/internal/services"
	"github.com/SundayYogurt/herohq/internal/upload"
	"github.com/SundayYogurt/herohq/pkg/utils"
)

type Notifier interface {
	SendNewApplication(ctx context.Context, ev dto.ApplicationSubmittedEvent, excerpt string) error
}

type MailHandler struct {
	mail       Notifier
	store      interfaces.ObjectStore
	maxBytes   int64
	excerptLen int
	timeout    time.Duration
	log        logging.Logger
}

func NewMailHandler(mail Notifier, store interfaces.ObjectStore, maxBytes int64, excerptLen int, log logging.Logger) *MailHandler {
	return &MailHandler{
		mail:       mail,
		store:      store,
		maxBytes:   maxBytes,
		excerptLen: excerptLen,
		timeout:    30 * time.Second,
		log:        log,
	}
}

func (h *MailHandler) HandleMessage(key, value []byte) error {
	if string(key) != dto.EventApplicationSubmitted {
		return nil
	}

	var event dto.ApplicationSubmittedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("invalid event payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.log.Info(ctx, "application event received", "id", event.ID)
	return h.mail.SendNewApplication(ctx, event, h.excerpt(ctx, event))
}

// excerpt is best effort; the mail goes out without it on any failure.
func (h *MailHandler) excerpt(ctx context.Context, ev dto.ApplicationSubmittedEvent) string {
	if h.store == nil || h.excerptLen <= 0 {
		return ""
	}
	contentType := ev.ContentType
	if contentType == "" {
		contentType = upload.DetectType(upload.File{Name: ev.ResumeKey})
	}
	if contentType != upload.MimePDF && contentType != upload.MimeDOCX {
		return ""
	}

	rc, err := h.store.Open(ctx, ev.ResumeKey, ev.ResumeURL)
	if err != nil {
		h.log.Warn(ctx, "resume download failed", "id", ev.ID, "error", err)
		return ""
	}
	defer rc.Close()

	data, err := utils.ReadAllLimit(rc, h.maxBytes)
	if err != nil {
		h.log.Warn(ctx, "resume read failed", "id", ev.ID, "error", err)
		return ""
	}

	text, err := services.ExtractResumeText(contentType, data)
	if err != nil {
		h.log.Warn(ctx, "resume text extraction failed", "id", ev.ID, "error", err)
		return ""
	}
	return services.Excerpt(text, h.excerptLen)
}
