package dto

import (
	"time"

	"github.com/SundayYogurt/herohq/internal/domain"
)

const (
	EventApplicationSubmitted = "application.submitted"
	EventApplicationDeleted   = "application.deleted"
)

// ApplicationSubmittedEvent is the Kafka payload consumed by the mailer.
type ApplicationSubmittedEvent struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Message     string    `json:"message"`
	ResumeURL   string    `json:"resume_url"`
	ResumeKey   string    `json:"resume_key"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewApplicationSubmittedEvent(a *domain.Applicant, contentType string) ApplicationSubmittedEvent {
	return ApplicationSubmittedEvent{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Phone:       a.Phone,
		Message:     a.Message,
		ResumeURL:   a.ResumeURL,
		ResumeKey:   a.ResumeKey,
		ContentType: contentType,
		CreatedAt:   a.CreatedAt,
	}
}

// AdminEvent is pushed to live admin streams.
type AdminEvent struct {
	Type      string            `json:"type"`
	ID        string            `json:"id"`
	Applicant *domain.Applicant `json:"applicant,omitempty"`
}
