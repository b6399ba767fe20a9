package dto

import "github.com/SundayYogurt/herohq/internal/domain"

type ApplicationRequest struct {
	FormToken string `json:"form_token" form:"form_token" validate:"omitempty,max=64"`
	Name      string `json:"name" form:"name" validate:"required,max=200"`
	Email     string `json:"email" form:"email" validate:"required,email,max=320"`
	Phone     string `json:"phone" form:"phone" validate:"max=50"`
	Message   string `json:"message" form:"message" validate:"required"`
	UploadID  string `json:"upload_id" form:"upload_id" validate:"omitempty,uuid"`
}

// FormState is what the browser should render after a submit. A successful
// submit returns empty fields and a fresh token.
type FormState struct {
	FormToken string `json:"form_token"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
}

type ApplicationResponse struct {
	Application *domain.Applicant `json:"application"`
	Form        FormState         `json:"form"`
}

type UploadCreatedResponse struct {
	UploadID string `json:"upload_id"`
	Status   string `json:"status"`
}

type PageResponse struct {
	Items   []domain.Applicant `json:"items"`
	Page    int                `json:"page"`
	HasMore bool               `json:"has_more"`
	Total   int64              `json:"total"`
	Notice  string             `json:"notice,omitempty"`
}

type ApplicantDetail struct {
	Applicant   domain.Applicant `json:"applicant"`
	DownloadURL string           `json:"download_url"`
}

type DeleteRequest struct {
	Confirm bool `json:"confirm" form:"confirm"`
}
