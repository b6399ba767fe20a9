package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/SundayYogurt/herohq/internal/common"
	"github.com/SundayYogurt/herohq/internal/domain"
	"github.com/SundayYogurt/herohq/internal/dto"
	"github.com/SundayYogurt/herohq/internal/helper"
	"github.com/SundayYogurt/herohq/internal/interfaces"
	"github.com/SundayYogurt/herohq/internal/logging"
	"github.com/SundayYogurt/herohq/internal/pubsub"
	"github.com/SundayYogurt/herohq/internal/repository"
	"github.com/SundayYogurt/herohq/internal/upload"
)

type SubmitInput struct {
	FormToken string
	Name      string
	Email     string
	Phone     string
	Message   string

	// Resume is a file still to be uploaded. UploadID refers to an upload
	// the browser already finished. One of them is required.
	Resume   *upload.File
	UploadID string
}

type ApplicationService interface {
	Submit(ctx context.Context, in SubmitInput) (*domain.Applicant, error)
}

type applicationService struct {
	repo     repository.ApplicantRepository
	uploads  *upload.Registry
	producer interfaces.ProducerHandler
	feed     *pubsub.Hub[dto.AdminEvent]
	log      logging.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewApplicationService(
	repo repository.ApplicantRepository,
	uploads *upload.Registry,
	producer interfaces.ProducerHandler,
	feed *pubsub.Hub[dto.AdminEvent],
	log logging.Logger,
) ApplicationService {
	return &applicationService{
		repo:     repo,
		uploads:  uploads,
		producer: producer,
		feed:     feed,
		log:      log.With("component", "intake"),
		inFlight: make(map[string]struct{}),
	}
}

// Submit stores one application. The resume upload must reach SUCCESS before
// the record is written.
func (s *applicationService) Submit(ctx context.Context, in SubmitInput) (*domain.Applicant, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	message := strings.TrimSpace(in.Message)
	phone := strings.TrimSpace(in.Phone)

	if name == "" || email == "" || message == "" {
		return nil, common.ErrMissingFields
	}
	if !helper.IsEmail(email) {
		return nil, common.ErrInvalidEmail
	}
	if in.Resume == nil && in.UploadID == "" {
		return nil, common.ErrResumeRequired
	}

	if in.FormToken != "" {
		if !s.acquire(in.FormToken) {
			return nil, common.ErrSubmissionInFlight
		}
		defer s.release(in.FormToken)
	}

	ctrl, err := s.controllerFor(in.UploadID)
	if err != nil {
		return nil, err
	}

	if in.Resume != nil {
		if _, err := ctrl.Upload(ctx, *in.Resume); err != nil {
			return nil, err
		}
	}

	snap := ctrl.Snapshot()
	if snap.Status != upload.StatusSuccess || snap.URL == "" {
		return nil, common.ErrUploadNotReady
	}

	applicant := &domain.Applicant{
		Name:      name,
		Email:     email,
		Phone:     phone,
		Message:   message,
		ResumeURL: snap.URL,
		ResumeKey: snap.Key,
		Status:    domain.ApplicantStatusNew,
	}
	if err := s.repo.Create(ctx, applicant); err != nil {
		// the uploaded object is left in place
		s.log.Warn(ctx, "application not stored, resume orphaned",
			"resume_key", snap.Key, "resume_url", snap.URL, "error", err)
		return nil, fmt.Errorf("store application: %w", err)
	}

	ctrl.Reset()
	if in.UploadID != "" {
		s.uploads.Remove(in.UploadID)
	}

	s.log.Info(ctx, "application stored", "id", applicant.ID, "email", applicant.Email)
	s.announce(ctx, applicant, upload.DetectType(upload.File{Name: snap.FileName}))
	return applicant, nil
}

func (s *applicationService) controllerFor(uploadID string) (*upload.Controller, error) {
	if uploadID == "" {
		return s.uploads.NewController(), nil
	}
	ctrl, ok := s.uploads.Get(uploadID)
	if !ok {
		return nil, common.ErrResumeRequired
	}
	return ctrl, nil
}

func (s *applicationService) announce(ctx context.Context, a *domain.Applicant, contentType string) {
	if s.feed != nil {
		s.feed.Publish(dto.AdminEvent{Type: dto.EventApplicationSubmitted, ID: a.ID, Applicant: a})
	}
	if s.producer == nil {
		return
	}
	payload, err := json.Marshal(dto.NewApplicationSubmittedEvent(a, contentType))
	if err != nil {
		s.log.Error(ctx, "encode submitted event", "id", a.ID, "error", err)
		return
	}
	if err := s.producer.PublishMessage([]byte(dto.EventApplicationSubmitted), payload); err != nil {
		s.log.Error(ctx, "publish submitted event", "id", a.ID, "error", err)
	}
}

func (s *applicationService) acquire(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[token]; busy {
		return false
	}
	s.inFlight[token] = struct{}{}
	return true
}

func (s *applicationService) release(token string) {
	s.mu.Lock()
	delete(s.inFlight, token)
	s.mu.Unlock()
}
