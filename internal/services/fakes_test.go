package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/SundayYogurt/herohq/internal/domain"
	"github.com/SundayYogurt/herohq/internal/logging"
	"github.com/SundayYogurt/herohq/internal/repository"
	"github.com/SundayYogurt/herohq/internal/upload"
)

type fakeStore struct {
	mu      sync.Mutex
	calls   int
	err     error
	started chan struct{}
	block   chan struct{}
}

func (s *fakeStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	s.mu.Lock()
	s.calls++
	started := s.started
	s.started = nil
	s.mu.Unlock()

	if started != nil {
		close(started)
	}
	if s.block != nil {
		<-s.block
	}
	if s.err != nil {
		return "", s.err
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	return "https://files.example/" + key, nil
}

func (s *fakeStore) AttachmentURL(ctx context.Context, key, publicURL string) (string, error) {
	return publicURL + "?dl=1", nil
}

func (s *fakeStore) Open(ctx context.Context, key, publicURL string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (s *fakeStore) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type published struct {
	key   string
	value []byte
}

type fakeProducer struct {
	mu   sync.Mutex
	msgs []published
}

func (p *fakeProducer) PublishMessage(key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{key: string(key), value: value})
	return nil
}

// failingApplicants breaks Create only.
type failingApplicants struct {
	repository.ApplicantRepository
}

func (failingApplicants) Create(ctx context.Context, a *domain.Applicant) error {
	return errors.New("db unavailable")
}

func newRegistry(store *fakeStore) *upload.Registry {
	return upload.NewRegistry(time.Hour, func() *upload.Controller {
		return upload.NewController(store, upload.Options{Folder: "resumes", MaxBytes: 5 * 1024 * 1024}, logging.Nop())
	})
}

func pdfFile(size int) *upload.File {
	return &upload.File{
		Name:        "jane.pdf",
		ContentType: upload.MimePDF,
		Size:        int64(size),
		Body:        bytes.NewReader(make([]byte, size)),
	}
}
