package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SundayYogurt/herohq/internal/api/rest/middleware"
	"github.com/SundayYogurt/herohq/internal/dashboard"
	"github.com/SundayYogurt/herohq/internal/domain"
	"github.com/SundayYogurt/herohq/internal/dto"
	"github.com/SundayYogurt/herohq/internal/helper"
	"github.com/SundayYogurt/herohq/internal/helper/utils"
	"github.com/SundayYogurt/herohq/internal/inspector"
	"github.com/SundayYogurt/herohq/internal/listing"
	"github.com/SundayYogurt/herohq/internal/logging"
	"github.com/SundayYogurt/herohq/internal/pubsub"
	"github.com/SundayYogurt/herohq/internal/repository"
	"github.com/SundayYogurt/herohq/internal/services"
	"github.com/SundayYogurt/herohq/internal/session"
	"github.com/SundayYogurt/herohq/internal/testutil"
	"github.com/SundayYogurt/herohq/internal/upload"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const testMaxBytes = 5 * 1024 * 1024

type fakeStore struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *fakeStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	s.mu.Lock()
	s.calls++
	err := s.err
	s.mu.Unlock()
	if err != nil {
		return "", err
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

type fixture struct {
	app        *fiber.App
	store      *fakeStore
	users      repository.UserRepository
	applicants repository.ApplicantRepository
	audit      repository.AuditRepository
	uploads    *upload.Registry
	hub        *session.Hub
	feed       *pubsub.Hub[dto.AdminEvent]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logging.Nop()
	db := testutil.NewDB(t)

	f := &fixture{
		store:      &fakeStore{},
		users:      repository.NewUserRepository(db),
		applicants: repository.NewApplicantRepository(db),
		audit:      repository.NewAuditRepository(db),
		hub:        session.NewHub(),
		feed:       pubsub.NewHub[dto.AdminEvent](),
	}
	f.uploads = upload.NewRegistry(time.Hour, func() *upload.Controller {
		return upload.NewController(f.store, upload.Options{Folder: "resumes", MaxBytes: testMaxBytes}, log)
	})

	userSvc := services.NewUserService(f.users, helper.SetupAuth("test-secret", time.Hour), f.hub, log)
	appSvc := services.NewApplicationService(f.applicants, f.uploads, nil, f.feed, log)

	boards := dashboard.NewStore(f.hub, f.feed, func() *dashboard.State {
		list := listing.NewController(f.applicants, 2)
		return &dashboard.State{
			Listing:   list,
			Inspector: inspector.NewPanel(f.applicants, list, f.store, f.feed, log),
		}
	})
	t.Cleanup(boards.Close)

	guard := middleware.AdminGate(userSvc.GetRole, f.hub, log)
	pages, err := NewPageHandler(guard, false, testMaxBytes)
	require.NoError(t, err)

	f.app = fiber.New(fiber.Config{
		BodyLimit:    utils.BodyLimit(testMaxBytes),
		ErrorHandler: utils.ErrorHandler,
	})
	f.app.Use(middleware.AuthMiddleware(userSvc))
	NewUploadHandler(f.uploads, log).SetupRoutes(f.app)
	NewApplicationHandler(appSvc, log).SetupRoutes(f.app)
	NewAuthHandler(userSvc, nil, false, log).SetupRoutes(f.app)
	NewAdminHandler(boards, f.feed, f.audit, guard, log).SetupRoutes(f.app)
	pages.SetupRoutes(f.app)
	return f
}

type response struct {
	Status  int
	Header  http.Header
	Cookies []*http.Cookie
	Body    []byte
}

func (r response) data(t *testing.T, v any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(r.Body, &env), string(r.Body))
	require.NoError(t, json.Unmarshal(env.Data, v), string(env.Data))
}

func (r response) errorText(t *testing.T) string {
	t.Helper()
	var env dto.APIError
	require.NoError(t, json.Unmarshal(r.Body, &env), string(r.Body))
	return env.Error
}

func (r response) cookie(name string) *http.Cookie {
	for _, c := range r.Cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (f *fixture) do(t *testing.T, req *http.Request, cookie *http.Cookie) response {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := f.app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{Status: resp.StatusCode, Header: resp.Header, Cookies: resp.Cookies(), Body: body}
}

func jsonRequest(method, path string, v any) *http.Request {
	var body io.Reader
	if v != nil {
		b, _ := json.Marshal(v)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	if v != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

type resume struct {
	name        string
	contentType string
	size        int
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, file *resume) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename="%s"`, file.name))
		h.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte("x"), file.size))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// signIn creates an account and returns its session cookie.
func (f *fixture) signIn(t *testing.T, email string, admin bool) *http.Cookie {
	t.Helper()
	resp := f.do(t, jsonRequest("POST", "/api/auth/signup", dto.SignupRequest{
		Email: email, Password: "secret1", ConfirmPassword: "secret1",
	}), nil)
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))
	if admin {
		require.NoError(t, f.users.SetRole(context.Background(), email, domain.RoleAdmin))
	}
	c := resp.cookie(helper.SessionCookie)
	require.NotNil(t, c)
	return &http.Cookie{Name: c.Name, Value: c.Value}
}

func (f *fixture) seedApplicants(t *testing.T, n int) []domain.Applicant {
	t.Helper()
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	out := make([]domain.Applicant, 0, n)
	for i := 0; i < n; i++ {
		a := domain.Applicant{
			Name:      fmt.Sprintf("Applicant %d", i),
			Email:     fmt.Sprintf("a%d@example.com", i),
			ResumeURL: fmt.Sprintf("https://files.example/resumes/2026/%d_cv.pdf", i),
			ResumeKey: fmt.Sprintf("resumes/2026/%d_cv.pdf", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, f.applicants.Create(context.Background(), &a))
		out = append(out, a)
	}
	return out
}
