package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/SundayYogurt/herohq/internal/common"
	"github.com/SundayYogurt/herohq/internal/domain"
	"github.com/SundayYogurt/herohq/internal/dto"
	"github.com/SundayYogurt/herohq/internal/helper"
	"github.com/SundayYogurt/herohq/internal/logging"
	"github.com/SundayYogurt/herohq/internal/repository"
	"github.com/SundayYogurt/herohq/internal/session"
	"github.com/google/uuid"
)

// SignedIn is the result of a successful sign-in: the cookie token plus the
// session it carries.
type SignedIn struct {
	Token   string
	User    *domain.User
	Session session.Session
}

type UserService interface {
	// Auth
	Signup(ctx context.Context, input dto.SignupRequest) (*SignedIn, error)
	Login(ctx context.Context, input dto.UserLogin) (*SignedIn, error)
	GoogleLogin(ctx context.Context, id helper.GoogleIdentity) (*SignedIn, error)
	Authenticate(token string) (*session.Session, error)
	Logout(s session.Session)

	// Roles
	GetRole(ctx context.Context, userID string) (string, error)
	SetRole(ctx context.Context, email string, role string) error
}

type userService struct {
	repo     repository.UserRepository
	auth     helper.Auth
	sessions *session.Hub
	log      logging.Logger
}

func NewUserService(
	repo repository.UserRepository,
	auth helper.Auth,
	sessions *session.Hub,
	log logging.Logger,
) UserService {
	return &userService{
		repo:     repo,
		auth:     auth,
		sessions: sessions,
		log:      log.With("component", "auth"),
	}
}

// AUTH
func (u *userService) Signup(ctx context.Context, input dto.SignupRequest) (*SignedIn, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || input.Password == "" {
		return nil, common.ErrMissingFields
	}
	if !helper.IsEmail(email) {
		return nil, common.ErrInvalidEmail
	}
	if len(input.Password) < 6 {
		return nil, common.ErrWeakPassword
	}
	if input.Password != input.ConfirmPassword {
		return nil, common.ErrPasswordMismatch
	}

	hash, err := u.auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	// signup never grants more than the default role
	usr := &domain.User{Email: email, PasswordHash: hash, Role: domain.RoleUser}
	if err := u.repo.CreateUser(ctx, usr); err != nil {
		return nil, err
	}

	u.log.Info(ctx, "user signed up", "user_id", usr.ID)
	return u.signIn(ctx, usr)
}

func (u *userService) Login(ctx context.Context, input dto.UserLogin) (*SignedIn, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || input.Password == "" {
		return nil, common.ErrMissingFields
	}

	usr, err := u.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := u.auth.VerifyPassword(input.Password, usr.PasswordHash); err != nil {
		return nil, err
	}
	return u.signIn(ctx, usr)
}

func (u *userService) GoogleLogin(ctx context.Context, id helper.GoogleIdentity) (*SignedIn, error) {
	if id.Email == "" || id.Subject == "" {
		return nil, common.ErrInvalidCredentials
	}
	usr, err := u.repo.MergeGoogleUser(ctx, strings.ToLower(id.Email), id.Subject)
	if err != nil {
		return nil, err
	}
	return u.signIn(ctx, usr)
}

// Authenticate decodes a session token and checks it was not signed out.
func (u *userService) Authenticate(token string) (*session.Session, error) {
	claims, err := u.auth.VerifyToken(token)
	if err != nil {
		return nil, err
	}
	s := session.Session{
		ID:        claims.SessionID,
		UserID:    claims.UserID,
		Email:     claims.Email,
		ExpiresAt: time.Unix(int64(claims.Expiry), 0),
	}
	if !u.sessions.Active(s) {
		return nil, common.ErrUnauthorized
	}
	return &s, nil
}

func (u *userService) Logout(s session.Session) {
	u.sessions.SignOut(s)
}

func (u *userService) GetRole(ctx context.Context, userID string) (string, error) {
	return u.repo.GetRole(ctx, userID)
}

func (u *userService) SetRole(ctx context.Context, email string, role string) error {
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return common.ErrValidation
	}
	return u.repo.SetRole(ctx, strings.TrimSpace(strings.ToLower(email)), role)
}

func (u *userService) signIn(ctx context.Context, usr *domain.User) (*SignedIn, error) {
	s := session.Session{
		ID:        uuid.NewString(),
		UserID:    usr.ID,
		Email:     usr.Email,
		ExpiresAt: time.Now().Add(u.auth.TTL).Truncate(time.Second),
	}
	token, err := u.auth.GenerateToken(usr.ID, usr.Email, s.ID)
	if err != nil {
		return nil, err
	}
	u.sessions.SignIn(s)
	u.log.Info(ctx, "user signed in", "user_id", usr.ID, "session_id", s.ID)
	return &SignedIn{Token: token, User: usr, Session: s}, nil
}
