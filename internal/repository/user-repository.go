package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SundayYogurt/herohq/internal/common"
	"github.com/SundayYogurt/herohq/internal/domain"
	"github.com/SundayYogurt/herohq/internal/helper"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserById(ctx context.Context, userID string) (*domain.User, error)
	GetRole(ctx context.Context, userID string) (string, error)
	SetRole(ctx context.Context, email string, role string) error

	// MergeGoogleUser links a Google identity to a user record, creating it
	// on first sign-in. An existing role is never touched.
	MergeGoogleUser(ctx context.Context, email string, googleSub string) (*domain.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return common.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) FindUserById(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", userID)
}

func (r *userRepository) GetRole(ctx context.Context, userID string) (string, error) {
	user, err := r.FindUserById(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

func (r *userRepository) SetRole(ctx context.Context, email string, role string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("email = ?", email).
		Update("role", role)
	if res.Error != nil {
		return fmt.Errorf("set role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *userRepository) MergeGoogleUser(ctx context.Context, email string, googleSub string) (*domain.User, error) {
	var merged domain.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.User

		err := tx.Where("google_sub = ?", googleSub).First(&existing).Error
		if err == nil {
			if existing.Email != email {
				if err := tx.Model(&existing).Update("email", email).Error; err != nil {
					return err
				}
			}
			merged = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		err = tx.Where("email = ?", email).First(&existing).Error
		if err == nil {
			sub := googleSub
			if err := tx.Model(&existing).Update("google_sub", &sub).Error; err != nil {
				return err
			}
			existing.GoogleSub = &sub
			merged = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		sub := googleSub
		merged = domain.User{Email: email, GoogleSub: &sub, Role: domain.RoleUser}
		return tx.Create(&merged).Error
	})
	if err != nil {
		if helper.IsDuplicateKey(err) {
			return nil, common.ErrEmailTaken
		}
		return nil, fmt.Errorf("merge google user: %w", err)
	}
	return &merged, nil
}

func (r *userRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.WithContext(ctx).Where(query, arg).First(user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
