package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SundayYogurt/herohq/internal/common"
	"github.com/SundayYogurt/herohq/internal/domain"
	"gorm.io/gorm"
)

// PageCursor is the (created_at, id) position of one applicant in the
// newest-first ordering.
type PageCursor struct {
	CreatedAt time.Time
	ID        string
}

type ApplicantRepository interface {
	Create(ctx context.Context, a *domain.Applicant) error
	FindByID(ctx context.Context, id string) (*domain.Applicant, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)

	FirstPage(ctx context.Context, limit int) ([]domain.Applicant, error)
	PageAfter(ctx context.Context, c PageCursor, limit int) ([]domain.Applicant, error)
	PageBefore(ctx context.Context, c PageCursor, limit int) ([]domain.Applicant, error)
}

type applicantRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewApplicantRepository(db *gorm.DB) ApplicantRepository {
	return &applicantRepository{db: db, now: time.Now}
}

func (r *applicantRepository) Create(ctx context.Context, a *domain.Applicant) error {
	if a == nil {
		return errors.New("nil applicant")
	}
	if a.ResumeURL == "" {
		return fmt.Errorf("%w: resume url is empty", common.ErrValidation)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = r.now().UTC().Truncate(time.Microsecond)
	}
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create applicant: %w", err)
	}
	return nil
}

func (r *applicantRepository) FindByID(ctx context.Context, id string) (*domain.Applicant, error) {
	var a domain.Applicant
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find applicant: %w", err)
	}
	return &a, nil
}

func (r *applicantRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Applicant{})
	if res.Error != nil {
		return fmt.Errorf("delete applicant: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *applicantRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Applicant{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count applicants: %w", err)
	}
	return n, nil
}

func (r *applicantRepository) FirstPage(ctx context.Context, limit int) ([]domain.Applicant, error) {
	var out []domain.Applicant
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	return out, nil
}

func (r *applicantRepository) PageAfter(ctx context.Context, c PageCursor, limit int) ([]domain.Applicant, error) {
	var out []domain.Applicant
	err := r.db.WithContext(ctx).
		Where("created_at < ? OR (created_at = ? AND id < ?)", c.CreatedAt, c.CreatedAt, c.ID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list applicants after cursor: %w", err)
	}
	return out, nil
}

// PageBefore returns the last limit rows that precede c in newest-first order,
// still sorted newest first.
func (r *applicantRepository) PageBefore(ctx context.Context, c PageCursor, limit int) ([]domain.Applicant, error) {
	var out []domain.Applicant
	err := r.db.WithContext(ctx).
		Where("created_at > ? OR (created_at = ? AND id > ?)", c.CreatedAt, c.CreatedAt, c.ID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list applicants before cursor: %w", err)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
