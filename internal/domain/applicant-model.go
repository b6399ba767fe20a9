package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ApplicantStatusNew = "new"
)

type Applicant struct {
	ID        string    `gorm:"type:uuid;primaryKey;index:idx_applicants_created_at_id,priority:2,sort:desc" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	Email     string    `gorm:"type:varchar(320);not null" json:"email"`
	Phone     string    `gorm:"type:varchar(50);not null;default:''" json:"phone"`
	Message   string    `gorm:"type:text;not null;default:''" json:"message"`
	ResumeURL string    `gorm:"column:resume_url;type:text;not null" json:"resume_url"`
	ResumeKey string    `gorm:"column:resume_key;type:text;not null;default:''" json:"-"`
	Status    string    `gorm:"type:varchar(20);not null;default:'new'" json:"status"`
	CreatedAt time.Time `gorm:"not null;index:idx_applicants_created_at_id,priority:1,sort:desc" json:"created_at"`
}

func (a *Applicant) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = ApplicantStatusNew
	}
	return nil
}
