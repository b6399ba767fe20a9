// Package inspector shows one applicant in detail and deletes applicants
// after confirmation.
package inspector

import (
	"context"
	"fmt"
	"sync"

	"github.com/SundayYogurt/herohq/internal/common"
	"github.com/SundayYogurt/herohq/internal/domain"
	"github.com/SundayYogurt/herohq/internal/dto"
	"github.com/SundayYogurt/herohq/internal/interfaces"
	"github.com/SundayYogurt/herohq/internal/listing"
	"github.com/SundayYogurt/herohq/internal/logging"
	"github.com/SundayYogurt/herohq/internal/pubsub"
)

type Deleter interface {
	Delete(ctx context.Context, id string) error
}

type Panel struct {
	repo    Deleter
	listing *listing.Controller
	store   interfaces.ObjectStore
	feed    *pubsub.Hub[dto.AdminEvent]
	log     logging.Logger

	mu       sync.Mutex
	selected *dto.ApplicantDetail
}

func NewPanel(
	repo Deleter,
	list *listing.Controller,
	store interfaces.ObjectStore,
	feed *pubsub.Hub[dto.AdminEvent],
	log logging.Logger,
) *Panel {
	return &Panel{repo: repo, listing: list, store: store, feed: feed, log: log}
}

// Open replaces the current selection with a and resolves its download link.
func (p *Panel) Open(ctx context.Context, a domain.Applicant) dto.ApplicantDetail {
	detail := dto.ApplicantDetail{Applicant: a, DownloadURL: a.ResumeURL}

	if p.store != nil {
		link, err := p.store.AttachmentURL(ctx, a.ResumeKey, a.ResumeURL)
		if err != nil {
			p.log.Warn(ctx, "attachment link unavailable", "id", a.ID, "error", err)
		} else if link != "" {
			detail.DownloadURL = link
		}
	}

	p.mu.Lock()
	p.selected = &detail
	p.mu.Unlock()
	return detail
}

// OpenByID opens an applicant from the listing's current page.
func (p *Panel) OpenByID(ctx context.Context, id string) (dto.ApplicantDetail, error) {
	a, ok := p.listing.Find(id)
	if !ok {
		return dto.ApplicantDetail{}, common.ErrNotFound
	}
	return p.Open(ctx, a), nil
}

func (p *Panel) Close() {
	p.mu.Lock()
	p.selected = nil
	p.mu.Unlock()
}

func (p *Panel) Selected() (dto.ApplicantDetail, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == nil {
		return dto.ApplicantDetail{}, false
	}
	return *p.selected, true
}

// Delete removes the applicant after confirmation. On success the row leaves
// the listing page and the panel closes if it showed that applicant. On
// failure nothing local changes.
func (p *Panel) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return common.ErrConfirmationRequired
	}
	if err := p.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete applicant: %w", err)
	}

	p.listing.Remove(id)

	p.mu.Lock()
	if p.selected != nil && p.selected.Applicant.ID == id {
		p.selected = nil
	}
	p.mu.Unlock()

	p.log.Info(ctx, "applicant deleted", "id", id)
	if p.feed != nil {
		p.feed.Publish(dto.AdminEvent{Type: dto.EventApplicationDeleted, ID: id})
	}
	return nil
}
