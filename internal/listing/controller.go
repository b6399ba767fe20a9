// Package listing pages through applicants newest first using
// (created_at, id) cursors. One Controller belongs to one admin session.
package listing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/SundayYogurt/herohq/internal/domain"
	"github.com/SundayYogurt/herohq/internal/repository"
)

type Direction string

const (
	Init Direction = "INIT"
	Next Direction = "NEXT"
	Prev Direction = "PREV"
)

const DefaultPageSize = 15

const (
	NoticeNoMore     = "no more applications"
	NoticeFirstPage  = "already on the first page"
	NoticeNoneBefore = "no newer applications"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case "", Init:
		return Init, nil
	case Next:
		return Next, nil
	case Prev:
		return Prev, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// Page is a copy of the controller's visible state.
type Page struct {
	Items   []domain.Applicant
	Number  int
	HasMore bool
	Total   int64
	Notice  string
}

type Source interface {
	Count(ctx context.Context) (int64, error)
	FirstPage(ctx context.Context, limit int) ([]domain.Applicant, error)
	PageAfter(ctx context.Context, c repository.PageCursor, limit int) ([]domain.Applicant, error)
	PageBefore(ctx context.Context, c repository.PageCursor, limit int) ([]domain.Applicant, error)
}

type Controller struct {
	src  Source
	size int

	mu      sync.Mutex
	items   []domain.Applicant
	first   *repository.PageCursor
	last    *repository.PageCursor
	page    int
	hasMore bool
	total   int64
}

func NewController(src Source, pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller{src: src, size: pageSize}
}

// Load fetches a page in the given direction. On error the visible page and
// both cursors stay as they were.
func (c *Controller) Load(ctx context.Context, dir Direction) (Page, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if dir != Init && c.page == 0 {
		dir = Init
	}

	var (
		items []domain.Applicant
		err   error
		page  = c.page
	)
	switch dir {
	case Init:
		items, err = c.src.FirstPage(ctx, c.size)
		page = 1
	case Next:
		if c.last == nil {
			c.hasMore = false
			return c.snapshot(NoticeNoMore), nil
		}
		items, err = c.src.PageAfter(ctx, *c.last, c.size)
		page++
	case Prev:
		if c.page <= 1 || c.first == nil {
			return c.snapshot(NoticeFirstPage), nil
		}
		items, err = c.src.PageBefore(ctx, *c.first, c.size)
		page--
	default:
		return c.snapshot(""), fmt.Errorf("unknown direction %q", dir)
	}
	if err != nil {
		return c.snapshot(""), fmt.Errorf("load %s page: %w", strings.ToLower(string(dir)), err)
	}

	total, err := c.src.Count(ctx)
	if err != nil {
		return c.snapshot(""), fmt.Errorf("count applicants: %w", err)
	}

	if len(items) == 0 && dir != Init {
		c.total = total
		if dir == Next {
			c.hasMore = false
			return c.snapshot(NoticeNoMore), nil
		}
		return c.snapshot(NoticeNoneBefore), nil
	}

	c.items = items
	c.page = page
	c.total = total
	c.hasMore = len(items) == c.size
	c.first, c.last = nil, nil
	if len(items) > 0 {
		c.first = cursorOf(items[0])
		c.last = cursorOf(items[len(items)-1])
	}
	return c.snapshot(""), nil
}

// Remove drops the applicant with id from the visible page. It reports
// whether an entry was removed.
func (c *Controller) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			if c.total > 0 {
				c.total--
			}
			return true
		}
	}
	return false
}

func (c *Controller) Find(id string) (domain.Applicant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, a := range c.items {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Applicant{}, false
}

func (c *Controller) Current() Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot("")
}

func (c *Controller) snapshot(notice string) Page {
	p := Page{
		Items:   append([]domain.Applicant(nil), c.items...),
		Number:  c.page,
		HasMore: c.hasMore,
		Total:   c.total,
		Notice:  notice,
	}
	if p.Items == nil {
		p.Items = []domain.Applicant{}
	}
	return p
}

func cursorOf(a domain.Applicant) *repository.PageCursor {
	return &repository.PageCursor{CreatedAt: a.CreatedAt, ID: a.ID}
}
