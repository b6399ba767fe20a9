// Package upload drives a single resume transfer to the object store and
// exposes its status and progress to listeners.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/SundayYogurt/herohq/internal/common"
	"github.com/SundayYogurt/herohq/internal/interfaces"
	"github.com/SundayYogurt/herohq/internal/logging"
	"github.com/SundayYogurt/herohq/internal/pubsub"
	"github.com/google/uuid"
)

type Status string

const (
	StatusIdle      Status = "IDLE"
	StatusUploading Status = "UPLOADING"
	StatusSuccess   Status = "SUCCESS"
	StatusError     Status = "ERROR"
)

// File is a resume waiting to be uploaded.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Snapshot struct {
	Status   Status `json:"status"`
	Progress int    `json:"progress"`
	FileName string `json:"file_name,omitempty"`
	URL      string `json:"url,omitempty"`
	Key      string `json:"-"`
	Error    string `json:"error,omitempty"`
}

type Options struct {
	Folder   string
	MaxBytes int64

	Now   func() time.Time
	NewID func() string
}

type Controller struct {
	store interfaces.ObjectStore
	opts  Options
	log   logging.Logger

	mu    sync.Mutex
	state Snapshot
	hub   *pubsub.Hub[Snapshot]
}

func NewController(store interfaces.ObjectStore, opts Options, log logging.Logger) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Controller{
		store: store,
		opts:  opts,
		log:   log,
		state: Snapshot{Status: StatusIdle},
		hub:   pubsub.NewHub[Snapshot](),
	}
}

// Upload validates f, streams it to the store and returns the public URL.
// Validation failures leave the controller IDLE. Store failures move it to
// ERROR and are not retried.
func (c *Controller) Upload(ctx context.Context, f File) (string, error) {
	if err := Validate(f, c.opts.MaxBytes); err != nil {
		return "", err
	}
	contentType := DetectType(f)

	c.mu.Lock()
	if c.state.Status == StatusUploading {
		c.mu.Unlock()
		return "", common.ErrUploadInProgress
	}
	key := ObjectKey(c.opts.Folder, c.opts.Now(), c.opts.NewID(), f.Name)
	c.state = Snapshot{Status: StatusUploading, FileName: f.Name, Key: key}
	snap := c.state
	c.mu.Unlock()
	c.hub.Publish(snap)

	body := newProgressReader(f.Body, func(read int64) {
		c.advance(percent(read, f.Size))
	})

	url, err := c.store.Put(ctx, key, body, f.Size, contentType)
	if err == nil && url == "" {
		err = errors.New("store returned an empty url")
	}
	if err != nil {
		c.log.Error(ctx, "resume upload failed", "key", key, "error", err)
		c.finish(Snapshot{Status: StatusError, FileName: f.Name, Error: common.ErrUploadFailed.Error()})
		return "", fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}

	c.log.Info(ctx, "resume uploaded", "key", key, "size", f.Size)
	c.finish(Snapshot{Status: StatusSuccess, Progress: 100, FileName: f.Name, URL: url, Key: key})
	return url, nil
}

// Reset returns the controller to IDLE and forgets the last result.
func (c *Controller) Reset() {
	c.finish(Snapshot{Status: StatusIdle})
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn for every state or progress change.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	return c.hub.Subscribe(fn)
}

func (c *Controller) advance(p int) {
	c.mu.Lock()
	if c.state.Status != StatusUploading || p <= c.state.Progress {
		c.mu.Unlock()
		return
	}
	c.state.Progress = p
	snap := c.state
	c.mu.Unlock()
	c.hub.Publish(snap)
}

func (c *Controller) finish(s Snapshot) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.hub.Publish(s)
}
