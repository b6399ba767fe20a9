package interfaces

import (
	"context"
	"io"
)

// ObjectStore persists resume files. Keys are full object paths such as
// "resumes/2025/<uuid>_cv.pdf".
type ObjectStore interface {
	// Put writes body under key and returns a publicly fetchable URL.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)

	// AttachmentURL returns a link that makes browsers download the object
	// instead of previewing it.
	AttachmentURL(ctx context.Context, key string, publicURL string) (string, error)

	// Open streams the stored object back.
	Open(ctx context.Context, key string, publicURL string) (io.ReadCloser, error)
}
