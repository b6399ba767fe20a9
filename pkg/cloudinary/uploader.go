package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Resumes are stored as raw resources so PDF and Word files keep their
// original bytes and extension.
const resourceType = "raw"

const attachmentFlag = "fl_attachment"

type CloudinaryUploader struct {
	cld  *cld.Cloudinary
	http *http.Client
}

func NewCloudinaryUploader(cloud *cld.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cloud, http: http.DefaultClient}
}

func boolPtr(b bool) *bool {
	return &b
}

func (u *CloudinaryUploader) Put(
	ctx context.Context,
	key string,
	body io.Reader,
	size int64,
	contentType string,
) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		PublicID:       key,
		ResourceType:   resourceType,
		UseFilename:    boolPtr(false),
		UniqueFilename: boolPtr(false),
		Overwrite:      boolPtr(false),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary upload: empty url in response")
	}
	return res.SecureURL, nil
}

// AttachmentURL asks the CDN for a download by adding the fl_attachment
// delivery flag.
func (u *CloudinaryUploader) AttachmentURL(ctx context.Context, key string, publicURL string) (string, error) {
	if key == "" {
		return ForceDownloadURL(publicURL), nil
	}
	file, err := u.cld.File(key)
	if err != nil {
		return "", fmt.Errorf("cloudinary asset: %w", err)
	}
	file.Transformation = attachmentFlag
	link, err := file.String()
	if err != nil {
		return "", fmt.Errorf("cloudinary asset url: %w", err)
	}
	return link, nil
}

func (u *CloudinaryUploader) Open(ctx context.Context, key string, publicURL string) (io.ReadCloser, error) {
	if publicURL == "" {
		return nil, errors.New("cloudinary open: no url for " + key)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, publicURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := u.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudinary download: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("cloudinary download: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// ForceDownloadURL rewrites a Cloudinary delivery URL so the browser saves
// the file. URLs from other hosts are returned unchanged.
func ForceDownloadURL(publicURL string) string {
	if !strings.Contains(publicURL, "res.cloudinary.com") {
		return publicURL
	}
	if strings.Contains(publicURL, "/upload/"+attachmentFlag+"/") {
		return publicURL
	}
	return strings.Replace(publicURL, "/upload/", "/upload/"+attachmentFlag+"/", 1)
}
