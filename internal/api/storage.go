package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/SundayYogurt/herohq/config"
	"github.com/SundayYogurt/herohq/internal/interfaces"
	"github.com/SundayYogurt/herohq/pkg/cloudinary"
	"github.com/SundayYogurt/herohq/pkg/s3store"
)

const (
	StorageCloudinary = "cloudinary"
	StorageS3         = "s3"
)

// OpenObjectStore builds the resume store selected by STORAGE_DRIVER.
func OpenObjectStore(ctx context.Context, cfg config.Config) (interfaces.ObjectStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.StorageDriver)) {
	case "", StorageCloudinary:
		cld, err := cloudinary.New(cfg.CloudinaryUrl)
		if err != nil {
			return nil, fmt.Errorf("cloudinary init: %w", err)
		}
		return cloudinary.NewCloudinaryUploader(cld), nil
	case StorageS3:
		store, err := s3store.New(ctx, s3store.Options{
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			BaseEndpoint:  cfg.S3BaseEndpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 init: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
