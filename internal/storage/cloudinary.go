package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type cloudinaryUploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryStorage uploads photos to a Cloudinary cloud.
type CloudinaryStorage struct {
	uploader cloudinaryUploader
	folder   string
	now      func() time.Time
}

// NewCloudinaryStorage creates a client from the three account credentials.
func NewCloudinaryStorage(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("configure cloudinary: %w", err)
	}

	return newCloudinaryStorage(&cld.Upload, folder), nil
}

func newCloudinaryStorage(u cloudinaryUploader, folder string) *CloudinaryStorage {
	return &CloudinaryStorage{
		uploader: u,
		folder:   strings.Trim(folder, "/"),
		now:      time.Now,
	}
}

// Upload streams body to Cloudinary and returns the secure URL.
func (s *CloudinaryStorage) Upload(ctx context.Context, body io.Reader, contentType string) (string, error) {
	name := objectName(s.now(), contentType)
	publicID := strings.TrimSuffix(path.Base(name), path.Ext(name))

	result, err := s.uploader.Upload(ctx, io.LimitReader(body, maxUploadBytes), uploader.UploadParams{
		PublicID: publicID,
		Folder:   s.folder,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}

	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}

	if result.SecureURL == "" {
		return "", errors.New("cloudinary returned no secure url")
	}

	return result.SecureURL, nil
}
