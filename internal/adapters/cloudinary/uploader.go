package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"volunteermap/internal/domain"
)

// DefaultFolder is where event images are stored when no folder is configured.
const DefaultFolder = "events"

// Config holds Cloudinary credentials.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// assetAPI is the part of the Cloudinary upload API used here.
type assetAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

type cloudinaryUploader struct {
	api    assetAPI
	folder string
}

// NewUploader returns an ImageUploader that sends images straight to Cloudinary.
func NewUploader(cfg Config) (domain.ImageUploader, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary credentials are incomplete")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %w", err)
	}
	return newUploader(&cld.Upload, cfg.Folder), nil
}

func newUploader(api assetAPI, folder string) *cloudinaryUploader {
	if folder == "" {
		folder = DefaultFolder
	}
	return &cloudinaryUploader{api: api, folder: folder}
}

func (u *cloudinaryUploader) Upload(ctx context.Context, localURI string) (string, error) {
	resp, err := u.api.Upload(ctx, localPath(localURI), uploader.UploadParams{
		Folder: u.folder,
	})
	if err != nil {
		return "", fmt.Errorf("upload error: %w", err)
	}
	if resp == nil {
		return "", errors.New("upload error: empty response")
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("upload error: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", errors.New("upload error: no secure url returned")
	}
	return resp.SecureURL, nil
}

func localPath(uri string) string {
	if u, err := url.Parse(uri); err == nil && u.Scheme == "file" {
		return u.Path
	}
	return uri
}
