package storage

import (
	"context"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
)

// StorageService stores onboarding documents (credential files,
// government ID scans) and returns their permanent identifiers.
type StorageService interface {
	UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error)
	UploadEncryptedFile(ctx context.Context, localFilePath, destFolder, encryptionKey string) (string, error)
	DeleteFile(ctx context.Context, publicID string) error
	GetDownloadURL(ctx context.Context, publicID string, expires time.Duration) (string, error)
}

// CloudinaryStorageService implements StorageService on Cloudinary.
type CloudinaryStorageService struct {
	cld       *cloudinary.Cloudinary
	cloudName string
}

// NewStorageService creates a Cloudinary-backed StorageService.
func NewStorageService(cld *cloudinary.Cloudinary, cloudName string) StorageService {
	return &CloudinaryStorageService{
		cld:       cld,
		cloudName: cloudName,
	}
}
