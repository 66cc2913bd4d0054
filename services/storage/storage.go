package storage

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// UploadFile uploads a file to Cloudinary into the specified folder and
// returns the permanent identifier.
func (s *CloudinaryStorageService) UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error) {
	uploadParams := uploader.UploadParams{
		Folder: destFolder,
	}
	result, err := s.cld.Upload.Upload(ctx, localFilePath, uploadParams)
	if err != nil {
		return "", fmt.Errorf("storage: failed to upload file: %w", err)
	}
	if result.PublicID == "" {
		return "", fmt.Errorf("storage: no public ID returned")
	}
	return result.PublicID, nil
}

// UploadEncryptedFile encrypts the file before uploading. Used for
// government ID scans, which never leave the process unencrypted.
func (s *CloudinaryStorageService) UploadEncryptedFile(ctx context.Context, localFilePath, destFolder, encryptionKey string) (string, error) {
	encryptedFilePath, err := encryptFile(localFilePath, encryptionKey)
	if err != nil {
		return "", fmt.Errorf("storage: failed to encrypt file: %w", err)
	}
	defer os.Remove(encryptedFilePath)
	publicID, err := s.UploadFile(ctx, encryptedFilePath, destFolder)
	if err != nil {
		return "", fmt.Errorf("storage: failed to upload encrypted file: %w", err)
	}
	return publicID, nil
}

// DeleteFile deletes a file from Cloudinary given its public ID.
func (s *CloudinaryStorageService) DeleteFile(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("storage: failed to delete file: %w", err)
	}
	return nil
}

// GetDownloadURL constructs a public URL for an uploaded document.
func (s *CloudinaryStorageService) GetDownloadURL(ctx context.Context, publicID string, expires time.Duration) (string, error) {
	a, err := s.cld.Media(publicID)
	if err != nil {
		return "", fmt.Errorf("storage: failed to get asset: %w", err)
	}
	url, err := a.String()
	if err != nil {
		return "", fmt.Errorf("storage: failed to get URL string: %w", err)
	}
	return url, nil
}
