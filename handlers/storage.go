package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"heallink/services/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

// DocumentHandler stores onboarding documents: credential files go up as
// is, government ID scans are encrypted before leaving the process.
type DocumentHandler struct {
	StorageSvc    storage.StorageService
	EncryptionKey string
}

// NewDocumentHandler creates a new DocumentHandler instance. The
// encryption key for government ID scans comes from configuration.
func NewDocumentHandler(svc storage.StorageService) *DocumentHandler {
	return &DocumentHandler{
		StorageSvc:    svc,
		EncryptionKey: viper.GetString("cloudinary.encryptionKey"),
	}
}

// allowedBuckets defines permitted buckets for credential document uploads.
var allowedBuckets = map[string]bool{
	"licenses":       true,
	"certifications": true,
	"diplomas":       true,
}

// UploadCredentialHandler handles POST /onboarding/documents/credentials/:bucket.
func (h *DocumentHandler) UploadCredentialHandler(c *gin.Context) {
	bucket := c.Param("bucket")
	if !allowedBuckets[bucket] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bucket; allowed values are 'licenses', 'certifications' and 'diplomas'"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided", "detail": err.Error()})
		return
	}

	tempFilePath := filepath.Join(os.TempDir(), fileHeader.Filename)
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file", "detail": err.Error()})
		return
	}
	defer os.Remove(tempFilePath)

	destFolder := "credentials/" + bucket

	publicID, err := h.StorageSvc.UploadFile(c, tempFilePath, destFolder)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload file", "detail": err.Error()})
		return
	}

	downloadURL, err := h.StorageSvc.GetDownloadURL(c, publicID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to construct download URL", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "file uploaded successfully",
		"publicId":    publicID,
		"downloadURL": downloadURL,
	})
}

// UploadGovernmentIDHandler handles POST /onboarding/documents/government-id.
// The scan is encrypted client-of-record side before upload; only the
// opaque identifier comes back.
func (h *DocumentHandler) UploadGovernmentIDHandler(c *gin.Context) {
	if h.EncryptionKey == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "document encryption not configured"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided", "detail": err.Error()})
		return
	}

	tempFilePath := filepath.Join(os.TempDir(), fileHeader.Filename)
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file", "detail": err.Error()})
		return
	}
	defer os.Remove(tempFilePath)

	publicID, err := h.StorageSvc.UploadEncryptedFile(c, tempFilePath, "government-ids", h.EncryptionKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload document", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "document uploaded successfully",
		"permanentFileID": publicID,
	})
}

// GetDocumentURLHandler handles GET /onboarding/documents/:bucket/:filename.
func (h *DocumentHandler) GetDocumentURLHandler(c *gin.Context) {
	bucket := c.Param("bucket")
	filename := c.Param("filename")
	if !allowedBuckets[bucket] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bucket; allowed values are 'licenses', 'certifications' and 'diplomas'"})
		return
	}

	destPath := "credentials/" + bucket + "/" + filename

	expiry := 15 * time.Minute
	if expStr := c.Query("expires"); expStr != "" {
		if exp, err := time.ParseDuration(expStr); err == nil {
			expiry = exp
		}
	}

	url, err := h.StorageSvc.GetDownloadURL(c, destPath, expiry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate download URL", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"downloadURL": url})
}
