package attachments

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/square15/backend/internal/domain/shared"
)

// AttachmentKind identifies the document family an upload belongs to.
// The kind becomes part of the storage key namespace.
type AttachmentKind string

const (
	KindInvoiceDocument  AttachmentKind = "invoices"
	KindExpenseReceipt   AttachmentKind = "receipts"
	KindMaintenancePhoto AttachmentKind = "maintenance-photos"
)

// IsValid checks if the attachment kind is recognised
func (k AttachmentKind) IsValid() bool {
	switch k {
	case KindInvoiceDocument, KindExpenseReceipt, KindMaintenancePhoto:
		return true
	}
	return false
}

// AllowedContentTypes defines the whitelist of allowed content types for uploads.
// This prevents uploading potentially dangerous file types (executables, scripts, etc.)
// SVG is excluded because it can carry scripts.
var AllowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
	"text/plain":      true,
	"text/csv":        true,
}

// ObjectStorageService defines the interface for object storage operations.
// Implemented by the infrastructure layer (S3 or any S3-compatible store).
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// AttachmentServiceConfig holds configuration for the attachment service
type AttachmentServiceConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultAttachmentServiceConfig returns the default configuration
func DefaultAttachmentServiceConfig() AttachmentServiceConfig {
	return AttachmentServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: 1 * time.Hour,
	}
}

// InitiateUploadRequest asks for a presigned upload slot
type InitiateUploadRequest struct {
	Kind        string `json:"kind" binding:"required"`
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// InitiateUploadResponse carries the presigned upload URL
type InitiateUploadResponse struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// DownloadURLResponse carries a presigned download URL
type DownloadURLResponse struct {
	StorageKey  string    `json:"storage_key"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AttachmentService issues presigned upload and download URLs for invoice
// documents, expense receipts and maintenance photos
type AttachmentService struct {
	storageService ObjectStorageService
	config         AttachmentServiceConfig
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(storageService ObjectStorageService) *AttachmentService {
	return &AttachmentService{
		storageService: storageService,
		config:         DefaultAttachmentServiceConfig(),
	}
}

// SetConfig sets the service configuration
func (s *AttachmentService) SetConfig(config AttachmentServiceConfig) {
	s.config = config
}

// InitiateUpload generates a namespaced storage key and a presigned upload URL
func (s *AttachmentService) InitiateUpload(ctx context.Context, tenantID uuid.UUID, req InitiateUploadRequest) (*InitiateUploadResponse, error) {
	kind := AttachmentKind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ATTACHMENT_KIND", "Invalid attachment kind")
	}

	if !isAllowedContentType(req.ContentType) {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type '%s' is not allowed. Allowed types: images, PDF and text files.", req.ContentType))
	}

	if kind == KindMaintenancePhoto && !isImageContentType(req.ContentType) {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Maintenance photos require an image content type")
	}

	storageKey := generateStorageKey(tenantID, kind, req.FileName)

	uploadURL, expiresAt, err := s.storageService.GenerateUploadURL(ctx, storageKey, req.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}

	return &InitiateUploadResponse{
		StorageKey: storageKey,
		UploadURL:  uploadURL,
		ExpiresAt:  expiresAt,
	}, nil
}

// PresignDownload generates a presigned download URL for a previously uploaded object
func (s *AttachmentService) PresignDownload(ctx context.Context, tenantID uuid.UUID, storageKey string) (*DownloadURLResponse, error) {
	if err := s.checkKeyOwnership(tenantID, storageKey); err != nil {
		return nil, err
	}

	exists, err := s.storageService.ObjectExists(ctx, storageKey)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_CHECK_FAILED", "Failed to verify object")
	}
	if !exists {
		return nil, shared.NewDomainError("OBJECT_NOT_FOUND", "Object not found in storage")
	}

	downloadURL, expiresAt, err := s.storageService.GenerateDownloadURL(ctx, storageKey, s.config.DownloadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("DOWNLOAD_URL_FAILED", "Failed to generate download URL")
	}

	return &DownloadURLResponse{
		StorageKey:  storageKey,
		DownloadURL: downloadURL,
		ExpiresAt:   expiresAt,
	}, nil
}

// Delete removes an object from storage
func (s *AttachmentService) Delete(ctx context.Context, tenantID uuid.UUID, storageKey string) error {
	if err := s.checkKeyOwnership(tenantID, storageKey); err != nil {
		return err
	}
	return s.storageService.DeleteObject(ctx, storageKey)
}

// checkKeyOwnership rejects keys outside the tenant's namespace
func (s *AttachmentService) checkKeyOwnership(tenantID uuid.UUID, storageKey string) error {
	prefix := fmt.Sprintf("tenants/%s/", tenantID.String())
	if !strings.HasPrefix(storageKey, prefix) {
		return shared.NewDomainError("FORBIDDEN", "Object does not belong to this tenant")
	}
	return nil
}

// generateStorageKey generates a unique storage key for a file.
// Format: tenants/{tenantID}/{kind}/{uniqueID}{ext}
func generateStorageKey(tenantID uuid.UUID, kind AttachmentKind, fileName string) string {
	ext := filepath.Ext(fileName)
	return fmt.Sprintf("tenants/%s/%s/%s%s", tenantID.String(), kind, uuid.New().String(), ext)
}

// isImageContentType checks if a content type is an image
func isImageContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "image/")
}

// isAllowedContentType checks if a content type is in the whitelist
func isAllowedContentType(contentType string) bool {
	return AllowedContentTypes[strings.ToLower(contentType)]
}
