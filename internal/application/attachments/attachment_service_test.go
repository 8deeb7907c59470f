package attachments

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockObjectStorageService is a mock implementation of ObjectStorageService
type MockObjectStorageService struct {
	GenerateUploadURLFunc   func(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURLFunc func(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObjectFunc        func(ctx context.Context, storageKey string) error
	ObjectExistsFunc        func(ctx context.Context, storageKey string) (bool, error)
}

func (m *MockObjectStorageService) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if m.GenerateUploadURLFunc != nil {
		return m.GenerateUploadURLFunc(ctx, storageKey, contentType, expiresIn)
	}
	return "https://storage.example.com/upload/" + storageKey, time.Now().Add(expiresIn), nil
}

func (m *MockObjectStorageService) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if m.GenerateDownloadURLFunc != nil {
		return m.GenerateDownloadURLFunc(ctx, storageKey, expiresIn)
	}
	return "https://storage.example.com/download/" + storageKey, time.Now().Add(expiresIn), nil
}

func (m *MockObjectStorageService) DeleteObject(ctx context.Context, storageKey string) error {
	if m.DeleteObjectFunc != nil {
		return m.DeleteObjectFunc(ctx, storageKey)
	}
	return nil
}

func (m *MockObjectStorageService) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if m.ObjectExistsFunc != nil {
		return m.ObjectExistsFunc(ctx, storageKey)
	}
	return true, nil
}

func TestAttachmentService_InitiateUpload(t *testing.T) {
	t.Run("generates tenant-namespaced key", func(t *testing.T) {
		service := NewAttachmentService(&MockObjectStorageService{})
		tenantID := uuid.New()

		resp, err := service.InitiateUpload(context.Background(), tenantID, InitiateUploadRequest{
			Kind:        string(KindExpenseReceipt),
			FileName:    "fuel-slip.pdf",
			ContentType: "application/pdf",
		})

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.StorageKey, "tenants/"+tenantID.String()+"/receipts/"))
		assert.True(t, strings.HasSuffix(resp.StorageKey, ".pdf"))
		assert.NotEmpty(t, resp.UploadURL)
		assert.False(t, resp.ExpiresAt.IsZero())
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		service := NewAttachmentService(&MockObjectStorageService{})

		_, err := service.InitiateUpload(context.Background(), uuid.New(), InitiateUploadRequest{
			Kind:        "contracts",
			FileName:    "lease.pdf",
			ContentType: "application/pdf",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ATTACHMENT_KIND", domainErr.Code)
	})

	t.Run("rejects disallowed content type", func(t *testing.T) {
		service := NewAttachmentService(&MockObjectStorageService{})

		_, err := service.InitiateUpload(context.Background(), uuid.New(), InitiateUploadRequest{
			Kind:        string(KindExpenseReceipt),
			FileName:    "malware.exe",
			ContentType: "application/x-msdownload",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DISALLOWED_CONTENT_TYPE", domainErr.Code)
	})

	t.Run("maintenance photos require image content type", func(t *testing.T) {
		service := NewAttachmentService(&MockObjectStorageService{})

		_, err := service.InitiateUpload(context.Background(), uuid.New(), InitiateUploadRequest{
			Kind:        string(KindMaintenancePhoto),
			FileName:    "report.pdf",
			ContentType: "application/pdf",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CONTENT_TYPE", domainErr.Code)
	})

	t.Run("wraps storage failures", func(t *testing.T) {
		service := NewAttachmentService(&MockObjectStorageService{
			GenerateUploadURLFunc: func(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
				return "", time.Time{}, errors.New("connection refused")
			},
		})

		_, err := service.InitiateUpload(context.Background(), uuid.New(), InitiateUploadRequest{
			Kind:        string(KindInvoiceDocument),
			FileName:    "invoice.pdf",
			ContentType: "application/pdf",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UPLOAD_URL_FAILED", domainErr.Code)
	})
}

func TestAttachmentService_PresignDownload(t *testing.T) {
	t.Run("returns download URL for owned key", func(t *testing.T) {
		service := NewAttachmentService(&MockObjectStorageService{})
		tenantID := uuid.New()
		key := "tenants/" + tenantID.String() + "/receipts/" + uuid.New().String() + ".pdf"

		resp, err := service.PresignDownload(context.Background(), tenantID, key)

		require.NoError(t, err)
		assert.Equal(t, key, resp.StorageKey)
		assert.NotEmpty(t, resp.DownloadURL)
	})

	t.Run("rejects keys from another tenant", func(t *testing.T) {
		service := NewAttachmentService(&MockObjectStorageService{})
		key := "tenants/" + uuid.New().String() + "/receipts/doc.pdf"

		_, err := service.PresignDownload(context.Background(), uuid.New(), key)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FORBIDDEN", domainErr.Code)
	})

	t.Run("reports missing objects", func(t *testing.T) {
		service := NewAttachmentService(&MockObjectStorageService{
			ObjectExistsFunc: func(ctx context.Context, storageKey string) (bool, error) {
				return false, nil
			},
		})
		tenantID := uuid.New()
		key := "tenants/" + tenantID.String() + "/invoices/doc.pdf"

		_, err := service.PresignDownload(context.Background(), tenantID, key)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OBJECT_NOT_FOUND", domainErr.Code)
	})
}

func TestAttachmentService_Delete(t *testing.T) {
	t.Run("deletes owned object", func(t *testing.T) {
		deleted := ""
		service := NewAttachmentService(&MockObjectStorageService{
			DeleteObjectFunc: func(ctx context.Context, storageKey string) error {
				deleted = storageKey
				return nil
			},
		})
		tenantID := uuid.New()
		key := "tenants/" + tenantID.String() + "/maintenance-photos/photo.jpg"

		err := service.Delete(context.Background(), tenantID, key)

		require.NoError(t, err)
		assert.Equal(t, key, deleted)
	})

	t.Run("refuses foreign keys", func(t *testing.T) {
		service := NewAttachmentService(&MockObjectStorageService{})

		err := service.Delete(context.Background(), uuid.New(), "tenants/"+uuid.New().String()+"/receipts/doc.pdf")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FORBIDDEN", domainErr.Code)
	})
}
