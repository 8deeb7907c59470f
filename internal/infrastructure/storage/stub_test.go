package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStub_GenerateUploadURL(t *testing.T) {
	s := NewStubObjectStorage()

	url, expiresAt, err := s.GenerateUploadURL(context.Background(),
		"tenant-1/invoices/INV-202608-00001.pdf", "application/pdf", 15*time.Minute)
	require.NoError(t, err)

	assert.Contains(t, url, "https://storage.example.com/upload/tenant-1/invoices/INV-202608-00001.pdf")
	assert.True(t, expiresAt.After(time.Now()))
}

func TestStub_GenerateDownloadURL(t *testing.T) {
	s := NewStubObjectStorage()

	url, expiresAt, err := s.GenerateDownloadURL(context.Background(),
		"tenant-1/invoices/INV-202608-00001.pdf", time.Hour)
	require.NoError(t, err)

	assert.Contains(t, url, "https://storage.example.com/download/tenant-1/invoices/INV-202608-00001.pdf")
	assert.True(t, expiresAt.After(time.Now()))
}

func TestStub_DeleteObjectIsNoop(t *testing.T) {
	s := NewStubObjectStorage()

	assert.NoError(t, s.DeleteObject(context.Background(), "tenant-1/attachments/lease.pdf"))
}

func TestStub_ObjectExistsAlwaysTrue(t *testing.T) {
	s := NewStubObjectStorage()

	exists, err := s.ObjectExists(context.Background(), "tenant-1/attachments/lease.pdf")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStub_EmptyKeyRejected(t *testing.T) {
	s := NewStubObjectStorage()
	ctx := context.Background()

	_, _, err := s.GenerateUploadURL(ctx, "", "application/pdf", time.Minute)
	assert.ErrorIs(t, err, ErrEmptyStorageKey)

	_, _, err = s.GenerateDownloadURL(ctx, "", time.Minute)
	assert.ErrorIs(t, err, ErrEmptyStorageKey)

	assert.ErrorIs(t, s.DeleteObject(ctx, ""), ErrEmptyStorageKey)

	exists, err := s.ObjectExists(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyStorageKey)
	assert.False(t, exists)
}
