// Package storage implements the attachments object-storage port against
// S3-compatible backends, plus a local stub for development.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/square15/backend/internal/application/attachments"
)

// ErrEmptyStorageKey is returned when an operation is given no key.
var ErrEmptyStorageKey = errors.New("storage key is required")

// StubObjectStorage fakes presigned URLs without talking to any backend.
// ObjectExists always reports true so the upload confirmation flow works
// in development where nothing is actually uploaded.
type StubObjectStorage struct {
	BaseURL string
}

// NewStubObjectStorage returns a stub pointing at a placeholder host.
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{BaseURL: "https://storage.example.com"}
}

var _ attachments.ObjectStorageService = (*StubObjectStorage)(nil)

func (s *StubObjectStorage) presign(verb, storageKey string, expiresIn time.Duration) (string, time.Time) {
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/" + verb + "/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339), expiresAt
}

func (s *StubObjectStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrEmptyStorageKey
	}
	url, expiresAt := s.presign("upload", storageKey, expiresIn)
	return url, expiresAt, nil
}

func (s *StubObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrEmptyStorageKey
	}
	url, expiresAt := s.presign("download", storageKey, expiresIn)
	return url, expiresAt, nil
}

func (s *StubObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return ErrEmptyStorageKey
	}
	return nil
}

func (s *StubObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, ErrEmptyStorageKey
	}
	return true, nil
}
