// Package storage provides the object store receipts are kept in.
package storage

import (
	"context"
	"errors"
	"time"

	budgetapp "github.com/homehub/backend/internal/application/budget"
)

// StubReceiptStorage is a placeholder implementation of ReceiptStorage.
// Use this for local development when no S3-compatible backend is running;
// the presigned URLs it returns point nowhere.
type StubReceiptStorage struct {
	// BaseURL is the base URL for generated upload/download URLs
	BaseURL string

	// PresignTTL is how long generated URLs claim to be valid
	PresignTTL time.Duration
}

// NewStubReceiptStorage creates a new StubReceiptStorage
func NewStubReceiptStorage() *StubReceiptStorage {
	return &StubReceiptStorage{
		BaseURL:    "https://storage.example.com",
		PresignTTL: 15 * time.Minute,
	}
}

// Ensure StubReceiptStorage implements ReceiptStorage
var _ budgetapp.ReceiptStorage = (*StubReceiptStorage)(nil)

// PresignUpload generates a stub upload URL
func (s *StubReceiptStorage) PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(s.PresignTTL)
	url := s.BaseURL + "/upload/" + key + "?expires=" + expiresAt.Format(time.RFC3339)

	return url, expiresAt, nil
}

// PresignDownload generates a stub download URL
func (s *StubReceiptStorage) PresignDownload(ctx context.Context, key string) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(s.PresignTTL)
	url := s.BaseURL + "/download/" + key + "?expires=" + expiresAt.Format(time.RFC3339)

	return url, expiresAt, nil
}

// Delete is a no-op stub that always succeeds
func (s *StubReceiptStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	return nil
}
