package adapters

import (
	"context"
	"io"
	"time"

	"orderhub_backend/internal/adapters/storage"
	campaignports "orderhub_backend/internal/campaigns/ports"

	"github.com/google/uuid"
)

// ExportStore keeps campaign worklists in object storage, one folder per business.
type ExportStore struct {
	storage storage.StorageService
	bucket  string
	ttl     time.Duration
}

// NewExportStore creates an export store writing to bucket with links valid for ttl.
func NewExportStore(svc storage.StorageService, bucket string, ttl time.Duration) *ExportStore {
	return &ExportStore{storage: svc, bucket: bucket, ttl: ttl}
}

// Save uploads a worklist and returns its file key.
func (s *ExportStore) Save(ctx context.Context, businessID uuid.UUID, fileName, contentType string, r io.Reader, size int64) (string, error) {
	return s.storage.UploadFile(ctx, s.bucket, businessID.String(), fileName, contentType, r, size)
}

// DownloadURL presigns a download link for a stored worklist.
func (s *ExportStore) DownloadURL(ctx context.Context, fileKey string) (string, time.Time, error) {
	presigned, err := s.storage.GenerateDownloadURL(ctx, s.bucket, fileKey, s.ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	return presigned.URL, presigned.ExpiresAt, nil
}

// Discard removes a stored worklist.
func (s *ExportStore) Discard(ctx context.Context, fileKey string) error {
	return s.storage.DeleteObject(ctx, s.bucket, fileKey)
}

var _ campaignports.ExportStore = (*ExportStore)(nil)
