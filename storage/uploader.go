package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader publishes objects to a public bucket.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	GetPublicURL(key string) string
}

// StatisticsSnapshotKey is where a worldcup's statistics snapshot is published.
func StatisticsSnapshotKey(worldcupID string) string {
	return "worldcups/" + worldcupID + "/statistics.json"
}
