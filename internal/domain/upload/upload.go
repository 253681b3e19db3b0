package upload

import (
	"fmt"
	"time"
)

// Upload is a study document a user attached to their account. The raw
// text is chunked for retrieval at upload time.
type Upload struct {
	id         string
	userID     string
	filename   string
	sizeBytes  int64
	chunkCount int
	createdAt  time.Time
}

// New creates an upload record.
func New(id, userID, filename string, sizeBytes int64, chunkCount int, createdAt time.Time) (Upload, error) {
	if id == "" || userID == "" {
		return Upload{}, fmt.Errorf("upload and user ids must not be empty")
	}
	if filename == "" {
		return Upload{}, fmt.Errorf("filename must not be empty")
	}
	if sizeBytes < 0 {
		return Upload{}, fmt.Errorf("size must not be negative, got %d", sizeBytes)
	}
	return Upload{
		id:         id,
		userID:     userID,
		filename:   filename,
		sizeBytes:  sizeBytes,
		chunkCount: chunkCount,
		createdAt:  createdAt.UTC(),
	}, nil
}

// Reconstruct rebuilds an upload from stored state.
func Reconstruct(id, userID, filename string, sizeBytes int64, chunkCount int, createdAt time.Time) Upload {
	return Upload{
		id:         id,
		userID:     userID,
		filename:   filename,
		sizeBytes:  sizeBytes,
		chunkCount: chunkCount,
		createdAt:  createdAt,
	}
}

// ID returns the upload id.
func (u Upload) ID() string { return u.id }

// UserID returns the owning user.
func (u Upload) UserID() string { return u.userID }

// Filename returns the original file name.
func (u Upload) Filename() string { return u.filename }

// SizeBytes returns the raw document size.
func (u Upload) SizeBytes() int64 { return u.sizeBytes }

// ChunkCount returns how many retrieval chunks were produced.
func (u Upload) ChunkCount() int { return u.chunkCount }

// CreatedAt returns the upload time.
func (u Upload) CreatedAt() time.Time { return u.createdAt }
