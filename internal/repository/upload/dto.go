package upload

import (
	"fmt"
	"strconv"
	"time"

	domupload "github.com/tutorbase/tutorbase/internal/domain/upload"
)

// uploadToHash converts a domain Upload to a map for HSET.
func uploadToHash(u domupload.Upload) map[string]string {
	return map[string]string{
		"id":          u.ID(),
		"user_id":     u.UserID(),
		"filename":    u.Filename(),
		"size_bytes":  strconv.FormatInt(u.SizeBytes(), 10),
		"chunk_count": strconv.Itoa(u.ChunkCount()),
		"created_at":  strconv.FormatInt(u.CreatedAt().UnixMilli(), 10),
	}
}

// uploadFromHash hydrates a domain Upload from an HGETALL result map.
func uploadFromHash(m map[string]string) (domupload.Upload, error) {
	id := m["id"]
	if id == "" {
		return domupload.Upload{}, fmt.Errorf("upload hash missing id")
	}
	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return domupload.Upload{}, fmt.Errorf("invalid created_at: %w", err)
	}
	sizeBytes, _ := strconv.ParseInt(m["size_bytes"], 10, 64)
	chunkCount, _ := strconv.Atoi(m["chunk_count"])

	return domupload.Reconstruct(id, m["user_id"], m["filename"], sizeBytes, chunkCount,
		time.UnixMilli(createdAt).UTC()), nil
}
