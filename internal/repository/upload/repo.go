package upload

import (
	"context"
	"fmt"
	"sort"

	"github.com/tutorbase/tutorbase/internal/domain"
	domupload "github.com/tutorbase/tutorbase/internal/domain/upload"
)

// store is the consumer interface for uploads (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	RPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// Repo stores upload metadata as a hash, the chunked text as a list, and a
// per-user list of upload ids.
type Repo struct {
	store store
}

// New creates an upload repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create stores an upload with its retrieval chunks.
func (r *Repo) Create(ctx context.Context, u domupload.Upload, chunks []string) error {
	if err := r.store.HSet(ctx, uploadKey(u.ID()), uploadToHash(u)); err != nil {
		return fmt.Errorf("hset upload %s: %w", u.ID(), err)
	}
	if err := r.store.RPush(ctx, chunksKey(u.ID()), chunks...); err != nil {
		return fmt.Errorf("rpush chunks %s: %w", u.ID(), err)
	}
	if err := r.store.RPush(ctx, userUploadsKey(u.UserID()), u.ID()); err != nil {
		return fmt.Errorf("rpush user uploads %s: %w", u.UserID(), err)
	}
	return nil
}

// Get retrieves an upload by id.
func (r *Repo) Get(ctx context.Context, id string) (domupload.Upload, error) {
	m, err := r.store.HGetAll(ctx, uploadKey(id))
	if err != nil {
		return domupload.Upload{}, fmt.Errorf("hgetall upload %s: %w", id, err)
	}
	if len(m) == 0 {
		return domupload.Upload{}, domain.ErrUploadNotFound
	}
	return uploadFromHash(m)
}

// ListByUser returns a user's uploads, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]domupload.Upload, error) {
	ids, err := r.store.LRange(ctx, userUploadsKey(userID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("lrange user uploads %s: %w", userID, err)
	}
	if len(ids) == 0 {
		return []domupload.Upload{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = uploadKey(id)
	}
	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall uploads: %w", err)
	}

	uploads := make([]domupload.Upload, 0, len(results))
	for _, m := range results {
		if len(m) == 0 {
			continue
		}
		u, err := uploadFromHash(m)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}

	sort.Slice(uploads, func(i, j int) bool {
		return uploads[i].CreatedAt().After(uploads[j].CreatedAt())
	})
	return uploads, nil
}

// Chunks returns the upload's retrieval chunks in order.
func (r *Repo) Chunks(ctx context.Context, id string) ([]string, error) {
	chunks, err := r.store.LRange(ctx, chunksKey(id), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("lrange chunks %s: %w", id, err)
	}
	return chunks, nil
}

// DeleteByUser removes all of a user's uploads and their chunks.
func (r *Repo) DeleteByUser(ctx context.Context, userID string) error {
	ids, err := r.store.LRange(ctx, userUploadsKey(userID), 0, -1)
	if err != nil {
		return fmt.Errorf("lrange user uploads %s: %w", userID, err)
	}
	for _, id := range ids {
		if err := r.store.Del(ctx, uploadKey(id)); err != nil {
			return fmt.Errorf("del upload %s: %w", id, err)
		}
		if err := r.store.Del(ctx, chunksKey(id)); err != nil {
			return fmt.Errorf("del chunks %s: %w", id, err)
		}
	}
	if err := r.store.Del(ctx, userUploadsKey(userID)); err != nil {
		return fmt.Errorf("del user uploads %s: %w", userID, err)
	}
	return nil
}

func uploadKey(id string) string {
	return "tutorbase:upload:" + id
}

func chunksKey(id string) string {
	return "tutorbase:upload:" + id + ":chunks"
}

func userUploadsKey(userID string) string {
	return "tutorbase:uploads:" + userID
}
