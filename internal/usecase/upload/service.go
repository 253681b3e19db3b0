// Package upload manages study documents attached to user accounts.
package upload

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tutorbase/tutorbase/internal/clock"
	"github.com/tutorbase/tutorbase/internal/domain"
	domupload "github.com/tutorbase/tutorbase/internal/domain/upload"
)

// Repository defines the storage contract for uploads.
type Repository interface {
	Create(ctx context.Context, u domupload.Upload, chunks []string) error
	Get(ctx context.Context, id string) (domupload.Upload, error)
	ListByUser(ctx context.Context, userID string) ([]domupload.Upload, error)
	Chunks(ctx context.Context, id string) ([]string, error)
}

// Service handles document upload and retrieval.
type Service struct {
	repo     Repository
	chunker  Chunker
	maxBytes int64
	clk      clock.Clock
}

// New creates an upload service.
func New(repo Repository, chunker Chunker, maxBytes int64, clk clock.Clock) *Service {
	return &Service{repo: repo, chunker: chunker, maxBytes: maxBytes, clk: clk}
}

// Store chunks and persists a document for a user.
func (s *Service) Store(ctx context.Context, userID, filename string, content []byte) (domupload.Upload, error) {
	if int64(len(content)) > s.maxBytes {
		return domupload.Upload{}, fmt.Errorf("%d bytes exceeds the %d byte cap: %w",
			len(content), s.maxBytes, domain.ErrFileTooLarge)
	}
	if !utf8.Valid(content) {
		return domupload.Upload{}, fmt.Errorf("only text documents are accepted: %w", domain.ErrInvalidUsage)
	}

	chunks := s.chunker.Split(string(content))
	u, err := domupload.New(uuid.NewString(), userID, filename, int64(len(content)), len(chunks), s.clk.Now())
	if err != nil {
		return domupload.Upload{}, err
	}
	if err := s.repo.Create(ctx, u, chunks); err != nil {
		return domupload.Upload{}, fmt.Errorf("store upload: %w", err)
	}
	return u, nil
}

// List returns a user's uploads, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]domupload.Upload, error) {
	uploads, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	return uploads, nil
}

// Chunks returns the retrieval chunks of an upload the user owns.
func (s *Service) Chunks(ctx context.Context, userID, uploadID string) ([]string, error) {
	u, err := s.repo.Get(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	if u.UserID() != userID {
		return nil, domain.ErrUploadNotFound
	}
	chunks, err := s.repo.Chunks(ctx, uploadID)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	return chunks, nil
}
