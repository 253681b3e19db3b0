package session

import (
	"context"
	"fmt"
	"sort"

	"github.com/tutorbase/tutorbase/internal/domain"
	domsession "github.com/tutorbase/tutorbase/internal/domain/session"
)

// store is the consumer interface for sessions (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error)
	Del(ctx context.Context, key string) error
	RPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// Repo stores each session as a hash, its transcript as a list of JSON
// messages, and a per-user list of session ids for enumeration.
type Repo struct {
	store store
}

// New creates a session repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create stores a session and registers it under its owner.
func (r *Repo) Create(ctx context.Context, s domsession.Session) error {
	if err := r.store.HSet(ctx, sessionKey(s.ID()), sessionToHash(s)); err != nil {
		return fmt.Errorf("hset session %s: %w", s.ID(), err)
	}
	if err := r.store.RPush(ctx, userSessionsKey(s.UserID()), s.ID()); err != nil {
		return fmt.Errorf("rpush user sessions %s: %w", s.UserID(), err)
	}
	return nil
}

// Get retrieves a session by id.
func (r *Repo) Get(ctx context.Context, id string) (domsession.Session, error) {
	m, err := r.store.HGetAll(ctx, sessionKey(id))
	if err != nil {
		return domsession.Session{}, fmt.Errorf("hgetall session %s: %w", id, err)
	}
	if len(m) == 0 {
		return domsession.Session{}, domain.ErrSessionNotFound
	}
	return sessionFromHash(m)
}

// ListByUser returns a user's sessions, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]domsession.Session, error) {
	ids, err := r.store.LRange(ctx, userSessionsKey(userID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("lrange user sessions %s: %w", userID, err)
	}
	if len(ids) == 0 {
		return []domsession.Session{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = sessionKey(id)
	}
	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall sessions: %w", err)
	}

	sessions := make([]domsession.Session, 0, len(results))
	for _, m := range results {
		if len(m) == 0 {
			continue // session was deleted, id lingers in the list
		}
		s, err := sessionFromHash(m)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt().After(sessions[j].CreatedAt())
	})
	return sessions, nil
}

// AppendMessages adds conversation turns to the session transcript.
func (r *Repo) AppendMessages(ctx context.Context, id string, msgs ...domsession.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	rows := make([]string, len(msgs))
	for i, m := range msgs {
		row, err := messageToJSON(m)
		if err != nil {
			return err
		}
		rows[i] = row
	}
	if err := r.store.RPush(ctx, messagesKey(id), rows...); err != nil {
		return fmt.Errorf("rpush messages %s: %w", id, err)
	}
	return nil
}

// Messages returns the full transcript in order.
func (r *Repo) Messages(ctx context.Context, id string) ([]domsession.Message, error) {
	rows, err := r.store.LRange(ctx, messagesKey(id), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("lrange messages %s: %w", id, err)
	}
	msgs := make([]domsession.Message, len(rows))
	for i, row := range rows {
		m, err := messageFromJSON(row)
		if err != nil {
			return nil, err
		}
		msgs[i] = m
	}
	return msgs, nil
}

// AddCreditsUsed bumps the session's settled credit counter.
func (r *Repo) AddCreditsUsed(ctx context.Context, id string, credits int64) error {
	if _, err := r.store.HIncrBy(ctx, sessionKey(id), "credits_used", credits); err != nil {
		return fmt.Errorf("hincrby session %s credits_used: %w", id, err)
	}
	return nil
}

// DeleteByUser removes all of a user's sessions and transcripts.
func (r *Repo) DeleteByUser(ctx context.Context, userID string) error {
	ids, err := r.store.LRange(ctx, userSessionsKey(userID), 0, -1)
	if err != nil {
		return fmt.Errorf("lrange user sessions %s: %w", userID, err)
	}
	for _, id := range ids {
		if err := r.store.Del(ctx, sessionKey(id)); err != nil {
			return fmt.Errorf("del session %s: %w", id, err)
		}
		if err := r.store.Del(ctx, messagesKey(id)); err != nil {
			return fmt.Errorf("del messages %s: %w", id, err)
		}
	}
	if err := r.store.Del(ctx, userSessionsKey(userID)); err != nil {
		return fmt.Errorf("del user sessions %s: %w", userID, err)
	}
	return nil
}

func sessionKey(id string) string {
	return "tutorbase:session:" + id
}

func messagesKey(id string) string {
	return "tutorbase:session:" + id + ":messages"
}

func userSessionsKey(userID string) string {
	return "tutorbase:sessions:" + userID
}
