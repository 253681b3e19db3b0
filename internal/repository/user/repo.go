package user

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/tutorbase/tutorbase/internal/db"
	"github.com/tutorbase/tutorbase/internal/domain"
	domuser "github.com/tutorbase/tutorbase/internal/domain/user"
)

// store is the consumer interface for users (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
}

// Repo implements usecase user repositories: a hash per user plus unique
// lookup keys for email and google subject.
type Repo struct {
	store store
}

// New creates a user repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create stores a user. The email index key is claimed first with SET NX,
// so duplicate registrations lose before any hash is written. On a later
// write failure the claimed index is released.
func (r *Repo) Create(ctx context.Context, u domuser.User) error {
	claimed, err := r.store.SetNX(ctx, emailKey(u.Email()), []byte(u.ID()))
	if err != nil {
		return fmt.Errorf("claim email %s: %w", u.Email(), err)
	}
	if !claimed {
		return domain.ErrEmailTaken
	}

	if err := r.store.HSet(ctx, userKey(u.ID()), userToHash(u)); err != nil {
		cleanupErr := r.store.Del(ctx, emailKey(u.Email()))
		return errors.Join(fmt.Errorf("hset user %s: %w", u.ID(), err), cleanupErr)
	}

	if u.GoogleID() != "" {
		if err := r.store.Set(ctx, googleKey(u.GoogleID()), []byte(u.ID())); err != nil {
			return fmt.Errorf("set google index %s: %w", u.ID(), err)
		}
	}
	return nil
}

// GetByID retrieves a user by id.
func (r *Repo) GetByID(ctx context.Context, id string) (domuser.User, error) {
	m, err := r.store.HGetAll(ctx, userKey(id))
	if err != nil {
		return domuser.User{}, fmt.Errorf("hgetall user %s: %w", id, err)
	}
	if len(m) == 0 {
		return domuser.User{}, domain.ErrUserNotFound
	}
	return userFromHash(m)
}

// GetByEmail retrieves a user through the email index.
func (r *Repo) GetByEmail(ctx context.Context, email string) (domuser.User, error) {
	id, err := r.store.Get(ctx, emailKey(email))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domuser.User{}, domain.ErrUserNotFound
		}
		return domuser.User{}, fmt.Errorf("get email index %s: %w", email, err)
	}
	return r.GetByID(ctx, string(id))
}

// GetByGoogleID retrieves a user through the google subject index.
func (r *Repo) GetByGoogleID(ctx context.Context, sub string) (domuser.User, error) {
	id, err := r.store.Get(ctx, googleKey(sub))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domuser.User{}, domain.ErrUserNotFound
		}
		return domuser.User{}, fmt.Errorf("get google index: %w", err)
	}
	return r.GetByID(ctx, string(id))
}

// Update rewrites the user hash and keeps the google index in step.
func (r *Repo) Update(ctx context.Context, u domuser.User) error {
	if err := r.store.HSet(ctx, userKey(u.ID()), userToHash(u)); err != nil {
		return fmt.Errorf("hset user %s: %w", u.ID(), err)
	}
	if u.GoogleID() != "" {
		if err := r.store.Set(ctx, googleKey(u.GoogleID()), []byte(u.ID())); err != nil {
			return fmt.Errorf("set google index %s: %w", u.ID(), err)
		}
	}
	return nil
}

// List returns all users sorted by registration time.
func (r *Repo) List(ctx context.Context) ([]domuser.User, error) {
	keys, err := r.store.Scan(ctx, userKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	if len(keys) == 0 {
		return []domuser.User{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall users: %w", err)
	}

	users := make([]domuser.User, 0, len(results))
	for _, m := range results {
		if len(m) == 0 {
			continue
		}
		u, err := userFromHash(m)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt().Before(users[j].CreatedAt())
	})
	return users, nil
}

// Delete removes the user and its lookup keys.
func (r *Repo) Delete(ctx context.Context, u domuser.User) error {
	if err := r.store.Del(ctx, userKey(u.ID())); err != nil {
		return fmt.Errorf("del user %s: %w", u.ID(), err)
	}
	if err := r.store.Del(ctx, emailKey(u.Email())); err != nil {
		return fmt.Errorf("del email index %s: %w", u.Email(), err)
	}
	if u.GoogleID() != "" {
		if err := r.store.Del(ctx, googleKey(u.GoogleID())); err != nil {
			return fmt.Errorf("del google index: %w", err)
		}
	}
	return nil
}

func userKey(id string) string {
	return "tutorbase:user:" + id
}

// Index keys live under their own prefix so the user SCAN pattern never
// picks them up.
func emailKey(email string) string {
	return "tutorbase:idx:email:" + email
}

func googleKey(sub string) string {
	return "tutorbase:idx:google:" + sub
}
