package admin

import (
	"context"
	"time"

	domcredit "github.com/tutorbase/tutorbase/internal/domain/credit"
	domuser "github.com/tutorbase/tutorbase/internal/domain/user"
)

// Users defines the storage contract for account administration.
type Users interface {
	GetByID(ctx context.Context, id string) (domuser.User, error)
	GetByEmail(ctx context.Context, email string) (domuser.User, error)
	Update(ctx context.Context, u domuser.User) error
	List(ctx context.Context) ([]domuser.User, error)
	Delete(ctx context.Context, u domuser.User) error
}

// AccountReader reads credit accounts for usage stats.
type AccountReader interface {
	Read(ctx context.Context, userID string, now time.Time) (domcredit.Account, error)
}

// Cascader removes a user's dependent data.
type Cascader interface {
	DeleteByUser(ctx context.Context, userID string) error
}

// AccountRemover removes a user's credit account.
type AccountRemover interface {
	Delete(ctx context.Context, userID string) error
}
