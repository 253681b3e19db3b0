package auth

import (
	"context"

	domuser "github.com/tutorbase/tutorbase/internal/domain/user"
)

// Users defines the storage contract for accounts.
type Users interface {
	Create(ctx context.Context, u domuser.User) error
	GetByID(ctx context.Context, id string) (domuser.User, error)
	GetByEmail(ctx context.Context, email string) (domuser.User, error)
	GetByGoogleID(ctx context.Context, sub string) (domuser.User, error)
	Update(ctx context.Context, u domuser.User) error
}

// CreditOpener creates the credit account that backs a new user.
type CreditOpener interface {
	Ensure(ctx context.Context, userID string) error
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}
