package tutor

import (
	"context"

	"github.com/tutorbase/tutorbase/internal/domain"
	domsession "github.com/tutorbase/tutorbase/internal/domain/session"
	domuser "github.com/tutorbase/tutorbase/internal/domain/user"
	"github.com/tutorbase/tutorbase/internal/usecase/credit"
)

// UserReader reads users for whitelist checks and prompt personalization.
type UserReader interface {
	GetByID(ctx context.Context, id string) (domuser.User, error)
}

// Sessions defines the storage contract for tutoring sessions.
type Sessions interface {
	Create(ctx context.Context, s domsession.Session) error
	Get(ctx context.Context, id string) (domsession.Session, error)
	ListByUser(ctx context.Context, userID string) ([]domsession.Session, error)
	AppendMessages(ctx context.Context, id string, msgs ...domsession.Message) error
	Messages(ctx context.Context, id string) ([]domsession.Message, error)
	AddCreditsUsed(ctx context.Context, id string, credits int64) error
}

// Gate admits and settles credit spend.
type Gate interface {
	Check(ctx context.Context, userID string, estimatedTokens int64) (credit.Admission, error)
	Settle(ctx context.Context, userID string, actualTokens int64) (credit.Settlement, error)
}

// Completer produces chat completions.
type Completer interface {
	Complete(ctx context.Context, system string, msgs []domsession.Message) (domain.CompletionResult, error)
}
