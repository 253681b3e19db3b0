package credit

import (
	"context"
	"time"

	domcredit "github.com/tutorbase/tutorbase/internal/domain/credit"
)

// Ledger is the persistence port for credit accounts.
type Ledger interface {
	// Ensure creates the account if missing. Idempotent.
	Ensure(ctx context.Context, userID string, now time.Time) error
	// Read returns the account as of now, daily counter rolled over.
	Read(ctx context.Context, userID string, now time.Time) (domcredit.Account, error)
	// IncrementUsage debits credits and returns the new daily counter.
	IncrementUsage(ctx context.Context, userID string, credits int64, now time.Time) (int64, error)
}
