package credit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tutorbase/tutorbase/internal/clock"
	"github.com/tutorbase/tutorbase/internal/domain"
	domcredit "github.com/tutorbase/tutorbase/internal/domain/credit"
)

// maxConflictRetries bounds retries on concurrent ledger collisions.
const maxConflictRetries = 3

// store is the consumer interface for credit accounts (ISP).
type store interface {
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error)
	HSetIfLess(ctx context.Context, key, guardField string, guard int64, set map[string]string) (bool, error)
	Del(ctx context.Context, key string) error
}

// Repo implements usecase/credit.Ledger on a hash per account.
// used_today and total_used move via HINCRBY; the daily rollover is a
// guarded server-side update keyed on last_reset, so concurrent writers
// reset a day at most once.
type Repo struct {
	store store
}

// New creates a credit ledger repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Ensure creates the account if it does not exist yet. Field-level HSETNX
// makes the call idempotent and safe under concurrent creation.
func (r *Repo) Ensure(ctx context.Context, userID string, now time.Time) error {
	a, err := domcredit.NewAccount(userID, now)
	if err != nil {
		return err
	}

	key := accountKey(userID)
	for field, value := range accountToFields(a) {
		if _, err := r.store.HSetNX(ctx, key, field, value); err != nil {
			return fmt.Errorf("hsetnx account %s %s: %w", userID, field, err)
		}
	}
	return nil
}

// Read returns the account state as of now, rolling the daily counter over
// first when its day has passed. A missing account is created on first
// access, so enrollment-time creation is an optimization, not a dependency.
func (r *Repo) Read(ctx context.Context, userID string, now time.Time) (domcredit.Account, error) {
	a, err := r.readEnsuring(ctx, userID, now)
	if err != nil {
		return domcredit.Account{}, err
	}
	if !a.StaleAt(now) {
		return a, nil
	}

	applied, err := r.reset(ctx, userID, now)
	if err != nil {
		return domcredit.Account{}, err
	}
	if applied {
		return a.WithReset(now), nil
	}
	// Someone else rolled the day over first; pick up their counter.
	return r.read(ctx, userID)
}

// IncrementUsage debits credits against the current day and returns the new
// daily counter. The day boundary is re-evaluated before the debit, and the
// whole step retries on write conflicts.
func (r *Repo) IncrementUsage(ctx context.Context, userID string, credits int64, now time.Time) (int64, error) {
	if credits < 0 {
		return 0, domain.ErrInvalidUsage
	}

	var lastErr error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		usedToday, err := r.increment(ctx, userID, credits, now)
		if err == nil {
			return usedToday, nil
		}
		if !errors.Is(err, domain.ErrWriteConflict) {
			return 0, err
		}
		lastErr = err
	}
	return 0, fmt.Errorf("increment usage for %s: retries exhausted: %w", userID, lastErr)
}

// Delete removes the account. Used by the admin cascade.
func (r *Repo) Delete(ctx context.Context, userID string) error {
	if err := r.store.Del(ctx, accountKey(userID)); err != nil {
		return fmt.Errorf("del account %s: %w", userID, err)
	}
	return nil
}

func (r *Repo) increment(ctx context.Context, userID string, credits int64, now time.Time) (int64, error) {
	a, err := r.readEnsuring(ctx, userID, now)
	if err != nil {
		return 0, err
	}
	if a.StaleAt(now) {
		if _, err := r.reset(ctx, userID, now); err != nil {
			return 0, err
		}
	}

	key := accountKey(userID)
	usedToday, err := r.store.HIncrBy(ctx, key, fieldUsedToday, credits)
	if err != nil {
		return 0, fmt.Errorf("hincrby %s %s: %w", userID, fieldUsedToday, err)
	}
	if _, err := r.store.HIncrBy(ctx, key, fieldTotalUsed, credits); err != nil {
		return 0, fmt.Errorf("hincrby %s %s: %w", userID, fieldTotalUsed, err)
	}
	return usedToday, nil
}

// readEnsuring reads the account, creating it on first access. Ensure
// rejects an empty user id, so ErrAccountNotFound is left for ids that
// cannot name an account at all.
func (r *Repo) readEnsuring(ctx context.Context, userID string, now time.Time) (domcredit.Account, error) {
	a, err := r.read(ctx, userID)
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return a, err
	}
	if err := r.Ensure(ctx, userID, now); err != nil {
		return domcredit.Account{}, err
	}
	return r.read(ctx, userID)
}

func (r *Repo) read(ctx context.Context, userID string) (domcredit.Account, error) {
	m, err := r.store.HGetAll(ctx, accountKey(userID))
	if err != nil {
		return domcredit.Account{}, fmt.Errorf("hgetall account %s: %w", userID, err)
	}
	if len(m) == 0 {
		return domcredit.Account{}, domain.ErrAccountNotFound
	}
	return accountFromHash(m)
}

// reset advances last_reset to now's day and zeroes the daily counter, but
// only while the stored day is behind. Reports whether this call applied it.
func (r *Repo) reset(ctx context.Context, userID string, now time.Time) (bool, error) {
	today := clock.StartOfDay(now).UnixMilli()
	applied, err := r.store.HSetIfLess(ctx, accountKey(userID), fieldLastReset, today,
		map[string]string{fieldUsedToday: "0"})
	if err != nil {
		return false, fmt.Errorf("reset account %s: %w", userID, err)
	}
	return applied, nil
}

func accountKey(userID string) string {
	return "tutorbase:credit:" + userID
}

func accountToFields(a domcredit.Account) map[string]string {
	return map[string]string{
		fieldUserID:    a.UserID(),
		fieldUsedToday: strconv.FormatInt(a.UsedToday(), 10),
		fieldTotalUsed: strconv.FormatInt(a.TotalUsed(), 10),
		fieldLastReset: strconv.FormatInt(a.LastReset().UnixMilli(), 10),
	}
}
