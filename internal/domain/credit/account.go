package credit

import (
	"fmt"
	"time"

	"github.com/tutorbase/tutorbase/internal/clock"
)

// Account is a snapshot of one user's credit ledger entry. Counters are
// credits, not tokens; lastReset marks the UTC day start the daily counter
// belongs to.
type Account struct {
	userID    string
	usedToday int64
	totalUsed int64
	lastReset time.Time
}

// NewAccount creates a fresh account anchored to the current UTC day.
func NewAccount(userID string, now time.Time) (Account, error) {
	if userID == "" {
		return Account{}, fmt.Errorf("user id must not be empty")
	}
	return Account{
		userID:    userID,
		lastReset: clock.StartOfDay(now),
	}, nil
}

// Reconstruct rebuilds an account from stored state without validation.
func Reconstruct(userID string, usedToday, totalUsed int64, lastReset time.Time) Account {
	return Account{
		userID:    userID,
		usedToday: usedToday,
		totalUsed: totalUsed,
		lastReset: lastReset,
	}
}

// UserID returns the account owner.
func (a Account) UserID() string { return a.userID }

// UsedToday returns credits consumed in the current UTC day.
func (a Account) UsedToday() int64 { return a.usedToday }

// TotalUsed returns lifetime consumed credits.
func (a Account) TotalUsed() int64 { return a.totalUsed }

// LastReset returns the UTC day start the daily counter belongs to.
func (a Account) LastReset() time.Time { return a.lastReset }

// StaleAt reports whether the daily counter belongs to a day before now's.
func (a Account) StaleAt(now time.Time) bool {
	return a.lastReset.Before(clock.StartOfDay(now))
}

// WithReset returns a copy rolled over to now's UTC day with the daily
// counter cleared. The lifetime counter is untouched.
func (a Account) WithReset(now time.Time) Account {
	a.usedToday = 0
	a.lastReset = clock.StartOfDay(now)
	return a
}
