package credit

import (
	"context"
	"sync"
	"time"

	"github.com/tutorbase/tutorbase/internal/clock"
	"github.com/tutorbase/tutorbase/internal/domain"
	domcredit "github.com/tutorbase/tutorbase/internal/domain/credit"
)

// mockLedger implements Ledger with overridable functions.
type mockLedger struct {
	ensureFn    func(ctx context.Context, userID string, now time.Time) error
	readFn      func(ctx context.Context, userID string, now time.Time) (domcredit.Account, error)
	incrementFn func(ctx context.Context, userID string, credits int64, now time.Time) (int64, error)
}

func (m *mockLedger) Ensure(ctx context.Context, userID string, now time.Time) error {
	if m.ensureFn != nil {
		return m.ensureFn(ctx, userID, now)
	}
	return nil
}

func (m *mockLedger) Read(ctx context.Context, userID string, now time.Time) (domcredit.Account, error) {
	if m.readFn != nil {
		return m.readFn(ctx, userID, now)
	}
	return domcredit.Account{}, domain.ErrAccountNotFound
}

func (m *mockLedger) IncrementUsage(ctx context.Context, userID string, credits int64, now time.Time) (int64, error) {
	if m.incrementFn != nil {
		return m.incrementFn(ctx, userID, credits, now)
	}
	return credits, nil
}

// memLedger is a mutex-guarded in-memory ledger for flow and concurrency tests.
type memLedger struct {
	mu       sync.Mutex
	accounts map[string]*memAccount
}

type memAccount struct {
	usedToday int64
	totalUsed int64
	lastReset time.Time
}

func newMemLedger() *memLedger {
	return &memLedger{accounts: map[string]*memAccount{}}
}

func (l *memLedger) Ensure(_ context.Context, userID string, now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.accounts[userID]; !ok {
		l.accounts[userID] = &memAccount{lastReset: clock.StartOfDay(now)}
	}
	return nil
}

func (l *memLedger) Read(_ context.Context, userID string, now time.Time) (domcredit.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a := l.account(userID, now)
	l.rollover(a, now)
	return domcredit.Reconstruct(userID, a.usedToday, a.totalUsed, a.lastReset), nil
}

func (l *memLedger) IncrementUsage(_ context.Context, userID string, credits int64, now time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a := l.account(userID, now)
	l.rollover(a, now)
	a.usedToday += credits
	a.totalUsed += credits
	return a.usedToday, nil
}

// account returns the entry for userID, creating it on first access the
// way the real repository does.
func (l *memLedger) account(userID string, now time.Time) *memAccount {
	a, ok := l.accounts[userID]
	if !ok {
		a = &memAccount{lastReset: clock.StartOfDay(now)}
		l.accounts[userID] = a
	}
	return a
}

func (l *memLedger) rollover(a *memAccount, now time.Time) {
	if today := clock.StartOfDay(now); a.lastReset.Before(today) {
		a.usedToday = 0
		a.lastReset = today
	}
}
