package credit

import (
	"context"
	"fmt"

	"github.com/tutorbase/tutorbase/internal/clock"
	"github.com/tutorbase/tutorbase/internal/domain"
	domcredit "github.com/tutorbase/tutorbase/internal/domain/credit"
)

// Admission is the outcome of an admission check.
type Admission struct {
	Admitted  bool
	Remaining int64
	Required  int64
}

// Settlement is the outcome of charging actual usage.
type Settlement struct {
	CreditsCharged int64
	UsedToday      int64
	Remaining      int64
}

// Status is a user-facing snapshot of the credit account.
type Status struct {
	UsedToday  int64
	TotalUsed  int64
	DailyLimit int64
	Remaining  int64
	NextReset  int64 // unix millis
}

// Gate admits work against the daily allowance and settles what it actually
// cost. Admission is advisory: nothing is debited until Settle, so a request
// admitted near the limit may overdraw the day by its final credit cost.
type Gate struct {
	ledger Ledger
	policy domcredit.Policy
	clk    clock.Clock
}

// NewGate creates a credit gate.
func NewGate(ledger Ledger, policy domcredit.Policy, clk clock.Clock) *Gate {
	return &Gate{ledger: ledger, policy: policy, clk: clk}
}

// Policy returns the gate's accounting rules.
func (g *Gate) Policy() domcredit.Policy { return g.policy }

// Ensure creates the user's account if missing.
func (g *Gate) Ensure(ctx context.Context, userID string) error {
	return g.ledger.Ensure(ctx, userID, g.clk.Now())
}

// Check decides whether an estimated token spend may proceed. A rejection
// carries the shortfall as an error alongside the decision.
func (g *Gate) Check(ctx context.Context, userID string, estimatedTokens int64) (Admission, error) {
	now := g.clk.Now()
	a, err := g.ledger.Read(ctx, userID, now)
	if err != nil {
		return Admission{}, fmt.Errorf("read account: %w", err)
	}

	remaining := g.policy.Remaining(a)
	required := g.policy.TokensToCredits(estimatedTokens)
	if required > remaining {
		return Admission{Admitted: false, Remaining: remaining, Required: required},
			domain.NewInsufficientCredits(remaining, required)
	}
	return Admission{Admitted: true, Remaining: remaining, Required: required}, nil
}

// Settle charges the actual token usage of completed work. Zero usage is a
// valid report and debits nothing: aborted work costs nothing.
func (g *Gate) Settle(ctx context.Context, userID string, actualTokens int64) (Settlement, error) {
	if actualTokens < 0 {
		return Settlement{}, fmt.Errorf("negative token usage %d: %w", actualTokens, domain.ErrInvalidUsage)
	}

	now := g.clk.Now()
	if actualTokens == 0 {
		a, err := g.ledger.Read(ctx, userID, now)
		if err != nil {
			return Settlement{}, fmt.Errorf("read account: %w", err)
		}
		return Settlement{
			CreditsCharged: 0,
			UsedToday:      a.UsedToday(),
			Remaining:      g.policy.Remaining(a),
		}, nil
	}

	credits := g.policy.TokensToCredits(actualTokens)
	usedToday, err := g.ledger.IncrementUsage(ctx, userID, credits, now)
	if err != nil {
		return Settlement{}, fmt.Errorf("debit %d credits: %w", credits, err)
	}

	remaining := g.policy.DailyLimit() - usedToday
	if remaining < 0 {
		remaining = 0
	}
	return Settlement{CreditsCharged: credits, UsedToday: usedToday, Remaining: remaining}, nil
}

// Status returns the account snapshot for the current UTC day.
func (g *Gate) Status(ctx context.Context, userID string) (Status, error) {
	now := g.clk.Now()
	a, err := g.ledger.Read(ctx, userID, now)
	if err != nil {
		return Status{}, fmt.Errorf("read account: %w", err)
	}
	return Status{
		UsedToday:  a.UsedToday(),
		TotalUsed:  a.TotalUsed(),
		DailyLimit: g.policy.DailyLimit(),
		Remaining:  g.policy.Remaining(a),
		NextReset:  clock.NextReset(now).UnixMilli(),
	}, nil
}
