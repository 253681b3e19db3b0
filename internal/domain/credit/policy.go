package credit

import "fmt"

// Policy holds the conversion and allowance rules for credit accounting.
type Policy struct {
	dailyLimit      int64
	tokensPerCredit int64
}

// NewPolicy creates a policy. Both parameters must be positive.
func NewPolicy(dailyLimit, tokensPerCredit int64) (Policy, error) {
	if dailyLimit <= 0 {
		return Policy{}, fmt.Errorf("daily limit must be positive, got %d", dailyLimit)
	}
	if tokensPerCredit <= 0 {
		return Policy{}, fmt.Errorf("tokens per credit must be positive, got %d", tokensPerCredit)
	}
	return Policy{dailyLimit: dailyLimit, tokensPerCredit: tokensPerCredit}, nil
}

// DailyLimit returns the per-day credit allowance.
func (p Policy) DailyLimit() int64 { return p.dailyLimit }

// TokensPerCredit returns the token-to-credit divisor.
func (p Policy) TokensPerCredit() int64 { return p.tokensPerCredit }

// TokensToCredits converts a token count to credits, rounding down but
// never below one: any nonzero-or-zero usage costs at least one credit.
func (p Policy) TokensToCredits(tokens int64) int64 {
	credits := tokens / p.tokensPerCredit
	if credits < 1 {
		return 1
	}
	return credits
}

// Remaining returns how many credits the account may still spend today,
// clamped at zero when overdrafted.
func (p Policy) Remaining(a Account) int64 {
	rem := p.dailyLimit - a.UsedToday()
	if rem < 0 {
		return 0
	}
	return rem
}

// CanAdmit reports whether today's remaining allowance covers an estimated
// token spend.
func (p Policy) CanAdmit(a Account, estimatedTokens int64) bool {
	return p.Remaining(a) >= p.TokensToCredits(estimatedTokens)
}
