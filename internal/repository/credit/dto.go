package credit

import (
	"fmt"
	"strconv"
	"time"

	domcredit "github.com/tutorbase/tutorbase/internal/domain/credit"
)

// Hash field names of an account key.
const (
	fieldUserID    = "user_id"
	fieldUsedToday = "used_today"
	fieldTotalUsed = "total_used"
	fieldLastReset = "last_reset"
)

// accountFromHash hydrates an account from an HGETALL result map.
func accountFromHash(m map[string]string) (domcredit.Account, error) {
	userID := m[fieldUserID]
	if userID == "" {
		return domcredit.Account{}, fmt.Errorf("account hash missing %s", fieldUserID)
	}

	usedToday, err := parseCounter(m, fieldUsedToday)
	if err != nil {
		return domcredit.Account{}, err
	}
	totalUsed, err := parseCounter(m, fieldTotalUsed)
	if err != nil {
		return domcredit.Account{}, err
	}
	lastResetMs, err := parseCounter(m, fieldLastReset)
	if err != nil {
		return domcredit.Account{}, err
	}

	return domcredit.Reconstruct(userID, usedToday, totalUsed, time.UnixMilli(lastResetMs).UTC()), nil
}

func parseCounter(m map[string]string, field string) (int64, error) {
	raw, ok := m[field]
	if !ok || raw == "" {
		return 0, nil
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", field, err)
	}
	return val, nil
}
