package user

import (
	"fmt"
	"strconv"
	"time"

	domuser "github.com/tutorbase/tutorbase/internal/domain/user"
)

// userToHash converts a domain User to a map for HSET.
func userToHash(u domuser.User) map[string]string {
	return map[string]string{
		"id":               u.ID(),
		"email":            u.Email(),
		"name":             u.Name(),
		"password_hash":    u.PasswordHash(),
		"google_id":        u.GoogleID(),
		"academic_level":   u.Profile().AcademicLevel,
		"subject_interest": u.Profile().SubjectInterest,
		"learning_goals":   u.Profile().LearningGoals,
		"is_whitelisted":   strconv.FormatBool(u.IsWhitelisted()),
		"is_admin":         strconv.FormatBool(u.IsAdmin()),
		"created_at":       strconv.FormatInt(u.CreatedAt().UnixMilli(), 10),
	}
}

// userFromHash hydrates a domain User from an HGETALL result map.
func userFromHash(m map[string]string) (domuser.User, error) {
	id := m["id"]
	if id == "" {
		return domuser.User{}, fmt.Errorf("user hash missing id")
	}

	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return domuser.User{}, fmt.Errorf("invalid created_at: %w", err)
	}

	whitelisted, _ := strconv.ParseBool(m["is_whitelisted"])
	admin, _ := strconv.ParseBool(m["is_admin"])

	u := domuser.Reconstruct(
		id, m["email"], m["name"], m["password_hash"], m["google_id"],
		whitelisted, admin, time.UnixMilli(createdAt).UTC(),
	)
	return u.WithProfile(domuser.Profile{
		AcademicLevel:   m["academic_level"],
		SubjectInterest: m["subject_interest"],
		LearningGoals:   m["learning_goals"],
	}), nil
}
