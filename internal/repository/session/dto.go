package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	domsession "github.com/tutorbase/tutorbase/internal/domain/session"
)

// sessionToHash converts a domain Session to a map for HSET.
func sessionToHash(s domsession.Session) map[string]string {
	return map[string]string{
		"id":           s.ID(),
		"user_id":      s.UserID(),
		"subject":      s.Subject(),
		"credits_used": strconv.FormatInt(s.CreditsUsed(), 10),
		"created_at":   strconv.FormatInt(s.CreatedAt().UnixMilli(), 10),
	}
}

// sessionFromHash hydrates a domain Session from an HGETALL result map.
func sessionFromHash(m map[string]string) (domsession.Session, error) {
	id := m["id"]
	if id == "" {
		return domsession.Session{}, fmt.Errorf("session hash missing id")
	}
	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return domsession.Session{}, fmt.Errorf("invalid created_at: %w", err)
	}
	creditsUsed, _ := strconv.ParseInt(m["credits_used"], 10, 64)

	return domsession.Reconstruct(id, m["user_id"], m["subject"], creditsUsed,
		time.UnixMilli(createdAt).UTC()), nil
}

// messageRow is the JSON-serializable representation of a transcript turn.
type messageRow struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

func messageToJSON(m domsession.Message) (string, error) {
	data, err := json.Marshal(messageRow{
		Role:      string(m.Role()),
		Content:   m.Content(),
		CreatedAt: m.CreatedAt().UnixMilli(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal message: %w", err)
	}
	return string(data), nil
}

func messageFromJSON(raw string) (domsession.Message, error) {
	var row messageRow
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		return domsession.Message{}, fmt.Errorf("unmarshal message: %w", err)
	}
	return domsession.ReconstructMessage(domsession.Role(row.Role), row.Content,
		time.UnixMilli(row.CreatedAt).UTC()), nil
}
