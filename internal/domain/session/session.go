package session

import (
	"fmt"
	"time"
)

// Role identifies the author of a message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a tutoring conversation.
type Message struct {
	role      Role
	content   string
	createdAt time.Time
}

// NewMessage creates a message.
func NewMessage(role Role, content string, createdAt time.Time) (Message, error) {
	if role != RoleUser && role != RoleAssistant {
		return Message{}, fmt.Errorf("unknown message role %q", role)
	}
	if content == "" {
		return Message{}, fmt.Errorf("message content must not be empty")
	}
	return Message{role: role, content: content, createdAt: createdAt.UTC()}, nil
}

// ReconstructMessage rebuilds a message from stored state.
func ReconstructMessage(role Role, content string, createdAt time.Time) Message {
	return Message{role: role, content: content, createdAt: createdAt}
}

// Role returns the message author.
func (m Message) Role() Role { return m.role }

// Content returns the message text.
func (m Message) Content() string { return m.content }

// CreatedAt returns when the message was produced.
func (m Message) CreatedAt() time.Time { return m.createdAt }

// Session is a tutoring conversation owned by one user.
type Session struct {
	id          string
	userID      string
	subject     string
	creditsUsed int64
	createdAt   time.Time
}

// New creates a session.
func New(id, userID, subject string, createdAt time.Time) (Session, error) {
	if id == "" || userID == "" {
		return Session{}, fmt.Errorf("session and user ids must not be empty")
	}
	if subject == "" {
		subject = "general"
	}
	return Session{id: id, userID: userID, subject: subject, createdAt: createdAt.UTC()}, nil
}

// Reconstruct rebuilds a session from stored state.
func Reconstruct(id, userID, subject string, creditsUsed int64, createdAt time.Time) Session {
	return Session{
		id:          id,
		userID:      userID,
		subject:     subject,
		creditsUsed: creditsUsed,
		createdAt:   createdAt,
	}
}

// ID returns the session id.
func (s Session) ID() string { return s.id }

// UserID returns the owning user.
func (s Session) UserID() string { return s.userID }

// Subject returns the tutoring subject.
func (s Session) Subject() string { return s.subject }

// CreditsUsed returns credits settled against this session.
func (s Session) CreditsUsed() int64 { return s.creditsUsed }

// CreatedAt returns when the session was opened.
func (s Session) CreatedAt() time.Time { return s.createdAt }
