// Package tutor runs credit-gated tutoring conversations.
package tutor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tutorbase/tutorbase/internal/clock"
	"github.com/tutorbase/tutorbase/internal/domain"
	domsession "github.com/tutorbase/tutorbase/internal/domain/session"
	domuser "github.com/tutorbase/tutorbase/internal/domain/user"
	"github.com/tutorbase/tutorbase/internal/metrics"
)

// Answer is the tutor's reply with its credit accounting.
type Answer struct {
	Content        string
	TokensUsed     int
	CreditsCharged int64
	UsedToday      int64
	Remaining      int64
}

// Service handles tutoring sessions and the ask flow.
type Service struct {
	users           UserReader
	sessions        Sessions
	gate            Gate
	completer       Completer
	clk             clock.Clock
	estimatedTokens int64
}

// New creates a tutor service. estimatedTokens is the admission estimate
// for one ask.
func New(users UserReader, sessions Sessions, gate Gate, completer Completer,
	clk clock.Clock, estimatedTokens int64,
) *Service {
	return &Service{
		users:           users,
		sessions:        sessions,
		gate:            gate,
		completer:       completer,
		clk:             clk,
		estimatedTokens: estimatedTokens,
	}
}

// NewSession opens a tutoring session for a whitelisted user.
func (s *Service) NewSession(ctx context.Context, userID, subject string) (domsession.Session, error) {
	if _, err := s.requireWhitelisted(ctx, userID); err != nil {
		return domsession.Session{}, err
	}

	sess, err := domsession.New(uuid.NewString(), userID, subject, s.clk.Now())
	if err != nil {
		return domsession.Session{}, err
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return domsession.Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// Ask runs one tutoring turn: admission check, completion, settlement of
// the actual token spend, transcript append.
func (s *Service) Ask(ctx context.Context, userID, sessionID, question string) (Answer, error) {
	u, err := s.requireWhitelisted(ctx, userID)
	if err != nil {
		return Answer{}, err
	}
	sess, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return Answer{}, err
	}

	if _, err := s.gate.Check(ctx, userID, s.estimatedTokens); err != nil {
		metrics.CreditAdmissionsTotal.WithLabelValues("rejected").Inc()
		return Answer{}, err
	}
	metrics.CreditAdmissionsTotal.WithLabelValues("admitted").Inc()

	transcript, err := s.sessions.Messages(ctx, sessionID)
	if err != nil {
		return Answer{}, fmt.Errorf("load transcript: %w", err)
	}

	now := s.clk.Now()
	q, err := domsession.NewMessage(domsession.RoleUser, question, now)
	if err != nil {
		return Answer{}, err
	}

	// The provider is called before anything is debited: a failed
	// completion performed no work and must cost nothing.
	res, err := s.completer.Complete(ctx, systemPrompt(u, sess.Subject()), append(transcript, q))
	if err != nil {
		return Answer{}, err
	}

	settlement, err := s.gate.Settle(ctx, userID, int64(res.TotalTokens))
	if err != nil {
		return Answer{}, err
	}
	metrics.CreditsSettledTotal.Add(float64(settlement.CreditsCharged))

	reply, err := domsession.NewMessage(domsession.RoleAssistant, res.Content, s.clk.Now())
	if err != nil {
		return Answer{}, err
	}
	if err := s.sessions.AppendMessages(ctx, sessionID, q, reply); err != nil {
		return Answer{}, fmt.Errorf("append transcript: %w", err)
	}
	if err := s.sessions.AddCreditsUsed(ctx, sessionID, settlement.CreditsCharged); err != nil {
		return Answer{}, fmt.Errorf("record session spend: %w", err)
	}

	return Answer{
		Content:        res.Content,
		TokensUsed:     res.TotalTokens,
		CreditsCharged: settlement.CreditsCharged,
		UsedToday:      settlement.UsedToday,
		Remaining:      settlement.Remaining,
	}, nil
}

// recentSessionLimit caps the session listing.
const recentSessionLimit = 10

// Sessions lists a user's most recent sessions, newest first.
func (s *Service) Sessions(ctx context.Context, userID string) ([]domsession.Session, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) > recentSessionLimit {
		sessions = sessions[:recentSessionLimit]
	}
	return sessions, nil
}

// Transcript returns the conversation of a session the user owns.
func (s *Service) Transcript(ctx context.Context, userID, sessionID string) ([]domsession.Message, error) {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	msgs, err := s.sessions.Messages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	return msgs, nil
}

func (s *Service) requireWhitelisted(ctx context.Context, userID string) (domuser.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domuser.User{}, fmt.Errorf("get user: %w", err)
	}
	if !u.IsWhitelisted() {
		return domuser.User{}, domain.ErrNotWhitelisted
	}
	return u, nil
}

// ownedSession loads a session and hides other users' sessions behind
// not-found.
func (s *Service) ownedSession(ctx context.Context, userID, sessionID string) (domsession.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domsession.Session{}, err
	}
	if sess.UserID() != userID {
		return domsession.Session{}, domain.ErrSessionNotFound
	}
	return sess, nil
}

// systemPrompt personalizes the tutor instructions from the user's learning
// profile, falling back to neutral defaults while the profile is empty.
func systemPrompt(u domuser.User, subject string) string {
	p := u.Profile()
	level := orDefault(p.AcademicLevel, "intermediate")
	interest := orDefault(p.SubjectInterest, "general")
	goals := orDefault(p.LearningGoals, "improve understanding")

	return fmt.Sprintf("You are a patient, encouraging tutor helping a %s-level student "+
		"with %s. The student is mainly interested in %s and wants to %s. "+
		"Explain concepts step by step, check understanding with short questions, "+
		"and never just hand over final answers to homework problems.",
		level, subject, interest, goals)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
