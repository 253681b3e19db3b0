// Package auth implements registration, login and google sign-in.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tutorbase/tutorbase/internal/clock"
	"github.com/tutorbase/tutorbase/internal/domain"
	domuser "github.com/tutorbase/tutorbase/internal/domain/user"
)

const minPasswordLen = 8

// Session is an authenticated user with their access token.
type Session struct {
	User  domuser.User
	Token string
}

// Service handles account lifecycle and authentication.
type Service struct {
	users   Users
	credits CreditOpener
	tokens  TokenIssuer
	clk     clock.Clock
}

// New creates an auth service.
func New(users Users, credits CreditOpener, tokens TokenIssuer, clk clock.Clock) *Service {
	return &Service{users: users, credits: credits, tokens: tokens, clk: clk}
}

// Register creates a password account and opens its credit ledger entry.
func (s *Service) Register(ctx context.Context, email, password, name string) (Session, error) {
	if len(password) < minPasswordLen {
		return Session{}, fmt.Errorf("password must be at least %d characters: %w",
			minPasswordLen, domain.ErrInvalidCredentials)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := domuser.New(uuid.NewString(), email, name, string(hash), "", s.clk.Now())
	if err != nil {
		return Session{}, err
	}
	return s.enroll(ctx, u)
}

// Login authenticates a password account.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return Session{}, domain.ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("get user: %w", err)
	}
	if u.PasswordHash() == "" {
		return Session{}, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(password)) != nil {
		return Session{}, domain.ErrInvalidCredentials
	}
	return s.session(u)
}

// GoogleLogin signs a verified google identity in, linking or creating the
// account as needed.
func (s *Service) GoogleLogin(ctx context.Context, sub, email, name string) (Session, error) {
	if sub == "" {
		return Session{}, domain.ErrInvalidCredentials
	}

	u, err := s.users.GetByGoogleID(ctx, sub)
	if err == nil {
		return s.session(u)
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return Session{}, fmt.Errorf("get by google id: %w", err)
	}

	// An existing password account with this email gets linked.
	u, err = s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err == nil {
		linked := u.WithGoogleID(sub)
		if err := s.users.Update(ctx, linked); err != nil {
			return Session{}, fmt.Errorf("link google account: %w", err)
		}
		return s.session(linked)
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return Session{}, fmt.Errorf("get by email: %w", err)
	}

	u, err = domuser.New(uuid.NewString(), email, name, "", sub, s.clk.Now())
	if err != nil {
		return Session{}, err
	}
	return s.enroll(ctx, u)
}

// Profile returns the user behind an authenticated request.
func (s *Service) Profile(ctx context.Context, userID string) (domuser.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domuser.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdateProfile fills in the learning profile and optionally renames the
// user. The profile feeds tutoring prompt personalization, so all three of
// its fields must be present.
func (s *Service) UpdateProfile(ctx context.Context, userID, name string, p domuser.Profile) (domuser.User, error) {
	if !p.Completed() {
		return domuser.User{}, fmt.Errorf("incomplete profile: %w", domain.ErrInvalidUsage)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domuser.User{}, fmt.Errorf("get user: %w", err)
	}
	u = u.WithProfile(p)
	if name != "" {
		u = u.WithName(name)
	}
	if err := s.users.Update(ctx, u); err != nil {
		return domuser.User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (s *Service) enroll(ctx context.Context, u domuser.User) (Session, error) {
	if err := s.users.Create(ctx, u); err != nil {
		return Session{}, err
	}
	if err := s.credits.Ensure(ctx, u.ID()); err != nil {
		return Session{}, fmt.Errorf("open credit account: %w", err)
	}
	return s.session(u)
}

func (s *Service) session(u domuser.User) (Session, error) {
	token, err := s.tokens.Issue(u.ID())
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{User: u, Token: token}, nil
}
