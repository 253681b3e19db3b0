// Package admin implements whitelist and account administration.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tutorbase/tutorbase/internal/clock"
	"github.com/tutorbase/tutorbase/internal/domain"
	domuser "github.com/tutorbase/tutorbase/internal/domain/user"
)

// Filter narrows user listings.
type Filter string

// Listing filters.
const (
	FilterAll         Filter = ""
	FilterWhitelisted Filter = "whitelisted"
	FilterWaitlisted  Filter = "waitlisted"
)

// BulkResult reports a bulk whitelist outcome.
type BulkResult struct {
	Updated []string
	Missing []string
}

// Stats is the platform-wide summary.
type Stats struct {
	TotalUsers       int
	Whitelisted      int
	Admins           int
	CreditsUsedToday int64
	CreditsUsedTotal int64
}

// Page is one page of a user listing.
type Page struct {
	Users []domuser.User
	Total int
}

// Service handles administration operations.
type Service struct {
	users    Users
	accounts AccountReader
	ledger   AccountRemover
	sessions Cascader
	uploads  Cascader
	clk      clock.Clock
}

// New creates an admin service.
func New(users Users, accounts AccountReader, ledger AccountRemover,
	sessions, uploads Cascader, clk clock.Clock,
) *Service {
	return &Service{
		users:    users,
		accounts: accounts,
		ledger:   ledger,
		sessions: sessions,
		uploads:  uploads,
		clk:      clk,
	}
}

// SetWhitelist flips a user's whitelist flag by email.
func (s *Service) SetWhitelist(ctx context.Context, email string, allowed bool) (domuser.User, error) {
	u, err := s.users.GetByEmail(ctx, normalize(email))
	if err != nil {
		return domuser.User{}, fmt.Errorf("get user: %w", err)
	}
	updated := u.WithWhitelisted(allowed)
	if err := s.users.Update(ctx, updated); err != nil {
		return domuser.User{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

// BulkWhitelist whitelists every known email and reports the unknown ones.
func (s *Service) BulkWhitelist(ctx context.Context, emails []string) (BulkResult, error) {
	var res BulkResult
	for _, email := range emails {
		_, err := s.SetWhitelist(ctx, email, true)
		if errors.Is(err, domain.ErrUserNotFound) {
			res.Missing = append(res.Missing, normalize(email))
			continue
		}
		if err != nil {
			return BulkResult{}, err
		}
		res.Updated = append(res.Updated, normalize(email))
	}
	return res, nil
}

// SetAdmin grants admin rights by email.
func (s *Service) SetAdmin(ctx context.Context, email string) (domuser.User, error) {
	u, err := s.users.GetByEmail(ctx, normalize(email))
	if err != nil {
		return domuser.User{}, fmt.Errorf("get user: %w", err)
	}
	updated := u.WithAdmin(true)
	if err := s.users.Update(ctx, updated); err != nil {
		return domuser.User{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

// ListUsers returns one page of the user roster.
func (s *Service) ListUsers(ctx context.Context, filter Filter, page, limit int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	all, err := s.users.List(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("list users: %w", err)
	}

	filtered := all[:0:0]
	for _, u := range all {
		switch filter {
		case FilterWhitelisted:
			if !u.IsWhitelisted() {
				continue
			}
		case FilterWaitlisted:
			if u.IsWhitelisted() {
				continue
			}
		}
		filtered = append(filtered, u)
	}

	start := (page - 1) * limit
	if start >= len(filtered) {
		return Page{Users: []domuser.User{}, Total: len(filtered)}, nil
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return Page{Users: filtered[start:end], Total: len(filtered)}, nil
}

// GetStats aggregates user counts and credit usage across all accounts.
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list users: %w", err)
	}

	now := s.clk.Now()
	stats := Stats{TotalUsers: len(all)}
	for _, u := range all {
		if u.IsWhitelisted() {
			stats.Whitelisted++
		}
		if u.IsAdmin() {
			stats.Admins++
		}
		a, err := s.accounts.Read(ctx, u.ID(), now)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				continue
			}
			return Stats{}, fmt.Errorf("read account %s: %w", u.ID(), err)
		}
		stats.CreditsUsedToday += a.UsedToday()
		stats.CreditsUsedTotal += a.TotalUsed()
	}
	return stats, nil
}

// DeleteUser removes a user and everything hanging off them. Admins cannot
// delete themselves.
func (s *Service) DeleteUser(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return fmt.Errorf("admins cannot delete their own account: %w", domain.ErrInvalidUsage)
	}

	u, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if err := s.sessions.DeleteByUser(ctx, targetID); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	if err := s.uploads.DeleteByUser(ctx, targetID); err != nil {
		return fmt.Errorf("delete uploads: %w", err)
	}
	if err := s.ledger.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("delete credit account: %w", err)
	}
	if err := s.users.Delete(ctx, u); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
