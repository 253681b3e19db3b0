package user

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Profile holds the learning profile used to personalize tutoring.
type Profile struct {
	AcademicLevel   string
	SubjectInterest string
	LearningGoals   string
}

// Completed reports whether every profile field has been filled in.
func (p Profile) Completed() bool {
	return p.AcademicLevel != "" && p.SubjectInterest != "" && p.LearningGoals != ""
}

// User is a registered account. Either passwordHash or googleID is set,
// depending on the sign-up path.
type User struct {
	id            string
	email         string
	name          string
	passwordHash  string
	googleID      string
	profile       Profile
	isWhitelisted bool
	isAdmin       bool
	createdAt     time.Time
}

// New creates a user from a validated registration.
func New(id, email, name, passwordHash, googleID string, createdAt time.Time) (User, error) {
	if id == "" {
		return User{}, fmt.Errorf("user id must not be empty")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, fmt.Errorf("invalid email %q: %w", email, err)
	}
	if passwordHash == "" && googleID == "" {
		return User{}, fmt.Errorf("user needs a password hash or a google id")
	}
	return User{
		id:           id,
		email:        email,
		name:         strings.TrimSpace(name),
		passwordHash: passwordHash,
		googleID:     googleID,
		createdAt:    createdAt.UTC(),
	}, nil
}

// Reconstruct rebuilds a user from stored state without validation.
func Reconstruct(
	id, email, name, passwordHash, googleID string,
	isWhitelisted, isAdmin bool, createdAt time.Time,
) User {
	return User{
		id:            id,
		email:         email,
		name:          name,
		passwordHash:  passwordHash,
		googleID:      googleID,
		isWhitelisted: isWhitelisted,
		isAdmin:       isAdmin,
		createdAt:     createdAt,
	}
}

// ID returns the user id.
func (u User) ID() string { return u.id }

// Email returns the normalized email address.
func (u User) Email() string { return u.email }

// Name returns the display name.
func (u User) Name() string { return u.name }

// PasswordHash returns the bcrypt hash, empty for google-only accounts.
func (u User) PasswordHash() string { return u.passwordHash }

// GoogleID returns the google subject id, empty for password accounts.
func (u User) GoogleID() string { return u.googleID }

// Profile returns the learning profile, zero until completed.
func (u User) Profile() Profile { return u.profile }

// IsWhitelisted reports whether the user may use the tutor.
func (u User) IsWhitelisted() bool { return u.isWhitelisted }

// IsAdmin reports whether the user holds admin rights.
func (u User) IsAdmin() bool { return u.isAdmin }

// CreatedAt returns the registration time.
func (u User) CreatedAt() time.Time { return u.createdAt }

// WithWhitelisted returns a copy with the whitelist flag set.
func (u User) WithWhitelisted(v bool) User {
	u.isWhitelisted = v
	return u
}

// WithAdmin returns a copy with the admin flag set.
func (u User) WithAdmin(v bool) User {
	u.isAdmin = v
	return u
}

// WithName returns a copy with the display name set.
func (u User) WithName(name string) User {
	u.name = name
	return u
}

// WithProfile returns a copy with the learning profile set.
func (u User) WithProfile(p Profile) User {
	u.profile = Profile{
		AcademicLevel:   strings.TrimSpace(p.AcademicLevel),
		SubjectInterest: strings.TrimSpace(p.SubjectInterest),
		LearningGoals:   strings.TrimSpace(p.LearningGoals),
	}
	return u
}

// WithGoogleID returns a copy linked to a google subject id.
func (u User) WithGoogleID(sub string) User {
	u.googleID = sub
	return u
}
