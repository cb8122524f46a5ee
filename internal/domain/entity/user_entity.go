package entity

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxNameLength bounds first and last names.
const MaxNameLength = 50

var (
	ErrInvalidEmail        = errors.New("email is required")
	ErrInvalidName         = errors.New("first and last name are required and at most 50 characters")
	ErrInvalidPasswordHash = errors.New("password hash is required")
)

// User is the aggregate root for the identity domain.
// Fields are only reachable through accessors; state changes go through the
// named transitions below, each of which advances UpdatedAt.
type User struct {
	id              string
	email           string
	firstName       string
	lastName        string
	passwordHash    string
	role            Role
	isEmailVerified bool
	isActive        bool
	createdAt       time.Time
	updatedAt       time.Time
}

// UserSnapshot is the flat storage shape of a User.
type UserSnapshot struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	PasswordHash    string    `json:"password_hash"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"is_email_verified"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeName(name string) (string, bool) {
	n := strings.TrimSpace(name)
	if n == "" || utf8.RuneCountInString(n) > MaxNameLength {
		return "", false
	}
	return n, true
}

func now() time.Time { return time.Now().UTC() }

// NewUser creates a fully initialized user: fresh id, creation timestamps,
// normalized email and names, active and unverified.
// An empty role falls back to DefaultRole.
func NewUser(email, firstName, lastName, passwordHash string, role Role) (*User, error) {
	e := NormalizeEmail(email)
	if e == "" {
		return nil, ErrInvalidEmail
	}
	fn, ok := normalizeName(firstName)
	if !ok {
		return nil, ErrInvalidName
	}
	ln, ok := normalizeName(lastName)
	if !ok {
		return nil, ErrInvalidName
	}
	if passwordHash == "" {
		return nil, ErrInvalidPasswordHash
	}
	if role == "" {
		role = DefaultRole
	}
	ts := now()
	return &User{
		id:           uuid.NewString(),
		email:        e,
		firstName:    fn,
		lastName:     ln,
		passwordHash: passwordHash,
		role:         role,
		isActive:     true,
		createdAt:    ts,
		updatedAt:    ts,
	}, nil
}

// Restore rehydrates a user previously persisted by a repository.
func Restore(s UserSnapshot) *User {
	return &User{
		id:              s.ID,
		email:           NormalizeEmail(s.Email),
		firstName:       s.FirstName,
		lastName:        s.LastName,
		passwordHash:    s.PasswordHash,
		role:            Role(s.Role),
		isEmailVerified: s.IsEmailVerified,
		isActive:        s.IsActive,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
	}
}

// Snapshot returns the storage shape of u.
func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		ID:              u.id,
		Email:           u.email,
		FirstName:       u.firstName,
		LastName:        u.lastName,
		PasswordHash:    u.passwordHash,
		Role:            string(u.role),
		IsEmailVerified: u.isEmailVerified,
		IsActive:        u.isActive,
		CreatedAt:       u.createdAt,
		UpdatedAt:       u.updatedAt,
	}
}

func (u *User) ID() string { return u.id }
func (u *User) Email() string { return u.email }
func (u *User) FirstName() string { return u.firstName }
func (u *User) LastName() string { return u.lastName }
func (u *User) FullName() string { return u.firstName + " " + u.lastName }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() Role { return u.role }
func (u *User) IsEmailVerified() bool { return u.isEmailVerified }
func (u *User) IsActive() bool { return u.isActive }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// UpdateProfile replaces the first and last name.
func (u *User) UpdateProfile(firstName, lastName string) error {
	fn, ok := normalizeName(firstName)
	if !ok {
		return ErrInvalidName
	}
	ln, ok := normalizeName(lastName)
	if !ok {
		return ErrInvalidName
	}
	u.firstName, u.lastName = fn, ln
	u.touch()
	return nil
}

func (u *User) VerifyEmail() {
	u.isEmailVerified = true
	u.touch()
}

func (u *User) Activate() {
	u.isActive = true
	u.touch()
}

func (u *User) Deactivate() {
	u.isActive = false
	u.touch()
}

// RecordLogin marks the account as touched by a successful login.
func (u *User) RecordLogin() {
	u.touch()
}

// touch never moves UpdatedAt backwards, even when two transitions land in
// the same clock tick.
func (u *User) touch() {
	ts := now()
	if !ts.After(u.updatedAt) {
		ts = u.updatedAt.Add(time.Nanosecond)
	}
	u.updatedAt = ts
}
