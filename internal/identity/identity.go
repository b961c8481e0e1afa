// Package identity models the guest identity that persists across
// reconnects: a stable UUID, a long-lived auth token, and an optional
// claimed username.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Guest is one player's persistent identity, independent of any single
// socket connection or room membership.
type Guest struct {
	ID          uuid.UUID
	DisplayName string
	Username    *string // nil until claimed; globally unique when set
	Token       string
	CreatedAt   time.Time
}

// Store persists and looks up guests. Implementations must enforce
// username uniqueness themselves.
type Store interface {
	CreateGuest(ctx context.Context, g Guest) error
	GuestByToken(ctx context.Context, token string) (*Guest, error)
	ClaimUsername(ctx context.Context, id uuid.UUID, username string) error
}

// ErrNotFound is returned by GuestByToken when no guest owns the token.
var ErrNotFound = errors.New("identity: guest not found")

// ErrUsernameTaken is returned by ClaimUsername when the requested name
// is already claimed by another guest.
var ErrUsernameTaken = errors.New("identity: username already claimed")

// ErrAlreadyClaimed is returned by ClaimUsername when the guest already
// has a username.
var ErrAlreadyClaimed = errors.New("identity: guest already has a username")

// ErrInvalidUsername is returned by ValidateUsername.
var ErrInvalidUsername = errors.New("identity: username must be 3-20 printable characters")

// NewToken generates a 32-byte URL-safe random auth token.
func NewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("identity: generating token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// NewDisplayName builds the default "Guest-<n>" display name from a
// short numeric suffix.
func NewDisplayName(suffix int) string {
	return fmt.Sprintf("Guest-%d", suffix)
}

// ValidateUsername enforces the 3-20 printable character rule; a
// whitespace character anywhere in the name is also rejected.
// It does not check uniqueness; that is the Store's responsibility.
func ValidateUsername(s string) error {
	n := 0
	for _, r := range s {
		if !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return ErrInvalidUsername
		}
		n++
	}
	if n < 3 || n > 20 {
		return ErrInvalidUsername
	}
	return nil
}

// NewGuest constructs a fresh guest awaiting persistence.
func NewGuest(displayName string, token string, now time.Time) Guest {
	return Guest{
		ID:          uuid.New(),
		DisplayName: displayName,
		Token:       token,
		CreatedAt:   now,
	}
}
