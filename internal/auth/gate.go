package auth

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pawmatch/pawmatch/internal/email"
	"github.com/pawmatch/pawmatch/internal/errorz"
)

// Identity is the resolved identity attached to a valid session.
// Its fields are written once when the session is created and are never
// derived from request input afterwards.
type Identity struct {
	UserID   uuid.UUID
	UserType UserType
	Email    email.Address
}

// IsAnonymous reports whether the identity belongs to no user.
func (i Identity) IsAnonymous() bool {
	return i.UserID == uuid.Nil
}

// The functions below form the authorization gate. They are pure
// decisions over an identity and resource metadata, they never do I/O.
// Callers are expected to check Authenticated before the other gates.

// Authenticated denies anonymous identities.
func Authenticated(i Identity) error {
	if i.IsAnonymous() {
		return errorz.ErrUnauthenticated
	}

	return nil
}

// HasRole denies identities that don't have the wanted role.
func HasRole(i Identity, want UserType) error {
	if i.UserType != want {
		return fmt.Errorf("role %q required, have %q: %w", want, i.UserType, errorz.ErrForbidden)
	}

	return nil
}

// Owns denies identities that don't own the resource belonging to the
// given user id.
func Owns(i Identity, ownerUserID uuid.UUID) error {
	if i.UserID != ownerUserID {
		return fmt.Errorf("resource owned by another user: %w", errorz.ErrForbidden)
	}

	return nil
}
