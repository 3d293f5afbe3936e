package errorz

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound indicates a referenced row is missing. In this app that
	// only happens when a data integrity invariant was violated, so callers
	// should treat it as an internal failure, not as user error.
	ErrNotFound = errors.New("not found")
	// ErrConstraintViolated indicates the database rejected a write, for
	// example a duplicate email at registration.
	ErrConstraintViolated = errors.New("constraint violated")
	// ErrUnauthenticated indicates no valid session identity was provided.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden indicates the authenticated identity has the wrong role
	// or does not own the target resource.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials indicates an email/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// MapDBErr maps database errors to appropriate errorz errors.
// If err is nil, MapDBErr returns nil.
func MapDBErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	sErr := sqlite3.Error{}
	if errors.As(err, &sErr) {
		if sErr.Code == sqlite3.ErrConstraint {
			return ErrConstraintViolated
		}
	}

	return err
}
