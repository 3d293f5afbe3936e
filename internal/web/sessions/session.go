// Package sessions wraps gorilla/sessions with typed access to the
// authenticated identity carried by the session cookie.
//
// The cookie itself is the opaque bearer token. The identity values are
// written only when a session is created at login or registration,
// request input never flows into them afterwards.
package sessions

import (
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/pawmatch/pawmatch/internal/auth"
	"github.com/pawmatch/pawmatch/internal/email"
)

// Value keys inside the session. Kept as primitive strings so the
// cookie encoding doesn't depend on gob-registering our own types.
const (
	userIDKey   = "userID"
	userTypeKey = "userType"
	emailKey    = "email"
)

type Session struct {
	base      *sessions.Session
	needsSave bool
}

func (s *Session) NeedsSave() bool {
	return s.needsSave
}

// Identity returns the identity stored in the session. The second
// return value is false for anonymous sessions and for sessions whose
// values fail to parse, those are treated as anonymous rather than
// trusted halfway.
func (s *Session) Identity() (auth.Identity, bool) {
	rawID, ok := s.base.Values[userIDKey].(string)
	if !ok {
		return auth.Identity{}, false
	}

	rawType, ok := s.base.Values[userTypeKey].(string)
	if !ok {
		return auth.Identity{}, false
	}

	rawEmail, ok := s.base.Values[emailKey].(string)
	if !ok {
		return auth.Identity{}, false
	}

	userID, err := uuid.Parse(rawID)
	if err != nil {
		return auth.Identity{}, false
	}

	userType, err := auth.ParseUserType(rawType)
	if err != nil {
		return auth.Identity{}, false
	}

	return auth.Identity{
		UserID:   userID,
		UserType: userType,
		Email:    email.Address(rawEmail),
	}, true
}

// SetIdentity overwrites any identity already stored in the session.
func (s *Session) SetIdentity(ident auth.Identity) {
	s.needsSave = true
	s.base.Values[userIDKey] = ident.UserID.String()
	s.base.Values[userTypeKey] = string(ident.UserType)
	s.base.Values[emailKey] = string(ident.Email)
}

// Destroy removes the identity and expires the cookie. Destroying an
// already destroyed or anonymous session is a no-op that still
// succeeds.
func (s *Session) Destroy() {
	s.needsSave = true
	delete(s.base.Values, userIDKey)
	delete(s.base.Values, userTypeKey)
	delete(s.base.Values, emailKey)

	// Setting the age in the past will delete the cookie.
	s.base.Options.MaxAge = -1
}

func (s *Session) AddFlash(flash any, vars ...string) {
	s.needsSave = true
	s.base.AddFlash(flash, vars...)
}

// ConsumeFlashes returns the session's flashes and removes them.
func (s *Session) ConsumeFlashes() []any {
	flashes := s.base.Flashes()
	if len(flashes) > 0 {
		s.needsSave = true
	}

	return flashes
}
