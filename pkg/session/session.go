// Package session keeps the admin's Insight API token in a signed cookie.
// Handlers load it explicitly and pass the token to whatever needs it.
package session

import (
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	cookieName = "insight_admin"
	tokenKey   = "token"
)

// ErrNoSecret is returned when the store is built without a signing key
var ErrNoSecret = errors.New("session: secret is required")

// Session is the admin state of a single request.
type Session struct {
	Token string
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Store loads, saves and clears admin sessions.
type Store struct {
	cookies sessions.Store
}

// NewStore builds a cookie-backed store signed with secret. maxAge is in
// seconds.
func NewStore(secret []byte, maxAge int, secure bool) (*Store, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	cs := sessions.NewCookieStore(secret)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cs}, nil
}

// Load returns the session of r. A missing or tampered cookie yields an
// empty session, not an error.
func (s *Store) Load(r *http.Request) Session {
	sess, err := s.cookies.Get(r, cookieName)
	if err != nil {
		return Session{}
	}
	token, _ := sess.Values[tokenKey].(string)
	return Session{Token: token}
}

// Save stores token in the response cookie.
func (s *Store) Save(w http.ResponseWriter, r *http.Request, token string) error {
	sess, err := s.cookies.Get(r, cookieName)
	if err != nil && sess == nil {
		return err
	}
	sess.Values[tokenKey] = token
	return sess.Save(r, w)
}

// Clear drops the token and expires the cookie.
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, err := s.cookies.Get(r, cookieName)
	if err != nil && sess == nil {
		return err
	}
	delete(sess.Values, tokenKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
