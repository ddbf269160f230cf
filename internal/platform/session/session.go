// Package session keeps the browser session in three cookies: the bearer
// token issued by the appointment API, the username it was issued for, and
// the patient id when the user is a patient.
package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	TokenCookie     = "AuthToken"
	UsernameCookie  = "Username"
	PatientIDCookie = "PatientID"
)

// DefaultTTL is the lifetime of every session cookie.
const DefaultTTL = 30 * time.Minute

// Session is the cookie-held login state.
type Session struct {
	Token     string
	Username  string
	PatientID string
}

// Authenticated reports whether a bearer token is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Store reads and writes session cookies. All cookies it writes share the
// same expiry and are HttpOnly, Secure and SameSite=Strict.
type Store struct {
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

type Option func(*Store)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithInsecureCookies drops the Secure flag. Only for plain-HTTP development.
func WithInsecureCookies() Option {
	return func(s *Store) { s.secure = false }
}

// WithClock sets the time source used to compute expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{ttl: DefaultTTL, secure: true, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Set replaces the whole session. A session without a patient id expires
// any PatientID cookie left by an earlier login.
func (s *Store) Set(c echo.Context, sess Session) {
	expires := s.now().Add(s.ttl)
	c.SetCookie(s.cookie(TokenCookie, sess.Token, expires))
	c.SetCookie(s.cookie(UsernameCookie, sess.Username, expires))
	if sess.PatientID != "" {
		c.SetCookie(s.cookie(PatientIDCookie, sess.PatientID, expires))
	} else {
		c.SetCookie(s.expired(PatientIDCookie))
	}
}

// SetPatientID writes only the patient id cookie.
func (s *Store) SetPatientID(c echo.Context, patientID string) {
	c.SetCookie(s.cookie(PatientIDCookie, patientID, s.now().Add(s.ttl)))
}

// Get returns whichever session cookies the request carries.
func (s *Store) Get(c echo.Context) Session {
	return Session{
		Token:     value(c, TokenCookie),
		Username:  value(c, UsernameCookie),
		PatientID: value(c, PatientIDCookie),
	}
}

// Clear expires all three cookies regardless of what the request carried.
func (s *Store) Clear(c echo.Context) {
	for _, name := range []string{TokenCookie, UsernameCookie, PatientIDCookie} {
		c.SetCookie(s.expired(name))
	}
}

func (s *Store) expired(name string) *http.Cookie {
	ck := s.cookie(name, "", time.Unix(0, 0))
	ck.MaxAge = -1
	return ck
}

func (s *Store) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func value(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
