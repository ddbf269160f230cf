package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/appointment-ui/internal/platform/session"
	"github.com/ehr/appointment-ui/internal/platform/web"
)

// SessionContextKey is where RequireSession stores the current session.
const SessionContextKey = "session"

// RequireSession redirects to the login screen when the request carries no
// auth token. Otherwise the session is stored in the echo context.
func RequireSession(store *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := store.Get(c)
			if !sess.Authenticated() {
				zerolog.Ctx(c.Request().Context()).Debug().
					Str("path", c.Request().URL.Path).
					Msg("no session, redirecting to login")
				return web.Redirect(c, web.PathLogin)
			}
			c.Set(SessionContextKey, sess)
			return next(c)
		}
	}
}

// CurrentSession returns the session stored by RequireSession.
func CurrentSession(c echo.Context) (session.Session, bool) {
	sess, ok := c.Get(SessionContextKey).(session.Session)
	return sess, ok
}
