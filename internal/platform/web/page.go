package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/appointment-ui/internal/platform/session"
)

// Generic messages shown when the API misbehaves. Details go to the log only.
const (
	MsgUnexpected   = "An error occurred while processing your request."
	MsgNoAppts      = "No appointments found."
	MsgInvalidForm  = "Please correct the errors in the form."
	MsgLoadDoctors  = "Failed to retrieve doctors."
	MsgDoctorsError = "An error occurred while retrieving doctors."
)

// csrfContextKey matches echo's default CSRF middleware context key.
const csrfContextKey = "csrf"

// Page is embedded in every screen's view model.
type Page struct {
	Title    string
	Message  string
	CSRF     string
	SignedIn bool
	Username string
}

func NewPage(c echo.Context, title string) Page {
	p := Page{Title: title}
	if tok, ok := c.Get(csrfContextKey).(string); ok {
		p.CSRF = tok
	}
	if ck, err := c.Cookie(session.TokenCookie); err == nil && ck.Value != "" {
		p.SignedIn = true
	}
	if ck, err := c.Cookie(session.UsernameCookie); err == nil {
		p.Username = ck.Value
	}
	return p
}

// ErrorPage is the generic error screen.
type ErrorPage struct {
	Page
	RequestID string
}

// RenderError renders the error screen. message must be safe to show users.
func RenderError(c echo.Context, status int, message string) error {
	p := ErrorPage{Page: NewPage(c, "Error"), RequestID: c.Response().Header().Get(echo.HeaderXRequestID)}
	p.Message = message
	return c.Render(status, "error", p)
}

// Redirect answers with 303 so that a POST is followed by a GET.
func Redirect(c echo.Context, path string) error {
	return c.Redirect(http.StatusSeeOther, path)
}

// HTTPErrorHandler renders echo errors, such as unknown routes, rate limiting
// and recovered panics, as the error screen instead of echo's JSON body.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
	}

	msg := MsgUnexpected
	switch status {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		msg = "The page you requested could not be found."
	case http.StatusForbidden, http.StatusBadRequest:
		msg = "Your form has expired. Please go back and try again."
	case http.StatusRequestEntityTooLarge:
		msg = "The submitted form is too large."
	case http.StatusTooManyRequests:
		msg = "Too many attempts. Please wait a moment and try again."
	}

	if status >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Int("status", status).Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	if rerr := RenderError(c, status, msg); rerr != nil {
		_ = c.String(status, msg)
	}
}
