// Package webtest holds helpers for handler tests.
package webtest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/ehr/appointment-ui/internal/platform/middleware"
	"github.com/ehr/appointment-ui/internal/platform/session"
	"github.com/ehr/appointment-ui/internal/platform/web"
)

// Renderer records the last template rendered instead of executing it.
type Renderer struct {
	mu   sync.Mutex
	name string
	data interface{}
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	r.mu.Lock()
	r.name, r.data = name, data
	r.mu.Unlock()
	_, err := io.WriteString(w, name)
	return err
}

// Last returns the last template name and view model.
func (r *Renderer) Last() (string, interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name, r.data
}

// New returns an echo instance wired with a recording renderer and the real
// form validator.
func New() (*echo.Echo, *Renderer) {
	e := echo.New()
	r := &Renderer{}
	e.Renderer = r
	e.Validator = web.NewValidator()
	return e, r
}

// Get builds a GET context.
func Get(e *echo.Echo, target string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), rec), rec
}

// PostForm builds a form POST context.
func PostForm(e *echo.Echo, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// WithSession puts sess where RequireSession would have, and mirrors it in
// the request cookies.
func WithSession(c echo.Context, sess session.Session) {
	c.Set(middleware.SessionContextKey, sess)
	req := c.Request()
	for name, v := range map[string]string{
		session.TokenCookie:     sess.Token,
		session.UsernameCookie:  sess.Username,
		session.PatientIDCookie: sess.PatientID,
	} {
		if v != "" {
			req.AddCookie(&http.Cookie{Name: name, Value: v})
		}
	}
}

// Cookies returns the cookies set on the response, by name.
func Cookies(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := make(map[string]*http.Cookie)
	for _, ck := range rec.Result().Cookies() {
		out[ck.Name] = ck
	}
	return out
}
