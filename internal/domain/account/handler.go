package account

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/appointment-ui/internal/platform/session"
	"github.com/ehr/appointment-ui/internal/platform/web"
)

const (
	msgBadCredentials = "Login failed: Incorrect credentials."
	msgInvalidToken   = "Login failed: Invalid token."
	msgUnknownRole    = "Login failed: This account has no access to this site."
)

// LoginPage is the login form.
type LoginPage struct {
	web.Page
	Form   LoginRequest
	Errors map[string]string
}

type Handler struct {
	svc   *Service
	store *session.Store
}

func NewHandler(svc *Service, store *session.Store) *Handler {
	return &Handler{svc: svc, store: store}
}

// RegisterRoutes mounts the public screens. loginMW wraps only the login
// POST.
func (h *Handler) RegisterRoutes(g *echo.Group, loginMW ...echo.MiddlewareFunc) {
	g.GET(web.PathHome, h.Home)
	g.GET(web.PathPrivacy, h.Privacy)
	g.GET(web.PathError, h.Error)
	g.GET(web.PathHealth, h.Health)

	g.GET(web.PathLogin, h.LoginForm)
	g.POST(web.PathLogin, h.Login, loginMW...)
	g.GET(web.PathLogout, h.Logout)
}

// Home sends signed-in users to their dashboard.
func (h *Handler) Home(c echo.Context) error {
	if sess := h.store.Get(c); sess.Authenticated() {
		dest, _ := h.svc.Destination(sess.Token)
		return web.Redirect(c, dest)
	}
	return c.Render(http.StatusOK, "home", web.NewPage(c, "Home"))
}

func (h *Handler) Privacy(c echo.Context) error {
	return c.Render(http.StatusOK, "privacy", web.NewPage(c, "Privacy Policy"))
}

func (h *Handler) Error(c echo.Context) error {
	return web.RenderError(c, http.StatusOK, web.MsgUnexpected)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// LoginForm skips the form for a session whose token maps to a dashboard.
// A session that maps nowhere is dropped so the user can sign in again.
func (h *Handler) LoginForm(c echo.Context) error {
	sess := h.store.Get(c)
	if sess.Token != "" && sess.Username != "" {
		if dest, ok := h.svc.Destination(sess.Token); ok {
			return web.Redirect(c, dest)
		}
		zerolog.Ctx(c.Request().Context()).Warn().Str("username", sess.Username).Msg("session token has no usable role, clearing")
		h.store.Clear(c)
	}
	return c.Render(http.StatusOK, "login", LoginPage{Page: loginHeader(c)})
}

func (h *Handler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	log := zerolog.Ctx(ctx)

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return h.renderLogin(c, req, nil, web.MsgInvalidForm)
	}
	if err := c.Validate(&req); err != nil {
		return h.renderLogin(c, req, web.FieldErrors(err), "")
	}

	res, err := h.svc.Login(ctx, req)
	switch {
	case err == nil:
	case errors.Is(err, ErrBadCredentials):
		log.Info().Err(err).Str("username", req.Username).Msg("login rejected")
		return h.renderLogin(c, req, nil, msgBadCredentials)
	case errors.Is(err, ErrEmptyToken):
		log.Warn().Str("username", req.Username).Msg("login returned no token")
		return h.renderLogin(c, req, nil, msgInvalidToken)
	case errors.Is(err, ErrUnknownRole):
		log.Warn().Err(err).Str("username", req.Username).Msg("login token has no usable role")
		h.store.Clear(c)
		return h.renderLogin(c, req, nil, msgUnknownRole)
	default:
		log.Error().Err(err).Str("username", req.Username).Msg("login")
		return h.renderLogin(c, req, nil, web.MsgUnexpected)
	}

	h.store.Set(c, res.Session)
	dest, _ := h.svc.Destination(res.Session.Token)
	log.Info().Str("username", req.Username).Str("role", string(res.Role)).Msg("signed in")
	return web.Redirect(c, dest)
}

// Logout always clears the session, signed in or not.
func (h *Handler) Logout(c echo.Context) error {
	h.store.Clear(c)
	return web.Redirect(c, web.PathLogin)
}

func (h *Handler) renderLogin(c echo.Context, req LoginRequest, errs map[string]string, msg string) error {
	req.Password = ""
	p := LoginPage{Page: loginHeader(c), Form: req, Errors: errs}
	p.Message = msg
	return c.Render(http.StatusOK, "login", p)
}

// loginHeader never shows a signed-in header: any cookies the request still
// carries are being replaced or were just cleared.
func loginHeader(c echo.Context) web.Page {
	p := web.NewPage(c, "Login")
	p.SignedIn, p.Username = false, ""
	return p
}
