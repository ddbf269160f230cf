package doctor

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/appointment-ui/internal/domain/appointment"
	"github.com/ehr/appointment-ui/internal/platform/middleware"
	"github.com/ehr/appointment-ui/internal/platform/web"
)

const (
	msgRegistered   = "Registration successful!"
	msgRegisterFail = "Registration failed."
	msgLoadDoctor   = "Failed to retrieve doctor data."
	msgLoadAppts    = "Failed to retrieve appointments."
)

// AppointmentLister is the slice of the appointment service this package
// needs.
type AppointmentLister interface {
	ListByDoctor(ctx context.Context, token string, doctorID int) ([]appointment.Appointment, error)
}

// RegisterPage is the doctor sign-up form.
type RegisterPage struct {
	web.Page
	Form   Doctor
	Errors map[string]string
}

type Handler struct {
	svc   *Service
	appts AppointmentLister
}

func NewHandler(svc *Service, appts AppointmentLister) *Handler {
	return &Handler{svc: svc, appts: appts}
}

// RegisterRoutes mounts sign-up on public and the doctor's own screens on
// private, which must already require a session.
func (h *Handler) RegisterRoutes(public, private *echo.Group) {
	public.GET(web.PathDoctorRegister, h.RegisterForm)
	public.POST(web.PathDoctorRegister, h.Register)

	private.GET(web.PathDoctorDashboard, h.Dashboard)
	private.GET(web.PathDoctorAppointments, h.Appointments)
}

func (h *Handler) RegisterForm(c echo.Context) error {
	return c.Render(http.StatusOK, "register_doctor", RegisterPage{Page: web.NewPage(c, "Doctor Registration")})
}

func (h *Handler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	p := RegisterPage{Page: web.NewPage(c, "Doctor Registration")}

	var d Doctor
	if err := c.Bind(&d); err != nil {
		p.Form, p.Message = redact(d), web.MsgInvalidForm
		return c.Render(http.StatusOK, "register_doctor", p)
	}
	if err := c.Validate(&d); err != nil {
		p.Form, p.Errors, p.Message = redact(d), web.FieldErrors(err), web.MsgInvalidForm
		return c.Render(http.StatusOK, "register_doctor", p)
	}

	if err := h.svc.Register(ctx, &d); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("doctor registration")
		p.Form, p.Message = redact(d), msgRegisterFail
		return c.Render(http.StatusOK, "register_doctor", p)
	}

	zerolog.Ctx(ctx).Info().Str("username", d.Username).Msg("doctor registered")
	p.Message = msgRegistered
	return c.Render(http.StatusOK, "register_doctor", p)
}

func (h *Handler) Dashboard(c echo.Context) error {
	return c.Render(http.StatusOK, "dashboard_doctor", web.NewPage(c, "Doctor Dashboard"))
}

// Appointments lists the signed-in doctor's appointments.
func (h *Handler) Appointments(c echo.Context) error {
	ctx := c.Request().Context()
	log := zerolog.Ctx(ctx)
	sess, _ := middleware.CurrentSession(c)

	if sess.Username == "" {
		log.Warn().Msg("username cookie missing, redirecting to login")
		return web.Redirect(c, web.PathLogin)
	}

	d, err := h.svc.GetByUsername(ctx, sess.Token, sess.Username)
	if err != nil {
		log.Error().Err(err).Str("username", sess.Username).Msg("get doctor")
		status := http.StatusBadGateway
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		return web.RenderError(c, status, msgLoadDoctor)
	}

	appts, err := h.appts.ListByDoctor(ctx, sess.Token, d.DoctorID)
	if err != nil {
		log.Error().Err(err).Int("doctor_id", d.DoctorID).Msg("list doctor appointments")
		return web.RenderError(c, http.StatusBadGateway, msgLoadAppts)
	}
	if len(appts) == 0 {
		log.Info().Int("doctor_id", d.DoctorID).Msg("no appointments found")
	}
	return appointment.RenderList(c, "My Appointments", appts)
}

// redact drops the passwords before a form is shown again.
func redact(d Doctor) Doctor {
	d.Password, d.ConfirmPassword = "", ""
	return d
}
