package patient

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
	msgLoadPatient  = "Failed to retrieve patient data."
	msgLoadAppts    = "Failed to retrieve appointments."
)

type AppointmentLister interface {
	ListByPatient(ctx context.Context, token string, patientID int) ([]appointment.Appointment, error)
}

// RegisterPage is the patient sign-up form.
type RegisterPage struct {
	web.Page
	Form   Patient
	Errors map[string]string
}

type Handler struct {
	svc   *Service
	appts AppointmentLister
}

func NewHandler(svc *Service, appts AppointmentLister) *Handler {
	return &Handler{svc: svc, appts: appts}
}

func (h *Handler) RegisterRoutes(public, private *echo.Group) {
	public.GET(web.PathPatientRegister, h.RegisterForm)
	public.POST(web.PathPatientRegister, h.Register)

	private.GET(web.PathPatientDashboard, h.Dashboard)
	private.GET(web.PathPatientAppointments, h.Appointments)
}

func (h *Handler) RegisterForm(c echo.Context) error {
	return c.Render(http.StatusOK, "register_patient", RegisterPage{Page: web.NewPage(c, "Patient Registration")})
}

func (h *Handler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	p := RegisterPage{Page: web.NewPage(c, "Patient Registration")}

	var pt Patient
	if err := c.Bind(&pt); err != nil {
		p.Form, p.Message = redact(pt), web.MsgInvalidForm
		return c.Render(http.StatusOK, "register_patient", p)
	}
	if err := c.Validate(&pt); err != nil {
		p.Form, p.Errors, p.Message = redact(pt), web.FieldErrors(err), web.MsgInvalidForm
		return c.Render(http.StatusOK, "register_patient", p)
	}

	if err := h.svc.Register(ctx, &pt); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("patient registration")
		p.Form, p.Message = redact(pt), msgRegisterFail
		return c.Render(http.StatusOK, "register_patient", p)
	}

	zerolog.Ctx(ctx).Info().Str("username", pt.Username).Msg("patient registered")
	p.Message = msgRegistered
	return c.Render(http.StatusOK, "register_patient", p)
}

func (h *Handler) Dashboard(c echo.Context) error {
	return c.Render(http.StatusOK, "dashboard_patient", web.NewPage(c, "Patient Dashboard"))
}

// Appointments lists the signed-in patient's appointments. The patient is
// looked up by username rather than trusting the patient id cookie.
func (h *Handler) Appointments(c echo.Context) error {
	ctx := c.Request().Context()
	log := zerolog.Ctx(ctx)
	sess, _ := middleware.CurrentSession(c)

	if sess.Username == "" {
		log.Warn().Msg("username cookie missing, redirecting to login")
		return web.Redirect(c, web.PathLogin)
	}

	pt, err := h.svc.GetByUsername(ctx, sess.Token, sess.Username)
	if err != nil {
		log.Error().Err(err).Str("username", sess.Username).Msg("get patient")
		status := http.StatusBadGateway
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		return web.RenderError(c, status, msgLoadPatient)
	}

	appts, err := h.appts.ListByPatient(ctx, sess.Token, pt.PatientID)
	if err != nil {
		log.Error().Err(err).Int("patient_id", pt.PatientID).Msg("list patient appointments")
		return web.RenderError(c, http.StatusBadGateway, msgLoadAppts)
	}
	return appointment.RenderList(c, "My Appointments", appts)
}

func redact(p Patient) Patient {
	p.Password, p.ConfirmPassword = "", ""
	return p
}
