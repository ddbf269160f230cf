package appointment

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/appointment-ui/internal/platform/apiclient"
	"github.com/ehr/appointment-ui/internal/platform/middleware"
	"github.com/ehr/appointment-ui/internal/platform/web"
)

const (
	msgLoadAppts  = "Failed to retrieve appointments."
	msgLoadAppt   = "Failed to retrieve appointment."
	msgSaveFailed = "Failed to save appointment."
	msgInvalidID  = "Enter a valid appointment ID."

	titleList   = "Appointments"
	titleBook   = "Book Appointment"
	titleEdit   = "Edit Appointment"
	titleLookup = "Update Appointment"
)

// ListPage renders a list of appointments.
type ListPage struct {
	web.Page
	Appointments []Appointment
}

// FormPage renders the create/edit form.
type FormPage struct {
	web.Page
	Form    Appointment
	Doctors []DoctorOption
	Errors  map[string]string
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the appointment screens on a group that already
// requires a session.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET(web.PathAppointments, h.List)
	g.GET(web.PathManageAppointment, h.Manage)
	g.POST(web.PathSaveAppointment, h.Save)
	g.GET(web.PathEditAppointment, h.Edit)
	g.GET(web.PathAppointments+"/:id/edit", h.EditByID)
}

// RenderList renders appointments with the empty-list notice when there are
// none.
func RenderList(c echo.Context, title string, appts []Appointment) error {
	p := ListPage{Page: web.NewPage(c, title), Appointments: appts}
	if len(appts) == 0 {
		p.Message = web.MsgNoAppts
	}
	return c.Render(http.StatusOK, "appointments", p)
}

func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	sess, _ := middleware.CurrentSession(c)

	appts, err := h.svc.List(ctx, sess.Token)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("list appointments")
		return web.RenderError(c, http.StatusBadGateway, msgLoadAppts)
	}
	zerolog.Ctx(ctx).Debug().Int("count", len(appts)).Msg("appointments retrieved")
	return RenderList(c, titleList, appts)
}

func (h *Handler) Manage(c echo.Context) error {
	ctx := c.Request().Context()
	log := zerolog.Ctx(ctx)
	sess, _ := middleware.CurrentSession(c)

	p := FormPage{Page: web.NewPage(c, titleBook)}

	doctors, err := h.svc.Doctors(ctx, sess.Token)
	if err != nil {
		log.Error().Err(err).Msg("list doctors")
		p.Message = doctorsFailure(err)
	}
	p.Doctors = doctors

	switch id, err := strconv.Atoi(sess.PatientID); {
	case sess.PatientID == "":
		log.Warn().Msg("patient id cookie missing")
	case err != nil:
		log.Warn().Str("patient_id", sess.PatientID).Msg("patient id cookie is not a number")
	default:
		p.Form.PatientID = id
	}

	return c.Render(http.StatusOK, "appointment_form", p)
}

func (h *Handler) Save(c echo.Context) error {
	ctx := c.Request().Context()
	log := zerolog.Ctx(ctx)
	sess, _ := middleware.CurrentSession(c)

	var a Appointment
	if err := c.Bind(&a); err != nil {
		log.Debug().Err(err).Msg("bind appointment form")
		return h.renderForm(c, sess.Token, a, nil, web.MsgInvalidForm)
	}
	if err := c.Validate(&a); err != nil {
		return h.renderForm(c, sess.Token, a, web.FieldErrors(err), web.MsgInvalidForm)
	}

	dest, err := h.svc.Save(ctx, sess.Token, &a)
	if err != nil {
		if apiclient.IsStatus(err) {
			log.Error().Err(err).Int("appointment_id", a.AppointmentID).Msg("save appointment rejected")
			return h.renderForm(c, sess.Token, a, nil, msgSaveFailed)
		}
		log.Error().Err(err).Int("appointment_id", a.AppointmentID).Msg("save appointment")
		return web.RenderError(c, http.StatusBadGateway, web.MsgUnexpected)
	}
	return web.Redirect(c, dest)
}

// Edit shows the lookup form. A submitted id moves on to that
// appointment's edit screen.
func (h *Handler) Edit(c echo.Context) error {
	p := web.NewPage(c, titleLookup)

	raw := strings.TrimSpace(c.QueryParam("id"))
	if raw == "" {
		return c.Render(http.StatusOK, "appointment_lookup", p)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		p.Message = msgInvalidID
		return c.Render(http.StatusOK, "appointment_lookup", p)
	}
	return web.Redirect(c, web.EditAppointmentPath(id))
}

func (h *Handler) EditByID(c echo.Context) error {
	ctx := c.Request().Context()
	log := zerolog.Ctx(ctx)
	sess, _ := middleware.CurrentSession(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.ErrNotFound
	}

	p := FormPage{Page: web.NewPage(c, titleEdit)}
	var msgs []string

	a, err := h.svc.Get(ctx, sess.Token, id)
	if err != nil {
		log.Error().Err(err).Int("appointment_id", id).Msg("get appointment")
		msgs = append(msgs, msgLoadAppt)
	} else {
		p.Form = *a
	}

	doctors, err := h.svc.Doctors(ctx, sess.Token)
	if err != nil {
		log.Error().Err(err).Msg("list doctors")
		msgs = append(msgs, doctorsFailure(err))
	}
	p.Doctors = doctors
	p.Message = strings.Join(msgs, " ")

	return c.Render(http.StatusOK, "appointment_form", p)
}

// renderForm re-shows a submitted form. The doctor list is fetched again;
// if that fails the picker is left empty.
func (h *Handler) renderForm(c echo.Context, token string, a Appointment, errs map[string]string, msg string) error {
	ctx := c.Request().Context()

	title := titleBook
	if !a.IsNew() {
		title = titleEdit
	}
	p := FormPage{Page: web.NewPage(c, title), Form: a, Errors: errs}
	p.Message = msg

	doctors, err := h.svc.Doctors(ctx, token)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("list doctors")
	}
	p.Doctors = doctors

	return c.Render(http.StatusOK, "appointment_form", p)
}

func doctorsFailure(err error) string {
	if apiclient.IsStatus(err) {
		return web.MsgLoadDoctors
	}
	return web.MsgDoctorsError
}
