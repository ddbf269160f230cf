package patient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ehr/appointment-ui/internal/domain/appointment"
	"github.com/ehr/appointment-ui/internal/platform/apiclient"
	"github.com/ehr/appointment-ui/internal/platform/session"
	"github.com/ehr/appointment-ui/internal/platform/web"
	"github.com/ehr/appointment-ui/internal/platform/web/webtest"
	"github.com/ehr/appointment-ui/pkg/civil"
)

// -- Mocks --

type mockRepo struct {
	patients   map[string]Patient
	err        error
	registered []Patient
}

func newMockRepo(patients ...Patient) *mockRepo {
	m := &mockRepo{patients: make(map[string]Patient)}
	for _, p := range patients {
		m.patients[p.Username] = p
	}
	return m
}

func (m *mockRepo) GetByUsername(_ context.Context, _, username string) (*Patient, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.patients[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *mockRepo) Register(_ context.Context, p *Patient) error {
	if m.err != nil {
		return m.err
	}
	m.registered = append(m.registered, *p)
	return nil
}

type mockAppts struct {
	byPatient map[int][]appointment.Appointment
	err       error
	asked     []int
}

func (m *mockAppts) ListByPatient(_ context.Context, _ string, patientID int) ([]appointment.Appointment, error) {
	m.asked = append(m.asked, patientID)
	if m.err != nil {
		return nil, m.err
	}
	return m.byPatient[patientID], nil
}

var jane = Patient{PatientID: 7, PatientName: "Jane Doe", Username: "jane"}

func newTestHandler(repo *mockRepo, appts *mockAppts) (*Handler, *echo.Echo, *webtest.Renderer) {
	if appts == nil {
		appts = &mockAppts{}
	}
	e, r := webtest.New()
	return NewHandler(NewService(repo), appts), e, r
}

func registrationForm() url.Values {
	return url.Values{
		"patientName":     {"Jane Doe"},
		"username":        {"jane"},
		"password":        {"secret1"},
		"confirmPassword": {"secret1"},
		"gender":          {"Female"},
		"dateOfBirth":     {"1990-04-01"},
	}
}

func TestHandler_Register(t *testing.T) {
	repo := newMockRepo()
	h, e, r := newTestHandler(repo, nil)
	c, _ := webtest.PostForm(e, web.PathPatientRegister, registrationForm())

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, data := r.Last()
	p := data.(RegisterPage)
	if p.Message != msgRegistered {
		t.Errorf("expected success message, got %q", p.Message)
	}
	if p.Form.Username != "" {
		t.Error("expected a fresh form after success")
	}
	if len(repo.registered) != 1 {
		t.Fatalf("expected one registration, got %d", len(repo.registered))
	}
	if got := repo.registered[0].DateOfBirth; got != (civil.Date{Year: 1990, Month: 4, Day: 1}) {
		t.Errorf("unexpected date of birth %v", got)
	}
}

func TestHandler_Register_ValidationFailure(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(url.Values)
		field string
	}{
		{"missing name", func(v url.Values) { v.Del("patientName") }, "PatientName"},
		{"short password", func(v url.Values) { v.Set("password", "abc"); v.Set("confirmPassword", "abc") }, "Password"},
		{"mismatch", func(v url.Values) { v.Set("confirmPassword", "secret2") }, "ConfirmPassword"},
		{"long gender", func(v url.Values) { v.Set("gender", "abcdefghijk") }, "Gender"},
		{"missing birth date", func(v url.Values) { v.Del("dateOfBirth") }, "DateOfBirth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepo()
			h, e, r := newTestHandler(repo, nil)
			form := registrationForm()
			tt.edit(form)
			c, _ := webtest.PostForm(e, web.PathPatientRegister, form)

			if err := h.Register(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(repo.registered) != 0 {
				t.Error("no outbound call expected on validation failure")
			}
			_, data := r.Last()
			p := data.(RegisterPage)
			if p.Message != web.MsgInvalidForm {
				t.Errorf("unexpected message %q", p.Message)
			}
			if p.Errors[tt.field] == "" {
				t.Errorf("expected error on %s, got %v", tt.field, p.Errors)
			}
			if p.Form.Password != "" || p.Form.ConfirmPassword != "" {
				t.Error("passwords must not be echoed back")
			}
		})
	}
}

func TestHandler_Register_RemoteFailure(t *testing.T) {
	repo := newMockRepo()
	repo.err = &apiclient.StatusError{StatusCode: http.StatusBadRequest, Status: "400 Bad Request"}
	h, e, r := newTestHandler(repo, nil)
	c, _ := webtest.PostForm(e, web.PathPatientRegister, registrationForm())

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, data := r.Last()
	if p := data.(RegisterPage); p.Message != msgRegisterFail || p.Form.Username != "jane" {
		t.Errorf("unexpected page %+v", p)
	}
}

func TestHandler_Dashboard(t *testing.T) {
	h, e, r := newTestHandler(newMockRepo(), nil)
	c, rec := webtest.Get(e, web.PathPatientDashboard)

	if err := h.Dashboard(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name, _ := r.Last(); name != "dashboard_patient" || rec.Code != http.StatusOK {
		t.Errorf("unexpected render %s %d", name, rec.Code)
	}
}

func TestHandler_Appointments(t *testing.T) {
	appts := &mockAppts{byPatient: map[int][]appointment.Appointment{
		7: {{AppointmentID: 1, PatientID: 7}, {AppointmentID: 2, PatientID: 7}},
	}}
	h, e, r := newTestHandler(newMockRepo(jane), appts)
	c, _ := webtest.Get(e, web.PathPatientAppointments)
	webtest.WithSession(c, session.Session{Token: "tok", Username: "jane", PatientID: "999"})

	if err := h.Appointments(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(appts.asked) != 1 || appts.asked[0] != 7 {
		t.Errorf("expected lookup by resolved patient id 7, asked %v", appts.asked)
	}
	_, data := r.Last()
	if p := data.(appointment.ListPage); len(p.Appointments) != 2 {
		t.Errorf("unexpected page %+v", p)
	}
}

func TestHandler_Appointments_Failures(t *testing.T) {
	tests := []struct {
		name   string
		repo   *mockRepo
		appts  *mockAppts
		status int
		msg    string
	}{
		{"unknown patient", newMockRepo(), &mockAppts{}, http.StatusNotFound, msgLoadPatient},
		{"patient lookup transport", &mockRepo{err: &apiclient.TransportError{Err: errors.New("refused")}}, &mockAppts{}, http.StatusBadGateway, msgLoadPatient},
		{"list rejected", newMockRepo(jane), &mockAppts{err: &apiclient.StatusError{StatusCode: http.StatusForbidden}}, http.StatusBadGateway, msgLoadAppts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, e, r := newTestHandler(tt.repo, tt.appts)
			c, rec := webtest.Get(e, web.PathPatientAppointments)
			webtest.WithSession(c, session.Session{Token: "tok", Username: "jane"})

			if err := h.Appointments(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
			name, data := r.Last()
			if name != "error" || data.(web.ErrorPage).Message != tt.msg {
				t.Errorf("unexpected render %s %+v", name, data)
			}
		})
	}
}

func TestHandler_Appointments_NoUsername(t *testing.T) {
	h, e, _ := newTestHandler(newMockRepo(jane), nil)
	c, rec := webtest.Get(e, web.PathPatientAppointments)
	webtest.WithSession(c, session.Session{Token: "tok"})

	if err := h.Appointments(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get("Location") != web.PathLogin {
		t.Errorf("expected redirect to login, got %s", rec.Header().Get("Location"))
	}
}

func TestService_PatientID(t *testing.T) {
	svc := NewService(newMockRepo(jane, Patient{Username: "ghost"}))

	id, err := svc.PatientID(context.Background(), "tok", "jane")
	if err != nil || id != 7 {
		t.Errorf("expected 7, got %d %v", id, err)
	}
	if _, err := svc.PatientID(context.Background(), "tok", "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for patient without id, got %v", err)
	}
	if _, err := svc.PatientID(context.Background(), "tok", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty username, got %v", err)
	}
}
