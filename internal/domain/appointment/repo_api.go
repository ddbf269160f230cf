package appointment

import (
	"context"
	"strconv"

	"github.com/ehr/appointment-ui/internal/platform/apiclient"
)

type appointmentRepoAPI struct {
	client *apiclient.Client
}

func NewRepo(client *apiclient.Client) Repository {
	return &appointmentRepoAPI{client: client}
}

func (r *appointmentRepoAPI) List(ctx context.Context, token string) ([]Appointment, error) {
	var out []Appointment
	if err := r.client.Get(ctx, token, apiclient.Path("api", "GetAllAppointments"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *appointmentRepoAPI) GetByID(ctx context.Context, token string, id int) (*Appointment, error) {
	var out *Appointment
	if err := r.client.Get(ctx, token, apiclient.Path("api", "GetAppointmentById", strconv.Itoa(id)), &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

func (r *appointmentRepoAPI) ListByDoctor(ctx context.Context, token string, doctorID int) ([]Appointment, error) {
	var out []Appointment
	if err := r.client.Get(ctx, token, apiclient.Path("api", "GetAppointmentsByDoctorId", strconv.Itoa(doctorID)), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *appointmentRepoAPI) ListByPatient(ctx context.Context, token string, patientID int) ([]Appointment, error) {
	var out []Appointment
	if err := r.client.Get(ctx, token, apiclient.Path("api", "GetAppointmentsByPatientId", strconv.Itoa(patientID)), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *appointmentRepoAPI) Insert(ctx context.Context, token string, a *Appointment) error {
	return r.client.Post(ctx, token, apiclient.Path("api", "SaveAppointmentData"), a, nil)
}

func (r *appointmentRepoAPI) Update(ctx context.Context, token string, a *Appointment) error {
	return r.client.Post(ctx, token, apiclient.Path("api", "UpdateAppointmentData"), a, nil)
}
