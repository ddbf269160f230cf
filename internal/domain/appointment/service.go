package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ehr/appointment-ui/internal/platform/web"
)

// ErrNotFound is returned when the API answers 2xx without an appointment.
var ErrNotFound = errors.New("appointment not found")

type Service struct {
	repo    Repository
	doctors DoctorLister
}

func NewService(repo Repository, doctors DoctorLister) *Service {
	return &Service{repo: repo, doctors: doctors}
}

func (s *Service) List(ctx context.Context, token string) ([]Appointment, error) {
	return s.repo.List(ctx, token)
}

func (s *Service) Get(ctx context.Context, token string, id int) (*Appointment, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid appointment id %d", id)
	}
	return s.repo.GetByID(ctx, token, id)
}

func (s *Service) ListByDoctor(ctx context.Context, token string, doctorID int) ([]Appointment, error) {
	return s.repo.ListByDoctor(ctx, token, doctorID)
}

func (s *Service) ListByPatient(ctx context.Context, token string, patientID int) ([]Appointment, error) {
	return s.repo.ListByPatient(ctx, token, patientID)
}

// Save updates an existing appointment or inserts a new one and returns the
// screen to continue on: doctors edit existing appointments, patients book
// new ones.
func (s *Service) Save(ctx context.Context, token string, a *Appointment) (string, error) {
	log := zerolog.Ctx(ctx)

	if !a.IsNew() {
		if err := s.repo.Update(ctx, token, a); err != nil {
			return "", fmt.Errorf("update appointment %d: %w", a.AppointmentID, err)
		}
		log.Info().Int("appointment_id", a.AppointmentID).Msg("appointment updated")
		return web.PathDoctorAppointments, nil
	}

	if err := s.repo.Insert(ctx, token, a); err != nil {
		return "", fmt.Errorf("insert appointment: %w", err)
	}
	log.Info().Int("doctor_id", a.DoctorID).Int("patient_id", a.PatientID).Msg("appointment created")
	return web.PathPatientAppointments, nil
}

// Doctors returns the doctor picker entries.
func (s *Service) Doctors(ctx context.Context, token string) ([]DoctorOption, error) {
	if s.doctors == nil {
		return nil, nil
	}
	return s.doctors.DoctorOptions(ctx, token)
}
