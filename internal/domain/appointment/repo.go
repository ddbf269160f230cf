package appointment

import (
	"context"
)

// Repository is the appointment API. Every call carries the caller's bearer
// token.
type Repository interface {
	List(ctx context.Context, token string) ([]Appointment, error)
	GetByID(ctx context.Context, token string, id int) (*Appointment, error)
	ListByDoctor(ctx context.Context, token string, doctorID int) ([]Appointment, error)
	ListByPatient(ctx context.Context, token string, patientID int) ([]Appointment, error)
	Insert(ctx context.Context, token string, a *Appointment) error
	Update(ctx context.Context, token string, a *Appointment) error
}

// DoctorLister supplies the doctor picker on the appointment form.
type DoctorLister interface {
	DoctorOptions(ctx context.Context, token string) ([]DoctorOption, error)
}
