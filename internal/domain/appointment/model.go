package appointment

import (
	"github.com/ehr/appointment-ui/pkg/civil"
)

// Appointment is a booking between a patient and a doctor as exchanged with
// the appointment API. AppointmentID 0 means the appointment does not exist
// yet.
type Appointment struct {
	AppointmentID      int             `json:"appointmentID" form:"appointmentID"`
	PatientID          int             `json:"patientID" form:"patientID" label:"Patient" validate:"required"`
	DoctorID           int             `json:"doctorID" form:"doctorID" label:"Doctor" validate:"required"`
	AppointmentDate    civil.Date      `json:"appointmentDate" form:"appointmentDate" label:"Date" validate:"required"`
	AppointmentTime    civil.TimeOfDay `json:"appointmentTime" form:"appointmentTime" label:"Time" validate:"required"`
	AppointmentStatus  string          `json:"appointmentStatus" form:"appointmentStatus" label:"Status" validate:"required,max=20"`
	PurposeDescription string          `json:"purposeDescription" form:"purposeDescription" label:"Purpose" validate:"max=250"`
}

// IsNew reports whether saving a should insert rather than update.
func (a *Appointment) IsNew() bool {
	return a.AppointmentID <= 0
}

// DoctorOption is one entry of the doctor picker.
type DoctorOption struct {
	ID    int
	Label string
}
