package patient

import (
	"github.com/ehr/appointment-ui/pkg/civil"
)

// Patient is a patient account as exchanged with the appointment API. The
// same struct backs the registration form.
type Patient struct {
	PatientID       int        `json:"patientID"`
	PatientName     string     `json:"patientName" form:"patientName" label:"Name" validate:"required,max=100"`
	Username        string     `json:"username" form:"username" label:"Username" validate:"required,max=50"`
	Password        string     `json:"password" form:"password" label:"Password" validate:"required,min=6,max=100"`
	ConfirmPassword string     `json:"confirmPassword" form:"confirmPassword" label:"Confirm password" validate:"required,eqfield=Password"`
	Gender          string     `json:"gender" form:"gender" label:"Gender" validate:"required,max=10"`
	DateOfBirth     civil.Date `json:"dateOfBirth" form:"dateOfBirth" label:"Date of birth" validate:"required"`
}
