package doctor

import (
	"fmt"

	"github.com/ehr/appointment-ui/internal/domain/appointment"
)

// Doctor is a doctor account as exchanged with the appointment API. The same
// struct backs the registration form.
type Doctor struct {
	DoctorID                int    `json:"doctorID"`
	DoctorName              string `json:"doctorName" form:"doctorName" label:"Name" validate:"required,max=100"`
	Username                string `json:"username" form:"username" label:"Username" validate:"required,max=50"`
	Password                string `json:"password" form:"password" label:"Password" validate:"required,min=6,max=100"`
	ConfirmPassword         string `json:"confirmPassword" form:"confirmPassword" label:"Confirm password" validate:"required,eqfield=Password"`
	Gender                  string `json:"gender" form:"gender" label:"Gender" validate:"required,max=10"`
	DoctorSpecialization    string `json:"doctorSpecialization" form:"doctorSpecialization" label:"Specialization" validate:"required,max=100"`
	DoctorYearsOfExperience int    `json:"doctorYearsOfExperience" form:"doctorYearsOfExperience" label:"Years of experience" validate:"gte=0,lte=100"`
}

// Option is the doctor as shown in the appointment form's picker.
func (d *Doctor) Option() appointment.DoctorOption {
	label := d.DoctorName
	switch {
	case label == "":
		label = d.DoctorSpecialization
	case d.DoctorSpecialization != "":
		label = fmt.Sprintf("%s (%s)", d.DoctorName, d.DoctorSpecialization)
	}
	return appointment.DoctorOption{ID: d.DoctorID, Label: label}
}
