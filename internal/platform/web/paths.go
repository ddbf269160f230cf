package web

import "strconv"

// Browser-facing routes. Handlers redirect with these so that every screen
// has a single canonical URL.
const (
	PathHome    = "/"
	PathPrivacy = "/privacy"
	PathError   = "/error"
	PathHealth  = "/health"

	PathLogin  = "/login"
	PathLogout = "/logout"

	PathDoctorRegister     = "/doctor/register"
	PathDoctorDashboard    = "/doctor/dashboard"
	PathDoctorAppointments = "/doctor/appointments"

	PathPatientRegister     = "/patient/register"
	PathPatientDashboard    = "/patient/dashboard"
	PathPatientAppointments = "/patient/appointments"

	PathAppointments      = "/appointments"
	PathManageAppointment = "/appointments/manage"
	PathSaveAppointment   = "/appointments/save"
	PathEditAppointment   = "/appointments/edit"
)

// EditAppointmentPath is the edit screen for one appointment.
func EditAppointmentPath(id int) string {
	return PathAppointments + "/" + strconv.Itoa(id) + "/edit"
}
