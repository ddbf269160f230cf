package auth

import "github.com/ehr/appointment-ui/internal/platform/web"

// Role is the designation carried in the token's "role" claim.
type Role string

const (
	RoleDoctor  Role = "Doctor"
	RolePatient Role = "Patient"
)

// Known reports whether r is one of the roles the UI has a dashboard for.
func (r Role) Known() bool {
	return r == RoleDoctor || r == RolePatient
}

// RouteForRole maps a role to the screen a signed-in user lands on. Any
// unknown or empty role lands on the login screen.
func RouteForRole(r Role) string {
	switch r {
	case RoleDoctor:
		return web.PathDoctorDashboard
	case RolePatient:
		return web.PathPatientDashboard
	default:
		return web.PathLogin
	}
}
