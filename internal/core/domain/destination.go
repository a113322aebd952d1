package domain

// Destination is a page the client navigates to after an auth transition.
type Destination string

const (
	DestinationLogin  Destination = "/login.html"
	DestinationSignup Destination = "/signup.html"
)

// DashboardFor maps a role to its dashboard. Unknown and empty roles always
// land on the login page.
func DashboardFor(role string) Destination {
	r := Role(role)
	if !r.Valid() {
		return DestinationLogin
	}
	return Destination("/dashboard-" + string(r) + ".html")
}

// IsDashboard reports whether d is one of the role dashboards.
func (d Destination) IsDashboard() bool {
	for _, r := range Roles {
		if d == DashboardFor(string(r)) {
			return true
		}
	}
	return false
}
