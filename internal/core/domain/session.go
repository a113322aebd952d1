package domain

// Session is the persisted client state: an opaque bearer token and the
// last known user record. Either half may be missing.
type Session struct {
	Token string
	User  User
}

// Authenticated is true whenever a non-empty token is present, even if the
// profile is unknown.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Role returns the stored user's role, or "" when no profile is known.
func (s Session) Role() string {
	return string(s.User.Role())
}
