package domain

// Principal is an authenticated user as seen by request handling: the user,
// its authorities and, after an OAuth2 login, the provider attributes.
type Principal struct {
	User        *User
	Authorities []string
	Attributes  map[string]any
}

// NewPrincipal builds a principal from a user with its roles loaded.
func NewPrincipal(u *User) *Principal {
	return &Principal{User: u, Authorities: u.Authorities()}
}

// Name returns the user id, the principal's identifier in tokens.
func (p *Principal) Name() string {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.ID
}
