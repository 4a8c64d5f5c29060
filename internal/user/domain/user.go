package domain

import "time"

// Provider is where an account's identity comes from.
type Provider string

const (
	ProviderLocal  Provider = "LOCAL"
	ProviderGoogle Provider = "GOOGLE"
)

type User struct {
	BaseEntity
	Fullname      string
	Avatar        string
	Username      string
	Email         string // unique
	EmailVerified bool
	Provider      Provider
	ProviderID    string
	LastVisit     *time.Time
	PasswordHash  string // argon2id encoded, empty for OAuth2 accounts
	Roles         []Role
}

// Enabled reports whether the account may log in. Local accounts stay
// disabled until the email address is confirmed.
func (u *User) Enabled() bool { return u.EmailVerified }

// Authorities lists role names followed by the names of their privileges,
// without duplicates.
func (u *User) Authorities() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	for _, r := range u.Roles {
		add(r.Name)
	}
	for _, r := range u.Roles {
		for _, p := range r.Privileges {
			add(p.Name)
		}
	}
	return out
}
