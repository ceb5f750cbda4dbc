package doctor

// Doctor mirrors the backend doctor resource. Name and specialization may
// be absent for accounts that were provisioned before the profile fields
// became mandatory.
type Doctor struct {
	ID             int64  `json:"id"`
	FullName       string `json:"fullName,omitempty"`
	Username       string `json:"username,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	Email          string `json:"email,omitempty"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
}

// DisplayName prefers the profile name and falls back to the login name.
func (d *Doctor) DisplayName() string {
	if d.FullName != "" {
		return d.FullName
	}
	if d.Username != "" {
		return d.Username
	}
	return "Unknown"
}
