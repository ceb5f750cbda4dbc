package patient

import "fmt"

// Patient mirrors the backend patient resource.
type Patient struct {
	ID                    int64  `json:"id"`
	FirstName             string `json:"firstName"`
	MiddleName            string `json:"middleName,omitempty"`
	LastName              string `json:"lastName"`
	DateOfBirth           string `json:"dateOfBirth"` // YYYY-MM-DD
	Gender                string `json:"gender"`
	AddressLine1          string `json:"addressLine1,omitempty"`
	AddressLine2          string `json:"addressLine2,omitempty"`
	City                  string `json:"city,omitempty"`
	State                 string `json:"state,omitempty"`
	PostalCode            string `json:"postalCode,omitempty"`
	Country               string `json:"country,omitempty"`
	PhoneNumber           string `json:"phoneNumber,omitempty"`
	Email                 string `json:"email,omitempty"`
	EmergencyContactName  string `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone string `json:"emergencyContactPhone,omitempty"`
	InsuranceProvider     string `json:"insuranceProvider,omitempty"`
	InsurancePolicyNumber string `json:"insurancePolicyNumber,omitempty"`
}

// FullName joins first and last name for display.
func (p *Patient) FullName() string {
	return fmt.Sprintf("%s %s", p.FirstName, p.LastName)
}
