package forms

import "github.com/careline/careline/internal/domain/patient"

// PatientDraft backs both the new-patient and edit-patient forms.
type PatientDraft struct {
	ID                    int64
	FirstName             string `validate:"required"`
	MiddleName            string
	LastName              string `validate:"required"`
	DateOfBirth           string `validate:"required"`
	Gender                string `validate:"required"`
	AddressLine1          string
	AddressLine2          string
	City                  string
	State                 string
	PostalCode            string
	Country               string
	PhoneNumber           string
	Email                 string `validate:"omitempty,email"`
	EmergencyContactName  string
	EmergencyContactPhone string
	InsuranceProvider     string
	InsurancePolicyNumber string
}

// Reset seeds the draft from an existing patient for editing, or clears it
// for creation. Switching from edit back to create drops all stale values.
func (d *PatientDraft) Reset(initial *patient.Patient) {
	if initial == nil {
		*d = PatientDraft{}
		return
	}
	*d = PatientDraft{
		ID:                    initial.ID,
		FirstName:             initial.FirstName,
		MiddleName:            initial.MiddleName,
		LastName:              initial.LastName,
		DateOfBirth:           initial.DateOfBirth,
		Gender:                initial.Gender,
		AddressLine1:          initial.AddressLine1,
		AddressLine2:          initial.AddressLine2,
		City:                  initial.City,
		State:                 initial.State,
		PostalCode:            initial.PostalCode,
		Country:               initial.Country,
		PhoneNumber:           initial.PhoneNumber,
		Email:                 initial.Email,
		EmergencyContactName:  initial.EmergencyContactName,
		EmergencyContactPhone: initial.EmergencyContactPhone,
		InsuranceProvider:     initial.InsuranceProvider,
		InsurancePolicyNumber: initial.InsurancePolicyNumber,
	}
}

func (d *PatientDraft) Validate() Errors {
	errs := Errors{}
	runValidator(errs, d)
	if _, taken := errs["DateOfBirth"]; !taken {
		pastDate(errs, "DateOfBirth", d.DateOfBirth)
	}
	return errs
}

func (d *PatientDraft) Payload() *patient.Patient {
	return &patient.Patient{
		ID:                    d.ID,
		FirstName:             d.FirstName,
		MiddleName:            d.MiddleName,
		LastName:              d.LastName,
		DateOfBirth:           d.DateOfBirth,
		Gender:                d.Gender,
		AddressLine1:          d.AddressLine1,
		AddressLine2:          d.AddressLine2,
		City:                  d.City,
		State:                 d.State,
		PostalCode:            d.PostalCode,
		Country:               d.Country,
		PhoneNumber:           d.PhoneNumber,
		Email:                 d.Email,
		EmergencyContactName:  d.EmergencyContactName,
		EmergencyContactPhone: d.EmergencyContactPhone,
		InsuranceProvider:     d.InsuranceProvider,
		InsurancePolicyNumber: d.InsurancePolicyNumber,
	}
}
