package forms

import "github.com/careline/careline/internal/platform/session"

// LoginDraft backs the login form.
type LoginDraft struct {
	UsernameOrEmail string `validate:"required"`
	Password        string `validate:"required"`
}

func (d *LoginDraft) Reset() { *d = LoginDraft{} }

func (d *LoginDraft) Validate() Errors {
	errs := Errors{}
	runValidator(errs, d)
	return errs
}

// RegistrationDraft backs the self-registration form. ConfirmPassword is
// checked locally and never sent to the backend.
type RegistrationDraft struct {
	FullName        string `validate:"required"`
	Username        string `validate:"required,min=3"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required"`
}

func (d *RegistrationDraft) Reset() { *d = RegistrationDraft{} }

func (d *RegistrationDraft) Validate() Errors {
	errs := Errors{}
	runValidator(errs, d)
	if _, taken := errs["ConfirmPassword"]; !taken && d.Password != d.ConfirmPassword {
		errs["ConfirmPassword"] = "Passwords do not match."
	}
	return errs
}

func (d *RegistrationDraft) Payload() *session.RegisterRequest {
	return &session.RegisterRequest{
		FullName: d.FullName,
		Username: d.Username,
		Email:    d.Email,
		Password: d.Password,
	}
}
