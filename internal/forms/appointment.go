package forms

import "github.com/careline/careline/internal/domain/appointment"

// AppointmentDraft backs the booking and reschedule forms. Patient and
// doctor come in as selector values.
type AppointmentDraft struct {
	ID              int64
	PatientID       string `validate:"required"`
	DoctorID        string `validate:"required"`
	AppointmentDate string `validate:"required"`
	AppointmentTime string `validate:"required"`
	Reason          string
}

func (d *AppointmentDraft) Reset(initial *appointment.Appointment) {
	if initial == nil {
		*d = AppointmentDraft{}
		return
	}
	*d = AppointmentDraft{
		ID:              initial.ID,
		PatientID:       formatID(initial.PatientID),
		DoctorID:        formatID(initial.DoctorID),
		AppointmentDate: initial.AppointmentDate,
		AppointmentTime: initial.AppointmentTime,
		Reason:          initial.Reason,
	}
}

func (d *AppointmentDraft) Validate() Errors {
	errs := Errors{}
	runValidator(errs, d)
	if _, taken := errs["PatientID"]; !taken && parseID(d.PatientID) == 0 {
		errs["PatientID"] = "PatientID must be a valid selection."
	}
	if _, taken := errs["DoctorID"]; !taken && parseID(d.DoctorID) == 0 {
		errs["DoctorID"] = "DoctorID must be a valid selection."
	}
	if _, taken := errs["AppointmentDate"]; !taken {
		wellFormedDate(errs, "AppointmentDate", d.AppointmentDate)
	}
	return errs
}

func (d *AppointmentDraft) Payload() *appointment.Appointment {
	return &appointment.Appointment{
		ID:              d.ID,
		PatientID:       parseID(d.PatientID),
		DoctorID:        parseID(d.DoctorID),
		AppointmentDate: d.AppointmentDate,
		AppointmentTime: d.AppointmentTime,
		Reason:          d.Reason,
		Status:          appointment.StatusScheduled,
	}
}
