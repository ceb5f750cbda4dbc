package forms

import "github.com/careline/careline/internal/domain/encounter"

// EncounterDraft backs the open-encounter form. AppointmentID is optional;
// leaving it empty records a walk-in.
type EncounterDraft struct {
	PatientID         string `validate:"required"`
	DoctorID          string `validate:"required"`
	AppointmentID     string
	EncounterDatetime string `validate:"required"`
	EncounterType     string `validate:"required"`
	ChiefComplaint    string
}

func (d *EncounterDraft) Reset(initial *encounter.Encounter) {
	if initial == nil {
		*d = EncounterDraft{EncounterType: encounter.TypeConsultation}
		return
	}
	appointmentID := ""
	if initial.AppointmentID != nil {
		appointmentID = formatID(*initial.AppointmentID)
	}
	*d = EncounterDraft{
		PatientID:         formatID(initial.PatientID),
		DoctorID:          formatID(initial.DoctorID),
		AppointmentID:     appointmentID,
		EncounterDatetime: initial.EncounterDatetime,
		EncounterType:     initial.EncounterType,
		ChiefComplaint:    initial.ChiefComplaint,
	}
}

func (d *EncounterDraft) Validate() Errors {
	errs := Errors{}
	runValidator(errs, d)
	if _, taken := errs["PatientID"]; !taken && parseID(d.PatientID) == 0 {
		errs["PatientID"] = "PatientID must be a valid selection."
	}
	if _, taken := errs["DoctorID"]; !taken && parseID(d.DoctorID) == 0 {
		errs["DoctorID"] = "DoctorID must be a valid selection."
	}
	if _, taken := errs["EncounterDatetime"]; !taken {
		wellFormedDatetime(errs, "EncounterDatetime", d.EncounterDatetime)
	}
	return errs
}

func (d *EncounterDraft) Payload() *encounter.Encounter {
	e := &encounter.Encounter{
		PatientID:         parseID(d.PatientID),
		DoctorID:          parseID(d.DoctorID),
		EncounterDatetime: d.EncounterDatetime,
		EncounterType:     d.EncounterType,
		ChiefComplaint:    d.ChiefComplaint,
	}
	if id := parseID(d.AppointmentID); id != 0 {
		e.AppointmentID = &id
	}
	return e
}
