package encounter

// Encounter types the backend accepts.
const (
	TypeConsultation = "CONSULTATION"
	TypeFollowUp     = "FOLLOW_UP"
	TypeEmergency    = "EMERGENCY"
	TypeRoutineCheck = "ROUTINE_CHECKUP"
)

// Encounter mirrors the backend encounter resource. AppointmentID is nil
// for walk-in encounters.
type Encounter struct {
	ID                int64  `json:"id"`
	PatientID         int64  `json:"patientId"`
	PatientFullName   string `json:"patientFullName,omitempty"`
	DoctorID          int64  `json:"doctorId"`
	DoctorFullName    string `json:"doctorFullName,omitempty"`
	AppointmentID     *int64 `json:"appointmentId,omitempty"`
	EncounterDatetime string `json:"encounterDatetime"` // YYYY-MM-DDTHH:MM
	EncounterType     string `json:"encounterType"`
	ChiefComplaint    string `json:"chiefComplaint,omitempty"`
}
