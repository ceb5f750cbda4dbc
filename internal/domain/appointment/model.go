package appointment

// Appointment lifecycle states as the backend reports them.
const (
	StatusScheduled = "SCHEDULED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// Appointment mirrors the backend appointment resource.
type Appointment struct {
	ID              int64  `json:"id"`
	PatientID       int64  `json:"patientId"`
	PatientName     string `json:"patientName,omitempty"`
	DoctorID        int64  `json:"doctorId"`
	DoctorName      string `json:"doctorName,omitempty"`
	AppointmentDate string `json:"appointmentDate"` // YYYY-MM-DD
	AppointmentTime string `json:"appointmentTime"` // HH:MM
	Reason          string `json:"reason,omitempty"`
	Status          string `json:"status"`
}

// CanCancel reports whether the appointment is still in a cancellable state.
func (a *Appointment) CanCancel() bool {
	return a.Status == StatusScheduled
}
