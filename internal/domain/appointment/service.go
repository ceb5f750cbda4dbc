package appointment

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/careline/careline/internal/domain/selector"
	"github.com/careline/careline/internal/platform/api"
)

// Service maps appointment operations onto the backend /appointments
// resource.
type Service struct {
	client *api.Client
	logger zerolog.Logger
}

func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Appointment, error) {
	var appts []Appointment
	if err := s.client.Get(ctx, "/appointments", &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	var a Appointment
	if err := s.client.Get(ctx, fmt.Sprintf("/appointments/%d", id), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Service) Create(ctx context.Context, a *Appointment) (*Appointment, error) {
	var created Appointment
	if err := s.client.Post(ctx, "/appointments", a, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]Appointment, error) {
	var appts []Appointment
	path := fmt.Sprintf("/appointments/patient/%d", patientID)
	if err := s.client.Get(ctx, path, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID int64) ([]Appointment, error) {
	var appts []Appointment
	path := fmt.Sprintf("/appointments/doctor/%d", doctorID)
	if err := s.client.Get(ctx, path, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

// ForDoctorByDate narrows a doctor's schedule to a single day. The date is
// passed through as YYYY-MM-DD.
func (s *Service) ForDoctorByDate(ctx context.Context, doctorID int64, date string) ([]Appointment, error) {
	var appts []Appointment
	path := fmt.Sprintf("/appointments/doctor/%d/date?date=%s", doctorID, url.QueryEscape(date))
	if err := s.client.Get(ctx, path, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

func (s *Service) ForPatientByDate(ctx context.Context, patientID int64, date string) ([]Appointment, error) {
	var appts []Appointment
	path := fmt.Sprintf("/appointments/patient/%d/date?date=%s", patientID, url.QueryEscape(date))
	if err := s.client.Get(ctx, path, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

// UpdateStatus moves an appointment to a new lifecycle state. The backend
// takes the state as a query parameter, not a body.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*Appointment, error) {
	var updated Appointment
	path := fmt.Sprintf("/appointments/%d/status?status=%s", id, url.QueryEscape(status))
	if err := s.client.Patch(ctx, path, nil, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Reschedule changes the date and time of an existing appointment.
func (s *Service) Reschedule(ctx context.Context, id int64, date, timeOfDay string) (*Appointment, error) {
	var updated Appointment
	body := map[string]string{
		"appointmentDate": date,
		"appointmentTime": timeOfDay,
	}
	path := fmt.Sprintf("/appointments/%d/reschedule", id)
	if err := s.client.Put(ctx, path, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) Cancel(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/appointments/%d/cancel", id), nil)
}

// LinkableOptions lists a patient's appointments an encounter can still be
// opened against. Completed and cancelled appointments are excluded.
func (s *Service) LinkableOptions(ctx context.Context, patientID int64) []selector.Option {
	appts, err := s.ListByPatient(ctx, patientID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("patient_id", patientID).Msg("failed to load appointments for selector")
		return []selector.Option{}
	}
	options := make([]selector.Option, 0, len(appts))
	for _, a := range appts {
		if a.Status == StatusCompleted || a.Status == StatusCancelled {
			continue
		}
		options = append(options, selector.Option{
			Value: a.ID,
			Label: fmt.Sprintf("Appt. ID: %d - %s %s with Dr. %s", a.ID, a.AppointmentDate, a.AppointmentTime, a.DoctorName),
		})
	}
	return options
}
