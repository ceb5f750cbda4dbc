package console

import (
	"context"
	"errors"

	"github.com/careline/careline/internal/forms"
	"github.com/careline/careline/internal/platform/api"
)

// ErrSubmitInFlight is returned when a submission arrives while a previous
// one is still running.
var ErrSubmitInFlight = errors.New("a submission is already in progress")

// submit runs one guarded form submission: validation failures and backend
// errors are rendered form-level and the draft stays as typed.
func (p *Pages) submit(errs forms.Errors, send func() error) error {
	if !errs.Valid() {
		p.Renderer.Error("%s", errs.Joined())
		return errors.New(errs.Joined())
	}
	if !p.beginSubmit() {
		p.Renderer.Warn("%s", ErrSubmitInFlight.Error())
		return ErrSubmitInFlight
	}
	defer p.endSubmit()

	if err := send(); err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			p.Renderer.Error("%s", apiErr.Message)
		} else {
			p.Renderer.Error("Request failed. Please try again.")
		}
		return err
	}
	return nil
}

// CreatePatient validates and submits a new-patient draft.
func (p *Pages) CreatePatient(ctx context.Context, draft *forms.PatientDraft) error {
	return p.submit(draft.Validate(), func() error {
		created, err := p.Patients.Create(ctx, draft.Payload())
		if err != nil {
			return err
		}
		p.Renderer.Success("Patient %s created with ID %d.", created.FullName(), created.ID)
		return nil
	})
}

// UpdatePatient validates and submits an edit-patient draft.
func (p *Pages) UpdatePatient(ctx context.Context, draft *forms.PatientDraft) error {
	return p.submit(draft.Validate(), func() error {
		updated, err := p.Patients.Update(ctx, draft.ID, draft.Payload())
		if err != nil {
			return err
		}
		p.Renderer.Success("Patient %d updated.", updated.ID)
		return nil
	})
}

// BookAppointment validates and submits an appointment draft.
func (p *Pages) BookAppointment(ctx context.Context, draft *forms.AppointmentDraft) error {
	return p.submit(draft.Validate(), func() error {
		created, err := p.Appointments.Create(ctx, draft.Payload())
		if err != nil {
			return err
		}
		p.Renderer.Success("Appointment #%d booked for %s %s.", created.ID, created.AppointmentDate, created.AppointmentTime)
		return nil
	})
}

// CancelAppointment enforces the local cancellable check before calling
// the backend.
func (p *Pages) CancelAppointment(ctx context.Context, id int64) error {
	a, err := p.Appointments.Get(ctx, id)
	if err != nil {
		p.pageError(err, "Failed to fetch appointment.")
		return err
	}
	if !a.CanCancel() {
		p.Renderer.Warn("Appointment #%d is %s and cannot be cancelled.", a.ID, a.Status)
		return nil
	}
	if err := p.Appointments.Cancel(ctx, id); err != nil {
		p.pageError(err, "Failed to cancel appointment.")
		return err
	}
	p.Renderer.Success("Appointment #%d cancelled.", id)
	return nil
}

// OpenEncounter validates and submits an encounter draft.
func (p *Pages) OpenEncounter(ctx context.Context, draft *forms.EncounterDraft) error {
	return p.submit(draft.Validate(), func() error {
		created, err := p.Encounters.Create(ctx, draft.Payload())
		if err != nil {
			return err
		}
		p.Renderer.Success("Encounter #%d opened.", created.ID)
		return nil
	})
}

// ManageConsultationNote fetches the encounter and any existing note,
// seeds the draft, applies edits through mutate, and saves.
func (p *Pages) ManageConsultationNote(ctx context.Context, encounterID int64, mutate func(*forms.ConsultationNoteDraft)) error {
	if _, err := p.Encounters.Get(ctx, encounterID); err != nil {
		p.pageError(err, "Failed to load encounter.")
		return err
	}
	existing, err := p.Notes.ByEncounter(ctx, encounterID)
	if err != nil && !api.IsNotFound(err) {
		p.pageError(err, "Failed to load consultation note.")
		return err
	}

	var draft forms.ConsultationNoteDraft
	draft.Reset(encounterID, existing)
	mutate(&draft)

	return p.submit(draft.Validate(), func() error {
		saved, err := p.Notes.SaveOrUpdate(ctx, draft.Payload())
		if err != nil {
			return err
		}
		p.Renderer.Success("Consultation note saved (ID %d).", saved.ID)
		return nil
	})
}

// RecordVitals validates and submits a vitals draft for the encounter.
func (p *Pages) RecordVitals(ctx context.Context, encounterID int64, mutate func(*forms.VitalSignsDraft)) error {
	if _, err := p.Encounters.Get(ctx, encounterID); err != nil {
		p.pageError(err, "Failed to load encounter.")
		return err
	}
	var draft forms.VitalSignsDraft
	draft.Reset(encounterID)
	mutate(&draft)

	return p.submit(draft.Validate(), func() error {
		recorded, err := p.Vitals.Record(ctx, draft.Payload())
		if err != nil {
			return err
		}
		p.Renderer.Success("Vital signs recorded (ID %d).", recorded.ID)
		return nil
	})
}

// AddDiagnosis validates and submits a diagnosis draft for the encounter.
func (p *Pages) AddDiagnosis(ctx context.Context, encounterID int64, mutate func(*forms.DiagnosisDraft)) error {
	if _, err := p.Encounters.Get(ctx, encounterID); err != nil {
		p.pageError(err, "Failed to load encounter.")
		return err
	}
	var draft forms.DiagnosisDraft
	draft.Reset(encounterID)
	mutate(&draft)

	return p.submit(draft.Validate(), func() error {
		added, err := p.Diagnoses.Add(ctx, draft.Payload())
		if err != nil {
			return err
		}
		p.Renderer.Success("Diagnosis %s recorded (ID %d).", added.DiagnosisCode, added.ID)
		return nil
	})
}

// ManagePrescription seeds from the encounter's existing prescription when
// one was issued, so saving updates it instead of colliding with the
// one-per-encounter rule.
func (p *Pages) ManagePrescription(ctx context.Context, encounterID int64, mutate func(*forms.PrescriptionDraft)) error {
	if _, err := p.Encounters.Get(ctx, encounterID); err != nil {
		p.pageError(err, "Failed to load encounter.")
		return err
	}
	existing, err := p.Prescriptions.ByEncounter(ctx, encounterID)
	if err != nil && !api.IsNotFound(err) {
		p.pageError(err, "Failed to load prescription.")
		return err
	}

	var draft forms.PrescriptionDraft
	draft.Reset(encounterID, existing)
	mutate(&draft)

	return p.submit(draft.Validate(), func() error {
		payload := draft.Payload()
		if draft.ID != 0 {
			updated, err := p.Prescriptions.Update(ctx, draft.ID, payload)
			if err != nil {
				return err
			}
			p.Renderer.Success("Prescription #%d updated.", updated.ID)
			return nil
		}
		created, err := p.Prescriptions.Create(ctx, payload)
		if err != nil {
			return err
		}
		p.Renderer.Success("Prescription #%d issued.", created.ID)
		return nil
	})
}

// OrderLabs validates and submits a lab order draft for the encounter.
func (p *Pages) OrderLabs(ctx context.Context, encounterID int64, mutate func(*forms.LabOrderDraft)) error {
	if _, err := p.Encounters.Get(ctx, encounterID); err != nil {
		p.pageError(err, "Failed to load encounter.")
		return err
	}
	var draft forms.LabOrderDraft
	draft.Reset(encounterID)
	mutate(&draft)

	return p.submit(draft.Validate(), func() error {
		created, err := p.LabOrders.Create(ctx, draft.Payload())
		if err != nil {
			return err
		}
		p.Renderer.Success("Lab order #%d placed with %d test(s).", created.ID, len(created.Items))
		return nil
	})
}

// FileLabResult validates and files a result for one ordered test.
func (p *Pages) FileLabResult(ctx context.Context, draft *forms.LabResultDraft) error {
	return p.submit(draft.Validate(), func() error {
		updated, err := p.LabOrders.UpdateItemResult(ctx, draft.OrderID, draft.ItemID, draft.Payload())
		if err != nil {
			return err
		}
		p.Renderer.Success("Result filed for order #%d.", updated.ID)
		return nil
	})
}
