package encounter

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/careline/careline/internal/domain/consultnote"
	"github.com/careline/careline/internal/domain/diagnosis"
	"github.com/careline/careline/internal/domain/laborder"
	"github.com/careline/careline/internal/domain/prescription"
	"github.com/careline/careline/internal/domain/vitalsign"
	"github.com/careline/careline/internal/platform/api"
)

// Details is the full clinical picture of one encounter. Note and
// Prescription are nil when nothing was recorded; the slices are empty,
// never nil, in that case.
type Details struct {
	Encounter    *Encounter
	Note         *consultnote.Note
	VitalSigns   []vitalsign.VitalSign
	Diagnoses    []diagnosis.Diagnosis
	Prescription *prescription.Prescription
	LabOrders    []laborder.LabOrder
}

// The loader depends on one read per clinical record type, not on the full
// services.
type (
	EncounterGetter interface {
		Get(ctx context.Context, id int64) (*Encounter, error)
	}
	NoteSource interface {
		ByEncounter(ctx context.Context, encounterID int64) (*consultnote.Note, error)
	}
	VitalSource interface {
		ByEncounter(ctx context.Context, encounterID int64) ([]vitalsign.VitalSign, error)
	}
	DiagnosisSource interface {
		ByEncounter(ctx context.Context, encounterID int64) ([]diagnosis.Diagnosis, error)
	}
	PrescriptionSource interface {
		ByEncounter(ctx context.Context, encounterID int64) (*prescription.Prescription, error)
	}
	LabOrderSource interface {
		ByEncounter(ctx context.Context, encounterID int64) ([]laborder.LabOrder, error)
	}
)

// DetailsLoader assembles Details by fanning out to the clinical record
// sources.
type DetailsLoader struct {
	Encounters    EncounterGetter
	Notes         NoteSource
	Vitals        VitalSource
	Diagnoses     DiagnosisSource
	Prescriptions PrescriptionSource
	LabOrders     LabOrderSource
	Logger        zerolog.Logger
}

// Load fetches the encounter and then its clinical records concurrently.
// Only the encounter fetch itself can fail the load: a record source that
// answers 404 means nothing was recorded, and any other source error is
// logged and leaves that section empty so the rest of the record still
// renders.
func (l *DetailsLoader) Load(ctx context.Context, encounterID int64) (*Details, error) {
	enc, err := l.Encounters.Get(ctx, encounterID)
	if err != nil {
		return nil, err
	}

	d := &Details{
		Encounter:  enc,
		VitalSigns: []vitalsign.VitalSign{},
		Diagnoses:  []diagnosis.Diagnosis{},
		LabOrders:  []laborder.LabOrder{},
	}

	// Each goroutine owns exactly one field of d and always returns nil,
	// so every fetch runs to completion regardless of the others.
	var g errgroup.Group

	g.Go(func() error {
		note, err := l.Notes.ByEncounter(ctx, encounterID)
		if err != nil {
			l.observe(err, encounterID, "consultation note")
			return nil
		}
		d.Note = note
		return nil
	})

	g.Go(func() error {
		vitals, err := l.Vitals.ByEncounter(ctx, encounterID)
		if err != nil {
			l.observe(err, encounterID, "vital signs")
			return nil
		}
		if vitals != nil {
			d.VitalSigns = vitals
		}
		return nil
	})

	g.Go(func() error {
		diagnoses, err := l.Diagnoses.ByEncounter(ctx, encounterID)
		if err != nil {
			l.observe(err, encounterID, "diagnoses")
			return nil
		}
		if diagnoses != nil {
			d.Diagnoses = diagnoses
		}
		return nil
	})

	g.Go(func() error {
		pres, err := l.Prescriptions.ByEncounter(ctx, encounterID)
		if err != nil {
			l.observe(err, encounterID, "prescription")
			return nil
		}
		d.Prescription = pres
		return nil
	})

	g.Go(func() error {
		orders, err := l.LabOrders.ByEncounter(ctx, encounterID)
		if err != nil {
			l.observe(err, encounterID, "lab orders")
			return nil
		}
		if orders != nil {
			d.LabOrders = orders
		}
		return nil
	})

	_ = g.Wait()
	return d, nil
}

// observe logs non-404 sub-fetch failures. A 404 is the backend's way of
// saying the record does not exist yet and is not worth a log line.
func (l *DetailsLoader) observe(err error, encounterID int64, section string) {
	if api.IsNotFound(err) {
		return
	}
	l.Logger.Warn().
		Err(err).
		Int64("encounter_id", encounterID).
		Str("section", section).
		Msg("failed to load encounter section")
}
