// Package prescription accesses prescriptions and the medication catalog
// that backs the prescribing form.
package prescription

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/careline/careline/internal/domain/selector"
	"github.com/careline/careline/internal/platform/api"
)

// Item is one medication line on a prescription.
type Item struct {
	ID             int64  `json:"id,omitempty"`
	MedicationID   int64  `json:"medicationId"`
	MedicationName string `json:"medicationName,omitempty"`
	Dosage         string `json:"dosage"`
	Frequency      string `json:"frequency"`
	Duration       string `json:"duration,omitempty"`
	Instructions   string `json:"instructions,omitempty"`
}

// Prescription mirrors the backend prescription resource. The backend
// allows at most one per encounter.
type Prescription struct {
	ID               int64  `json:"id"`
	EncounterID      int64  `json:"encounterId"`
	PrescriptionDate string `json:"prescriptionDate,omitempty"` // YYYY-MM-DD
	Notes            string `json:"notes,omitempty"`
	Items            []Item `json:"items"`
}

// Medication is a catalog entry used when composing prescription items.
type Medication struct {
	ID             int64  `json:"id"`
	MedicationName string `json:"medicationName"`
	Strength       string `json:"strength,omitempty"`
	Form           string `json:"form,omitempty"`
}

type Service struct {
	client *api.Client
	logger zerolog.Logger
}

func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

func (s *Service) Create(ctx context.Context, p *Prescription) (*Prescription, error) {
	var created Prescription
	if err := s.client.Post(ctx, "/prescriptions", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces an existing prescription's items and notes. Creating a
// second prescription for the same encounter is a backend error, so edits
// of an issued prescription must come through here.
func (s *Service) Update(ctx context.Context, id int64, p *Prescription) (*Prescription, error) {
	var updated Prescription
	if err := s.client.Put(ctx, fmt.Sprintf("/prescriptions/%d", id), p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Prescription, error) {
	var p Prescription
	if err := s.client.Get(ctx, fmt.Sprintf("/prescriptions/%d", id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ByEncounter fetches the encounter's prescription. The backend answers
// 404 when none was issued.
func (s *Service) ByEncounter(ctx context.Context, encounterID int64) (*Prescription, error) {
	var p Prescription
	path := fmt.Sprintf("/prescriptions/encounter/%d", encounterID)
	if err := s.client.Get(ctx, path, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) ByPatient(ctx context.Context, patientID int64) ([]Prescription, error) {
	var prescriptions []Prescription
	path := fmt.Sprintf("/prescriptions/patient/%d", patientID)
	if err := s.client.Get(ctx, path, &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}

// SearchMedications queries the medication catalog for the prescribing
// form's selector. Short terms skip the network entirely and failures
// degrade to an empty list.
func (s *Service) SearchMedications(ctx context.Context, term string) []selector.Option {
	if selector.TooShort(term) {
		return []selector.Option{}
	}
	var meds []Medication
	path := "/medications?name=" + url.QueryEscape(term)
	if err := s.client.Get(ctx, path, &meds); err != nil {
		s.logger.Warn().Err(err).Str("term", term).Msg("medication search failed")
		return []selector.Option{}
	}
	options := make([]selector.Option, 0, len(meds))
	for _, m := range meds {
		strength, form := m.Strength, m.Form
		if strength == "" {
			strength = "N/A"
		}
		if form == "" {
			form = "N/A"
		}
		options = append(options, selector.Option{
			Value: m.ID,
			Label: fmt.Sprintf("%s (%s, %s)", m.MedicationName, strength, form),
		})
	}
	return options
}
