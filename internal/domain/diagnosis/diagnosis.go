// Package diagnosis accesses the diagnoses recorded for encounters and
// patients.
package diagnosis

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/careline/careline/internal/platform/api"
)

// Diagnosis mirrors the backend diagnosis resource.
type Diagnosis struct {
	ID                  int64  `json:"id"`
	EncounterID         int64  `json:"encounterId"`
	DiagnosisCode       string `json:"diagnosisCode"`
	DiagnosisCodeSystem string `json:"diagnosisCodeSystem,omitempty"`
	Description         string `json:"description,omitempty"`
	DiagnosisDate       string `json:"diagnosisDate,omitempty"` // YYYY-MM-DD
	IsChronic           bool   `json:"isChronic"`
}

type Service struct {
	client *api.Client
	logger zerolog.Logger
}

func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

func (s *Service) ByEncounter(ctx context.Context, encounterID int64) ([]Diagnosis, error) {
	var diagnoses []Diagnosis
	path := fmt.Sprintf("/diagnoses/encounter/%d", encounterID)
	if err := s.client.Get(ctx, path, &diagnoses); err != nil {
		return nil, err
	}
	return diagnoses, nil
}

func (s *Service) ByPatient(ctx context.Context, patientID int64) ([]Diagnosis, error) {
	var diagnoses []Diagnosis
	path := fmt.Sprintf("/diagnoses/patient/%d", patientID)
	if err := s.client.Get(ctx, path, &diagnoses); err != nil {
		return nil, err
	}
	return diagnoses, nil
}

func (s *Service) Add(ctx context.Context, d *Diagnosis) (*Diagnosis, error) {
	var added Diagnosis
	if err := s.client.Post(ctx, "/diagnoses", d, &added); err != nil {
		return nil, err
	}
	return &added, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Diagnosis, error) {
	var d Diagnosis
	if err := s.client.Get(ctx, fmt.Sprintf("/diagnoses/%d", id), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Service) Update(ctx context.Context, id int64, d *Diagnosis) (*Diagnosis, error) {
	var updated Diagnosis
	if err := s.client.Put(ctx, fmt.Sprintf("/diagnoses/%d", id), d, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
