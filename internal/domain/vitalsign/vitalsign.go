// Package vitalsign accesses the vital sign measurements recorded during
// an encounter.
package vitalsign

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/careline/careline/internal/platform/api"
)

// VitalSign mirrors the backend vital sign resource. Measurements are
// pointers so an unrecorded value is distinguishable from a zero reading.
type VitalSign struct {
	ID                     int64    `json:"id"`
	EncounterID            int64    `json:"encounterId"`
	RecordedAt             string   `json:"recordedAt,omitempty"`
	TemperatureCelsius     *float64 `json:"temperatureCelsius,omitempty"`
	BloodPressureSystolic  *int     `json:"bloodPressureSystolic,omitempty"`
	BloodPressureDiastolic *int     `json:"bloodPressureDiastolic,omitempty"`
	HeartRateBpm           *int     `json:"heartRateBpm,omitempty"`
	RespiratoryRateRpm     *int     `json:"respiratoryRateRpm,omitempty"`
	SpO2Percentage         *float64 `json:"spo2Percentage,omitempty"`
	HeightCm               *float64 `json:"heightCm,omitempty"`
	WeightKg               *float64 `json:"weightKg,omitempty"`
	Notes                  string   `json:"notes,omitempty"`
}

type Service struct {
	client *api.Client
	logger zerolog.Logger
}

func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

func (s *Service) ByEncounter(ctx context.Context, encounterID int64) ([]VitalSign, error) {
	var vitals []VitalSign
	path := fmt.Sprintf("/vital-signs/encounter/%d", encounterID)
	if err := s.client.Get(ctx, path, &vitals); err != nil {
		return nil, err
	}
	return vitals, nil
}

func (s *Service) Record(ctx context.Context, v *VitalSign) (*VitalSign, error) {
	var recorded VitalSign
	if err := s.client.Post(ctx, "/vital-signs", v, &recorded); err != nil {
		return nil, err
	}
	return &recorded, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*VitalSign, error) {
	var v VitalSign
	if err := s.client.Get(ctx, fmt.Sprintf("/vital-signs/%d", id), &v); err != nil {
		return nil, err
	}
	return &v, nil
}
