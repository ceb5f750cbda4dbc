package encounter

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/careline/careline/internal/platform/api"
)

// Service maps encounter operations onto the backend /encounters resource.
type Service struct {
	client *api.Client
	logger zerolog.Logger
}

func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

func (s *Service) Create(ctx context.Context, e *Encounter) (*Encounter, error) {
	var created Encounter
	if err := s.client.Post(ctx, "/encounters", e, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Encounter, error) {
	var e Encounter
	if err := s.client.Get(ctx, fmt.Sprintf("/encounters/%d", id), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]Encounter, error) {
	var encounters []Encounter
	path := fmt.Sprintf("/encounters/patient/%d", patientID)
	if err := s.client.Get(ctx, path, &encounters); err != nil {
		return nil, err
	}
	return encounters, nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID int64) ([]Encounter, error) {
	var encounters []Encounter
	path := fmt.Sprintf("/encounters/doctor/%d", doctorID)
	if err := s.client.Get(ctx, path, &encounters); err != nil {
		return nil, err
	}
	return encounters, nil
}

func (s *Service) Update(ctx context.Context, id int64, e *Encounter) (*Encounter, error) {
	var updated Encounter
	if err := s.client.Put(ctx, fmt.Sprintf("/encounters/%d", id), e, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
