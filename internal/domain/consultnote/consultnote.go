// Package consultnote accesses the single consultation note a doctor keeps
// per encounter.
package consultnote

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/careline/careline/internal/platform/api"
)

// Note mirrors the backend consultation note resource. At most one note
// exists per encounter.
type Note struct {
	ID           int64  `json:"id"`
	EncounterID  int64  `json:"encounterId"`
	Symptoms     string `json:"symptoms,omitempty"`
	Observations string `json:"observations,omitempty"`
	Assessment   string `json:"assessment,omitempty"`
}

type Service struct {
	client *api.Client
	logger zerolog.Logger
}

func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// ByEncounter fetches the encounter's note. A missing note surfaces as a
// 404 from the backend, which callers treat as "nothing recorded yet".
func (s *Service) ByEncounter(ctx context.Context, encounterID int64) (*Note, error) {
	var n Note
	path := fmt.Sprintf("/consultation-notes/encounter/%d", encounterID)
	if err := s.client.Get(ctx, path, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// SaveOrUpdate creates the note on first save and updates it in place
// afterwards, keyed on whether the draft already carries an ID.
func (s *Service) SaveOrUpdate(ctx context.Context, n *Note) (*Note, error) {
	var saved Note
	if n.ID != 0 {
		path := fmt.Sprintf("/consultation-notes/%d", n.ID)
		if err := s.client.Put(ctx, path, n, &saved); err != nil {
			return nil, err
		}
		return &saved, nil
	}
	if err := s.client.Post(ctx, "/consultation-notes", n, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}
