package patient

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/careline/careline/internal/domain/selector"
	"github.com/careline/careline/internal/platform/api"
)

// Service maps patient operations onto the backend /patients resource.
type Service struct {
	client *api.Client
	logger zerolog.Logger
}

func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Patient, error) {
	var patients []Patient
	if err := s.client.Get(ctx, "/patients", &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

func (s *Service) Search(ctx context.Context, query string) ([]Patient, error) {
	if query == "" {
		return s.List(ctx)
	}
	var patients []Patient
	path := "/patients/search?query=" + url.QueryEscape(query)
	if err := s.client.Get(ctx, path, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	var p Patient
	if err := s.client.Get(ctx, fmt.Sprintf("/patients/%d", id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Create(ctx context.Context, p *Patient) (*Patient, error) {
	var created Patient
	if err := s.client.Post(ctx, "/patients", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) Update(ctx context.Context, id int64, p *Patient) (*Patient, error) {
	var updated Patient
	if err := s.client.Put(ctx, fmt.Sprintf("/patients/%d", id), p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/patients/%d", id), nil)
}

// SelectorOptions shapes the patient list for dropdown inputs. Backend
// failures degrade to an empty list so selector widgets keep working.
func (s *Service) SelectorOptions(ctx context.Context) []selector.Option {
	patients, err := s.List(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load patients for selector")
		return []selector.Option{}
	}
	options := make([]selector.Option, 0, len(patients))
	for _, p := range patients {
		options = append(options, selector.Option{
			Value: p.ID,
			Label: fmt.Sprintf("%s %s (ID: %d)", p.FirstName, p.LastName, p.ID),
		})
	}
	return options
}
