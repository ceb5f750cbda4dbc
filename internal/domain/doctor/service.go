package doctor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/careline/careline/internal/domain/selector"
	"github.com/careline/careline/internal/platform/api"
)

// Service maps doctor operations onto the backend /doctors resource.
type Service struct {
	client *api.Client
	logger zerolog.Logger
}

func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Doctor, error) {
	var doctors []Doctor
	if err := s.client.Get(ctx, "/doctors", &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Doctor, error) {
	var d Doctor
	if err := s.client.Get(ctx, fmt.Sprintf("/doctors/%d", id), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// SelectorOptions shapes the doctor list for dropdown inputs. Missing
// specializations render as N/A rather than an empty parenthetical.
func (s *Service) SelectorOptions(ctx context.Context) []selector.Option {
	doctors, err := s.List(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load doctors for selector")
		return []selector.Option{}
	}
	options := make([]selector.Option, 0, len(doctors))
	for _, d := range doctors {
		spec := d.Specialization
		if spec == "" {
			spec = "N/A"
		}
		options = append(options, selector.Option{
			Value: d.ID,
			Label: fmt.Sprintf("%s (ID: %d, Spec: %s)", d.DisplayName(), d.ID, spec),
		})
	}
	return options
}
