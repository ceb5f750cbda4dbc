// Package laborder accesses lab orders, their per-test items, and the lab
// test catalog behind the ordering form.
package laborder

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/careline/careline/internal/domain/selector"
	"github.com/careline/careline/internal/platform/api"
)

// Lifecycle states of an overall lab order.
const (
	StatusOrdered         = "ORDERED"
	StatusSampleCollected = "SAMPLE_COLLECTED"
	StatusInProgress      = "IN_PROGRESS"
	StatusCompleted       = "COMPLETED"
	StatusCancelled       = "CANCELLED"
)

// Item is one ordered test within a lab order. Result fields stay empty
// until a technician files them.
type Item struct {
	ID             int64  `json:"id,omitempty"`
	LabTestID      int64  `json:"labTestId"`
	LabTestName    string `json:"labTestName,omitempty"`
	ResultValue    string `json:"resultValue,omitempty"`
	ResultUnit     string `json:"resultUnit,omitempty"`
	ReferenceRange string `json:"referenceRange,omitempty"`
	IsAbnormal     bool   `json:"isAbnormal"`
	ResultDatetime string `json:"resultDatetime,omitempty"`
}

// LabOrder mirrors the backend lab order resource.
type LabOrder struct {
	ID            int64  `json:"id"`
	EncounterID   int64  `json:"encounterId"`
	OrderDatetime string `json:"orderDatetime,omitempty"`
	Status        string `json:"status,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Items         []Item `json:"items"`
}

// ItemResult is the payload for filing a result against an ordered test.
type ItemResult struct {
	ResultValue    string `json:"resultValue"`
	ResultUnit     string `json:"resultUnit,omitempty"`
	ReferenceRange string `json:"referenceRange,omitempty"`
	IsAbnormal     bool   `json:"isAbnormal"`
}

// LabTest is a catalog entry used when composing order items.
type LabTest struct {
	ID       int64  `json:"id"`
	TestName string `json:"testName"`
	Category string `json:"category,omitempty"`
}

type Service struct {
	client *api.Client
	logger zerolog.Logger
}

func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

func (s *Service) Create(ctx context.Context, o *LabOrder) (*LabOrder, error) {
	var created LabOrder
	if err := s.client.Post(ctx, "/lab-orders", o, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*LabOrder, error) {
	var o LabOrder
	if err := s.client.Get(ctx, fmt.Sprintf("/lab-orders/%d", id), &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Service) ByEncounter(ctx context.Context, encounterID int64) ([]LabOrder, error) {
	var orders []LabOrder
	path := fmt.Sprintf("/lab-orders/encounter/%d", encounterID)
	if err := s.client.Get(ctx, path, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Service) ByPatient(ctx context.Context, patientID int64) ([]LabOrder, error) {
	var orders []LabOrder
	path := fmt.Sprintf("/lab-orders/patient/%d", patientID)
	if err := s.client.Get(ctx, path, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus moves an order through its lifecycle. The backend takes the
// state as a query parameter.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*LabOrder, error) {
	var updated LabOrder
	path := fmt.Sprintf("/lab-orders/%d/status?status=%s", id, url.QueryEscape(status))
	if err := s.client.Patch(ctx, path, nil, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateItemResult files a result against one ordered test and returns the
// refreshed parent order.
func (s *Service) UpdateItemResult(ctx context.Context, orderID, itemID int64, result *ItemResult) (*LabOrder, error) {
	var updated LabOrder
	path := fmt.Sprintf("/lab-orders/%d/item/%d/result", orderID, itemID)
	if err := s.client.Patch(ctx, path, result, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// SearchLabTests queries the test catalog for the ordering form's
// selector. Failures degrade to an empty list.
func (s *Service) SearchLabTests(ctx context.Context, term string) []selector.Option {
	path := "/lab-tests"
	if term != "" {
		path += "?name=" + url.QueryEscape(term)
	}
	var tests []LabTest
	if err := s.client.Get(ctx, path, &tests); err != nil {
		s.logger.Warn().Err(err).Str("term", term).Msg("lab test search failed")
		return []selector.Option{}
	}
	options := make([]selector.Option, 0, len(tests))
	for _, lt := range tests {
		category := lt.Category
		if category == "" {
			category = "N/A"
		}
		options = append(options, selector.Option{
			Value: lt.ID,
			Label: fmt.Sprintf("%s (Category: %s)", lt.TestName, category),
		})
	}
	return options
}
