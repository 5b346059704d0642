package alert

import (
	"context"
	"errors"

	"trailguard/pkg/sentinel"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Service implements alert listing and triage. Invalid filter values are
// silently ignored rather than rejected, matching the public API contract.
type Service struct {
	store Store
}

// NewService constructs the alert service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns alerts newest-id-first. status and risk are raw query values;
// unknown values are dropped. limit is clamped to [1, 200], defaulting to 50.
func (s *Service) List(ctx context.Context, status, risk string, offset, limit int) ([]Alert, error) {
	filter := ListFilter{Offset: offset, Limit: limit}
	if st, ok := ParseStatus(status); ok {
		filter.Status = &st
	}
	switch risk {
	case "low", "medium", "high":
		filter.Risk = &risk
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	return s.store.List(ctx, filter)
}

// ErrNotFound is returned by Acknowledge/Resolve for unknown ids. The handler
// maps it to the inline {ok:false} payload rather than a 404.
var ErrNotFound = sentinel.ErrNotFound

// Acknowledge sets the alert status to ack, unconditionally.
func (s *Service) Acknowledge(ctx context.Context, id int64) (*Alert, error) {
	return s.setStatus(ctx, id, StatusAck)
}

// Resolve sets the alert status to resolved, unconditionally. Reachable
// directly from new; ack is not required first.
func (s *Service) Resolve(ctx context.Context, id int64) (*Alert, error) {
	return s.setStatus(ctx, id, StatusResolved)
}

func (s *Service) setStatus(ctx context.Context, id int64, status Status) (*Alert, error) {
	a, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}
