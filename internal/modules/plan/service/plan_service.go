package service

import (
	"context"
	"log/slog"

	"readplan/internal/modules/plan/domain"
	planout "readplan/internal/modules/plan/port/out"
)

// PlanService loads the plan once and serves the same sequence for the rest
// of the process, keeping indices stable.
type PlanService struct {
	store  planout.PlanStore
	logger *slog.Logger
	loaded *domain.Plan
}

func NewPlanService(store planout.PlanStore, logger *slog.Logger) *PlanService {
	return &PlanService{store: store, logger: logger}
}

func (s *PlanService) Plan(ctx context.Context) (domain.Plan, error) {
	if s.loaded != nil {
		return *s.loaded, nil
	}
	plan, err := s.store.Load(ctx)
	if err != nil {
		return domain.Plan{}, err
	}
	if err := plan.Validate(); err != nil {
		return domain.Plan{}, err
	}
	s.logger.Debug("plan loaded", "path", s.store.Location(), "items", plan.Len())
	s.loaded = &plan
	return plan, nil
}

func (s *PlanService) Location() string {
	return s.store.Location()
}
