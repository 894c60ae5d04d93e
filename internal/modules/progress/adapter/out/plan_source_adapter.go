package out

import (
	"context"

	planin "readplan/internal/modules/plan/port/in"
	"readplan/internal/modules/progress/domain"
	progressout "readplan/internal/modules/progress/port/out"
)

type PlanSourceAdapter struct {
	plan planin.Usecase
}

func NewPlanSourceAdapter(plan planin.Usecase) progressout.PlanSource {
	return &PlanSourceAdapter{plan: plan}
}

func (a *PlanSourceAdapter) Items(ctx context.Context) ([]domain.PlanItem, error) {
	plan, err := a.plan.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PlanItem, 0, len(plan.Items))
	for _, item := range plan.Items {
		out = append(out, domain.PlanItem{Ref: item.Ref, Path: item.Path})
	}
	return out, nil
}
