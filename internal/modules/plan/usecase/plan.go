package usecase

import (
	"context"

	"readplan/internal/modules/plan/dto"
	planin "readplan/internal/modules/plan/port/in"
	"readplan/internal/modules/plan/service"
)

type Interactor struct {
	svc *service.PlanService
}

func NewInteractor(svc *service.PlanService) planin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Load(ctx context.Context) (dto.PlanOutput, error) {
	plan, err := i.svc.Plan(ctx)
	if err != nil {
		return dto.PlanOutput{}, err
	}
	out := dto.PlanOutput{Items: make([]dto.ItemOutput, 0, plan.Len())}
	for idx, item := range plan.Items {
		out.Items = append(out.Items, dto.ItemOutput{Index: idx, Ref: item.Ref, Path: item.Path})
	}
	return out, nil
}

func (i *Interactor) Summary(ctx context.Context) (dto.SummaryOutput, error) {
	plan, err := i.svc.Plan(ctx)
	if err != nil {
		return dto.SummaryOutput{}, err
	}
	out := dto.SummaryOutput{Path: i.svc.Location(), Count: plan.Len()}
	if first, ok := plan.At(0); ok {
		out.First = first.Ref
	}
	if last, ok := plan.At(plan.Len() - 1); ok {
		out.Last = last.Ref
	}
	return out, nil
}
