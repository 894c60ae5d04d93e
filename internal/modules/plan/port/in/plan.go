package in

import (
	"context"

	"readplan/internal/modules/plan/dto"
)

type Usecase interface {
	Load(ctx context.Context) (dto.PlanOutput, error)
	Summary(ctx context.Context) (dto.SummaryOutput, error)
}
