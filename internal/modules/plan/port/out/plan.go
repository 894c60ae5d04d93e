package out

import (
	"context"

	"readplan/internal/modules/plan/domain"
)

type PlanStore interface {
	Load(ctx context.Context) (domain.Plan, error)
	Location() string
}
