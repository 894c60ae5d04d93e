package in

import (
	"context"

	"readplan/internal/modules/progress/dto"
)

type Usecase interface {
	Status(ctx context.Context) (dto.StatusOutput, error)
	DailyTarget(ctx context.Context, input dto.TargetInput) (dto.TargetOutput, error)
	Finalize(ctx context.Context, input dto.FinalizeInput) (dto.FinalizeOutput, error)
	SeedMap(ctx context.Context, input dto.MaintenanceInput) (dto.MaintenanceOutput, error)
	RebuildMap(ctx context.Context) (dto.MaintenanceOutput, error)
	RecomputeSnapshot(ctx context.Context) (dto.MaintenanceOutput, error)
	Reindex(ctx context.Context) (dto.ReindexOutput, error)
	Dashboard(ctx context.Context) (dto.DashboardOutput, error)
	Scaffold(ctx context.Context) (dto.ScaffoldOutput, error)
}
