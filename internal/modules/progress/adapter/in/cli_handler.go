package in

import (
	"context"

	"readplan/internal/modules/progress/dto"
	progressin "readplan/internal/modules/progress/port/in"
)

type CLIHandler struct {
	usecase progressin.Usecase
}

func NewCLIHandler(usecase progressin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Status(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Today(ctx context.Context, write bool) (dto.TargetOutput, error) {
	return h.usecase.DailyTarget(ctx, dto.TargetInput{Write: write})
}

func (h CLIHandler) Finalize(ctx context.Context, text string) (dto.FinalizeOutput, error) {
	return h.usecase.Finalize(ctx, dto.FinalizeInput{Text: text})
}

func (h CLIHandler) Seed(ctx context.Context, force bool) (dto.MaintenanceOutput, error) {
	return h.usecase.SeedMap(ctx, dto.MaintenanceInput{Force: force})
}

func (h CLIHandler) Rebuild(ctx context.Context) (dto.MaintenanceOutput, error) {
	return h.usecase.RebuildMap(ctx)
}

func (h CLIHandler) Recompute(ctx context.Context) (dto.MaintenanceOutput, error) {
	return h.usecase.RecomputeSnapshot(ctx)
}

func (h CLIHandler) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	return h.usecase.Reindex(ctx)
}

func (h CLIHandler) Dashboard(ctx context.Context) (dto.DashboardOutput, error) {
	return h.usecase.Dashboard(ctx)
}

func (h CLIHandler) Scaffold(ctx context.Context) (dto.ScaffoldOutput, error) {
	return h.usecase.Scaffold(ctx)
}
