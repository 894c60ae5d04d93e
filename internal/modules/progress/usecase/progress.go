package usecase

import (
	"context"

	"readplan/internal/modules/progress/domain"
	"readplan/internal/modules/progress/dto"
	progressin "readplan/internal/modules/progress/port/in"
	"readplan/internal/modules/progress/service"
)

type Interactor struct {
	svc *service.ProgressService
}

func NewInteractor(svc *service.ProgressService) progressin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Status(ctx context.Context) (dto.StatusOutput, error) {
	current, err := i.svc.Status(ctx)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	return dto.StatusOutput{
		LastOrder:   current.State.FirstUnread,
		NextRef:     current.NextRef(),
		VersesRead:  current.State.UniqueRead,
		TotalVerses: current.Snapshot.TotalVerses,
		PlanLength:  len(current.Plan),
		StartDate:   current.Snapshot.StartDate,
		TargetDays:  current.Snapshot.TargetDays,
		Percent:     service.Percent(current.State.UniqueRead, current.Snapshot.TotalVerses),
		Pacing:      toPacingOutput(current.Pacing),
	}, nil
}

func (i *Interactor) DailyTarget(ctx context.Context, input dto.TargetInput) (dto.TargetOutput, error) {
	result, err := i.svc.DailyTarget(ctx, input.Write)
	if err != nil {
		return dto.TargetOutput{}, err
	}
	return dto.TargetOutput{
		Lines:       result.Lines,
		TodayCount:  result.TodayCount,
		FirstUnread: result.Current.State.FirstUnread,
		NotePath:    result.NotePath,
		Pacing:      toPacingOutput(result.Current.Pacing),
	}, nil
}

func (i *Interactor) Finalize(ctx context.Context, input dto.FinalizeInput) (dto.FinalizeOutput, error) {
	result, err := i.svc.Finalize(ctx, input.Text)
	if err != nil {
		return dto.FinalizeOutput{}, err
	}
	return dto.FinalizeOutput{
		Completed:   len(result.Completed),
		Appended:    len(result.Appended),
		EventRows:   result.EventRows,
		StartRef:    result.Session.StartRef,
		EndRef:      result.Session.EndRef,
		UniqueRead:  result.State.UniqueRead,
		FirstUnread: result.State.FirstUnread,
		Scaffolded:  result.Scaffolded,
		Dashboard:   result.Dashboard,
	}, nil
}

func (i *Interactor) SeedMap(ctx context.Context, input dto.MaintenanceInput) (dto.MaintenanceOutput, error) {
	return toMaintenanceOutput(i.svc.SeedMap(ctx, input.Force))
}

func (i *Interactor) RebuildMap(ctx context.Context) (dto.MaintenanceOutput, error) {
	return toMaintenanceOutput(i.svc.RebuildMap(ctx))
}

func (i *Interactor) RecomputeSnapshot(ctx context.Context) (dto.MaintenanceOutput, error) {
	return toMaintenanceOutput(i.svc.RecomputeSnapshot(ctx))
}

func (i *Interactor) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	result, err := i.svc.Reindex(ctx)
	if err != nil {
		return dto.ReindexOutput{}, err
	}
	return dto.ReindexOutput{Reads: result.Reads, Sessions: result.Sessions}, nil
}

func (i *Interactor) Dashboard(ctx context.Context) (dto.DashboardOutput, error) {
	path, err := i.svc.WriteDashboard(ctx)
	if err != nil {
		return dto.DashboardOutput{}, err
	}
	return dto.DashboardOutput{Path: path}, nil
}

func (i *Interactor) Scaffold(ctx context.Context) (dto.ScaffoldOutput, error) {
	result, err := i.svc.Scaffold(ctx)
	if err != nil {
		return dto.ScaffoldOutput{}, err
	}
	return dto.ScaffoldOutput{Created: result.Created, Checked: result.Checked}, nil
}

func toMaintenanceOutput(result service.MaintenanceResult, err error) (dto.MaintenanceOutput, error) {
	if err != nil {
		return dto.MaintenanceOutput{}, err
	}
	return dto.MaintenanceOutput{
		Entries:    result.Entries,
		LastOrder:  result.State.FirstUnread,
		VersesRead: result.State.UniqueRead,
	}, nil
}

func toPacingOutput(p domain.PacingResult) dto.PacingOutput {
	return dto.PacingOutput{
		DaysElapsed:      p.DaysElapsed,
		Expected:         p.Expected,
		Remaining:        p.Remaining,
		DaysRemaining:    p.DaysRemaining,
		Pace:             p.Pace,
		Catchup:          p.Catchup,
		RecommendedToday: p.RecommendedToday,
	}
}
