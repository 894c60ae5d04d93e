package bootstrap

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	planinadapter "readplan/internal/modules/plan/adapter/in"
	planoutadapter "readplan/internal/modules/plan/adapter/out"
	planservice "readplan/internal/modules/plan/service"
	planusecase "readplan/internal/modules/plan/usecase"
	progressinadapter "readplan/internal/modules/progress/adapter/in"
	progressoutadapter "readplan/internal/modules/progress/adapter/out"
	progressservice "readplan/internal/modules/progress/service"
	progressusecase "readplan/internal/modules/progress/usecase"
	"readplan/internal/platform/clock"
	"readplan/internal/platform/config"
	"readplan/internal/platform/id"
	"readplan/internal/platform/tx"
	"readplan/internal/platform/vault"
	uiapp "readplan/internal/ui/app"
)

type App struct {
	PlanCLI     planinadapter.CLIHandler
	ProgressCLI progressinadapter.CLIHandler
	ProgressTUI progressinadapter.TUIHandler
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	settings := cfg.Settings
	fs := vault.NewDir(cfg.VaultPath)

	planUC := planusecase.NewInteractor(planservice.NewPlanService(
		planoutadapter.NewJSONPlanStore(fs, settings.PlanPath),
		logger.With("module", "plan"),
	))

	progressLogger := logger.With("module", "progress")
	projector, err := progressoutadapter.NewSQLiteReadingProjector(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new reading projector: %w", err)
	}
	progressSvc := progressservice.NewProgressService(progressservice.Deps{
		Clock:      clock.SystemClock{},
		IDs:        id.UUID{},
		Tx:         tx.NoopManager{},
		Plan:       progressoutadapter.NewPlanSourceAdapter(planUC),
		ReadMap:    progressoutadapter.NewFileReadMapStore(fs, settings.MapPath, progressLogger),
		Snapshots:  progressoutadapter.NewVaultSnapshotStore(fs, settings.ProgressPath, progressLogger),
		Events:     progressoutadapter.NewVaultEventLedger(fs, settings.EventLogPath, progressLogger),
		Sessions:   progressoutadapter.NewVaultSessionLedger(fs, settings.SessionLogPath, progressLogger),
		Target:     progressoutadapter.NewVaultTargetNote(fs, settings.TargetNotePath),
		Projector:  projector,
		Scaffolder: progressoutadapter.NewVaultNoteScaffolder(fs),
		Dashboard:  progressoutadapter.NewVaultDashboardStore(fs, settings.DashboardPath),
		Logger:     progressLogger,
	}, progressservice.Options{
		DailyCap:           settings.DailyCap,
		PreviewCount:       settings.PreviewCount,
		DefaultTotal:       settings.DefaultTotal,
		DefaultTargetDays:  settings.DefaultTargetDays,
		NotesRoot:          settings.NotesRoot,
		ScaffoldOnFinalize: settings.ScaffoldOnFinalize,
	})
	progressUC := progressusecase.NewInteractor(progressSvc)

	return &App{
		PlanCLI:     planinadapter.NewCLIHandler(planUC),
		ProgressCLI: progressinadapter.NewCLIHandler(progressUC),
		ProgressTUI: progressinadapter.NewTUIHandler(progressUC),
	}, nil
}

func RunTUI(vaultPath string, app *App) error {
	model := uiapp.NewModel(vaultPath, app.ProgressTUI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
