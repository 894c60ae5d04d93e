package in

import (
	"context"
	"strings"

	"readplan/internal/modules/progress/dto"
	progressin "readplan/internal/modules/progress/port/in"
	apperrors "readplan/internal/platform/errors"
)

// TUIHandler is the slice of the progress usecase the interactive checklist
// needs. The TUI keeps checkbox state in memory and never writes the target
// note itself.
type TUIHandler struct {
	usecase progressin.Usecase
}

func NewTUIHandler(usecase progressin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Today(ctx context.Context) (dto.TargetOutput, error) {
	return h.usecase.DailyTarget(ctx, dto.TargetInput{})
}

// Finalize reconciles the in-memory checklist. An empty checklist means the
// view has nothing loaded; the target note on disk is never read instead.
func (h TUIHandler) Finalize(ctx context.Context, checklist string) (dto.FinalizeOutput, error) {
	if strings.TrimSpace(checklist) == "" {
		return dto.FinalizeOutput{}, apperrors.ErrNothingToFinalize
	}
	return h.usecase.Finalize(ctx, dto.FinalizeInput{Text: checklist})
}

func (h TUIHandler) Status(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}
