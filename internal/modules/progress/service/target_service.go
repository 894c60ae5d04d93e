package service

import (
	"context"
	"strings"

	"readplan/internal/modules/progress/domain"
)

type TargetResult struct {
	Lines      []string
	TodayCount int
	Current    Current
	NotePath   string
}

// DailyTarget renders today's checklist from the current state and, when
// write is set, splices it into the target note.
func (s *ProgressService) DailyTarget(ctx context.Context, write bool) (TargetResult, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return TargetResult{}, err
	}
	start, end := s.todayRange(current)
	lines := domain.RenderTargetList(domain.TargetInput{
		Plan:         current.Plan,
		FirstUnread:  current.State.FirstUnread,
		TodayCount:   end - start,
		PreviewCount: s.opts.PreviewCount,
		VersesRead:   current.State.UniqueRead,
		Total:        current.Snapshot.TotalVerses,
		Pacing:       current.Pacing,
		NotesRoot:    s.opts.NotesRoot,
	})
	result := TargetResult{Lines: lines, TodayCount: end - start, Current: current}
	if !write {
		return result, nil
	}
	path, err := s.target.SaveTarget(ctx, strings.Join(lines, "\n"))
	if err != nil {
		return TargetResult{}, err
	}
	result.NotePath = path
	s.logger.Debug("target note written", "path", path, "today", result.TodayCount)
	return result, nil
}

// todayRange is the half-open index range of today's checklist.
func (s *ProgressService) todayRange(current Current) (int, int) {
	start := min(current.State.FirstUnread, len(current.Plan))
	count := domain.TodayCount(current.Pacing.RecommendedToday, s.opts.DailyCap, len(current.Plan)-start)
	return start, start + count
}
