package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"readplan/internal/modules/progress/domain"
	"readplan/internal/platform/markdown"
)

const (
	dashboardDays     = 7
	dashboardSessions = 5
)

var dailyHeader = []string{"day", "items"}

// WriteDashboard regenerates the dashboard block and returns the note path.
func (s *ProgressService) WriteDashboard(ctx context.Context) (string, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return "", err
	}
	days := make([]domain.DayCount, 0)
	if s.projector != nil {
		since := domain.CalendarDay(current.Today).AddDate(0, 0, -(dashboardDays - 1)).Format(domain.DateLayout)
		days, err = s.projector.DailyCounts(ctx, since)
		if err != nil {
			return "", err
		}
	}
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) > dashboardSessions {
		sessions = sessions[len(sessions)-dashboardSessions:]
	}
	return s.dashboard.Save(ctx, RenderDashboard(current, days, sessions))
}

// RenderDashboard lays out progress, pacing, the last week of reading and
// the latest sessions.
func RenderDashboard(current Current, days []domain.DayCount, sessions []domain.SessionRecord) string {
	snap := current.Snapshot
	pacing := current.Pacing
	var b strings.Builder
	b.WriteString("## Reading dashboard\n")
	fmt.Fprintf(&b, "_Updated %s_\n\n", current.Today.Format(domain.DateLayout))
	fmt.Fprintf(&b, "- Progress: %d / %d (%.1f%%)\n", current.State.UniqueRead, snap.TotalVerses, Percent(current.State.UniqueRead, snap.TotalVerses))
	if next := current.NextRef(); next != "" {
		fmt.Fprintf(&b, "- Next: %s (idx:%d)\n", next, current.State.FirstUnread)
	} else {
		b.WriteString("- Next: plan complete\n")
	}
	fmt.Fprintf(&b, "- Schedule: day %d of %d, expected %d, pace %d/day\n", pacing.DaysElapsed, snap.TargetDays, pacing.Expected, pacing.Pace)
	if pacing.Catchup > 0 {
		fmt.Fprintf(&b, "- Behind by %d\n", pacing.Catchup)
	} else {
		b.WriteString("- On schedule\n")
	}

	counts := make(map[string]int, len(days))
	for _, day := range days {
		counts[day.Day] = day.Count
	}
	rows := make([][]string, 0, dashboardDays)
	first := domain.CalendarDay(current.Today).AddDate(0, 0, -(dashboardDays - 1))
	for i := 0; i < dashboardDays; i++ {
		day := first.AddDate(0, 0, i).Format(domain.DateLayout)
		rows = append(rows, []string{day, strconv.Itoa(counts[day])})
	}
	b.WriteString("\n### Last 7 days\n")
	b.WriteString(markdown.AppendTableRows("", dailyHeader, rows))

	b.WriteString("\n### Recent sessions\n")
	if len(sessions) == 0 {
		b.WriteString("No sessions yet.\n")
	} else {
		sessionRows := make([][]string, 0, len(sessions))
		for i := len(sessions) - 1; i >= 0; i-- {
			sessionRows = append(sessionRows, sessions[i].Row())
		}
		b.WriteString(markdown.AppendTableRows("", domain.SessionLogHeader, sessionRows))
	}
	return b.String()
}

// Percent is read/total as a percentage, zero when the total is unknown.
func Percent(read, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(read) * 100 / float64(total)
}
