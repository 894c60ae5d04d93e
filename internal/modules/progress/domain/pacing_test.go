package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"readplan/internal/modules/progress/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 30, 0, 0, time.Local)
}

func TestComputePacingBehindSchedule(t *testing.T) {
	t.Parallel()
	got := domain.ComputePacing(domain.PacingInput{
		Total:      100,
		StartDate:  day(2026, 3, 1),
		Today:      day(2026, 3, 5),
		TargetDays: 10,
		VersesRead: 0,
	})
	assert.Equal(t, domain.PacingResult{
		DaysElapsed:      5,
		Expected:         50,
		Remaining:        100,
		DaysRemaining:    5,
		Pace:             20,
		Catchup:          50,
		RecommendedToday: 50,
	}, got)
}

func TestComputePacingAheadOfSchedule(t *testing.T) {
	t.Parallel()
	got := domain.ComputePacing(domain.PacingInput{
		Total:      100,
		StartDate:  day(2026, 3, 1),
		Today:      day(2026, 3, 5),
		TargetDays: 10,
		VersesRead: 60,
	})
	assert.Equal(t, 50, got.Expected)
	assert.Equal(t, 0, got.Catchup)
	assert.Equal(t, 40, got.Remaining)
	assert.Equal(t, 5, got.DaysRemaining)
	assert.Equal(t, 8, got.Pace)
	assert.Equal(t, 8, got.RecommendedToday)
}

func TestComputePacingClampsEdges(t *testing.T) {
	t.Parallel()
	future := domain.ComputePacing(domain.PacingInput{
		Total: 30, StartDate: day(2026, 5, 10), Today: day(2026, 5, 1), TargetDays: 30,
	})
	assert.Equal(t, 1, future.DaysElapsed, "future start still counts as day one")
	assert.Equal(t, 1, future.Expected)

	done := domain.ComputePacing(domain.PacingInput{
		Total: 30, StartDate: day(2026, 1, 1), Today: day(2026, 3, 1), TargetDays: 30, VersesRead: 30,
	})
	assert.Equal(t, 0, done.Remaining)
	assert.Equal(t, 1, done.DaysRemaining)
	assert.Equal(t, 1, done.Pace, "pace never drops below one")
	assert.Equal(t, 30, done.Catchup, "expected keeps growing once the schedule has run out")
}

func TestComputePacingZeroTargetDays(t *testing.T) {
	t.Parallel()
	got := domain.ComputePacing(domain.PacingInput{Total: 10, StartDate: day(2026, 1, 1), Today: day(2026, 1, 1)})
	assert.Equal(t, 10, got.Expected)
	assert.Equal(t, 10, got.RecommendedToday)
}

func TestDaysBetweenIgnoresClockAndDST(t *testing.T) {
	t.Parallel()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	from := time.Date(2026, 3, 7, 23, 0, 0, 0, loc)
	to := time.Date(2026, 3, 9, 0, 30, 0, 0, loc)
	assert.Equal(t, 2, domain.DaysBetween(from, to))
	assert.Equal(t, -2, domain.DaysBetween(to, from))
}

func TestTodayCount(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 50, domain.TodayCount(50, 300, 1000))
	assert.Equal(t, 300, domain.TodayCount(500, 300, 1000))
	assert.Equal(t, 7, domain.TodayCount(50, 300, 7))
	assert.Equal(t, 0, domain.TodayCount(50, 300, 0))
	assert.Equal(t, 50, domain.TodayCount(50, 0, 100))
}
