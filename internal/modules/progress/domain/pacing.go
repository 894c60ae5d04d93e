package domain

import "time"

type PacingInput struct {
	Total      int
	StartDate  time.Time
	Today      time.Time
	TargetDays int
	VersesRead int
}

type PacingResult struct {
	DaysElapsed      int
	Expected         int
	Remaining        int
	DaysRemaining    int
	Pace             int
	Catchup          int
	RecommendedToday int
}

// ComputePacing turns the schedule and current count into today's target.
// When behind, the whole gap is recommended; otherwise the steady pace.
func ComputePacing(in PacingInput) PacingResult {
	targetDays := max(in.TargetDays, 1)
	total := max(in.Total, 0)
	read := max(in.VersesRead, 0)

	out := PacingResult{}
	out.DaysElapsed = max(DaysBetween(in.StartDate, in.Today)+1, 1)
	out.Expected = max(ceilDiv(total*out.DaysElapsed, targetDays), 0)
	out.Remaining = max(total-read, 0)
	out.DaysRemaining = max(targetDays-out.DaysElapsed, 1)
	out.Pace = max(ceilDiv(out.Remaining, out.DaysRemaining), 1)
	out.Catchup = max(out.Expected-read, 0)
	if out.Catchup > 0 {
		out.RecommendedToday = out.Catchup
	} else {
		out.RecommendedToday = out.Pace
	}
	return out
}

// DaysBetween counts calendar days from one date to another; the clock part
// and DST shifts are ignored.
func DaysBetween(from, to time.Time) int {
	return int(CalendarDay(to).Sub(CalendarDay(from)).Hours() / 24)
}

// TodayCount caps the recommendation by the configured daily limit and by
// what is left in the plan.
func TodayCount(recommended, dailyCap, remainingInPlan int) int {
	n := recommended
	if dailyCap > 0 {
		n = min(n, dailyCap)
	}
	return max(min(n, remainingInPlan), 0)
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
