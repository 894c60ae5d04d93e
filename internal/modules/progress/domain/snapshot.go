package domain

import "time"

const DateLayout = "2006-01-02"

// Snapshot is the cached progress summary kept in the progress note
// preamble. LastOrder and VersesRead are always re-derivable from the map.
type Snapshot struct {
	LastOrder   int
	VersesRead  int
	TotalVerses int
	StartDate   time.Time
	TargetDays  int
}

func DefaultSnapshot(today time.Time, total, targetDays int) Snapshot {
	return Snapshot{
		TotalVerses: total,
		StartDate:   CalendarDay(today),
		TargetDays:  targetDays,
	}
}

// Apply copies the derived fields into the snapshot.
func (s Snapshot) Apply(state ReadState) Snapshot {
	s.LastOrder = state.FirstUnread
	s.VersesRead = state.UniqueRead
	return s
}

// CalendarDay drops the clock part, keeping the date as seen in t's zone.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
