package dto

import "time"

type PacingOutput struct {
	DaysElapsed      int
	Expected         int
	Remaining        int
	DaysRemaining    int
	Pace             int
	Catchup          int
	RecommendedToday int
}

type StatusOutput struct {
	LastOrder   int
	NextRef     string
	VersesRead  int
	TotalVerses int
	PlanLength  int
	StartDate   time.Time
	TargetDays  int
	Percent     float64
	Pacing      PacingOutput
}

type TargetInput struct {
	// Write splices the checklist into the target note.
	Write bool
}

type TargetOutput struct {
	Lines       []string
	TodayCount  int
	FirstUnread int
	NotePath    string
	Pacing      PacingOutput
}

type FinalizeInput struct {
	// Text is the checklist to reconcile. Empty means the target note.
	Text string
}

type FinalizeOutput struct {
	Completed   int
	Appended    int
	EventRows   int
	StartRef    string
	EndRef      string
	UniqueRead  int
	FirstUnread int
	Scaffolded  int
	Dashboard   string
}

type MaintenanceInput struct {
	Force bool
}

type MaintenanceOutput struct {
	Entries    int
	LastOrder  int
	VersesRead int
}

type ReindexOutput struct {
	Reads    int
	Sessions int
}

type DashboardOutput struct {
	Path string
}

type ScaffoldOutput struct {
	Created int
	Checked int
}
