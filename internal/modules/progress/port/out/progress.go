package out

import (
	"context"
	"time"

	"readplan/internal/modules/progress/domain"
	"readplan/internal/platform/notes"
)

type PlanSource interface {
	Items(ctx context.Context) ([]domain.PlanItem, error)
}

// ReadMapStore persists the index -> timestamps map. A missing or
// malformed map loads as empty.
type ReadMapStore interface {
	Load(ctx context.Context) (domain.ReadStateMap, error)
	Save(ctx context.Context, m domain.ReadStateMap) error
}

// SnapshotStore keeps the cached progress summary in a note preamble.
type SnapshotStore interface {
	// Ensure loads the snapshot, writing any missing field from defaults.
	Ensure(ctx context.Context, defaults domain.Snapshot) (domain.Snapshot, error)
	// SaveDerived merge-patches last_order and verses_read only.
	SaveDerived(ctx context.Context, state domain.ReadState) error
}

type EventLedger interface {
	Append(ctx context.Context, events []domain.EventRecord) error
	List(ctx context.Context) ([]domain.EventRecord, error)
}

type SessionLedger interface {
	Append(ctx context.Context, session domain.SessionRecord) error
	List(ctx context.Context) ([]domain.SessionRecord, error)
}

// TargetNote is the user-edited checklist note.
type TargetNote interface {
	Load(ctx context.Context) (string, error)
	SaveTarget(ctx context.Context, generated string) (string, error)
}

type ReadingProjector interface {
	Reset(ctx context.Context) error
	UpsertReads(ctx context.Context, index int, stamps []string) error
	InsertSession(ctx context.Context, id string, session domain.SessionRecord) error
	DailyCounts(ctx context.Context, sinceDay string) ([]domain.DayCount, error)
}

type NoteScaffolder interface {
	Ensure(ctx context.Context, loc notes.Location, ref string, today time.Time) (bool, error)
}

type DashboardStore interface {
	Save(ctx context.Context, generated string) (string, error)
}
