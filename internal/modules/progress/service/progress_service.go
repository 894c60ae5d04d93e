package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"readplan/internal/modules/progress/domain"
	progressout "readplan/internal/modules/progress/port/out"
	"readplan/internal/platform/clock"
	apperrors "readplan/internal/platform/errors"
	"readplan/internal/platform/id"
	"readplan/internal/platform/tx"
)

// Options carries the tunable parts of the reading schedule.
type Options struct {
	DailyCap           int
	PreviewCount       int
	DefaultTotal       int
	DefaultTargetDays  int
	NotesRoot          string
	ScaffoldOnFinalize bool
}

type Deps struct {
	Clock      clock.Clock
	IDs        id.Generator
	Tx         tx.Manager
	Plan       progressout.PlanSource
	ReadMap    progressout.ReadMapStore
	Snapshots  progressout.SnapshotStore
	Events     progressout.EventLedger
	Sessions   progressout.SessionLedger
	Target     progressout.TargetNote
	Projector  progressout.ReadingProjector
	Scaffolder progressout.NoteScaffolder
	Dashboard  progressout.DashboardStore
	Logger     *slog.Logger
}

type ProgressService struct {
	clock      clock.Clock
	ids        id.Generator
	tx         tx.Manager
	plan       progressout.PlanSource
	readMap    progressout.ReadMapStore
	snapshots  progressout.SnapshotStore
	events     progressout.EventLedger
	sessions   progressout.SessionLedger
	target     progressout.TargetNote
	projector  progressout.ReadingProjector
	scaffolder progressout.NoteScaffolder
	dashboard  progressout.DashboardStore
	logger     *slog.Logger
	opts       Options
}

func NewProgressService(deps Deps, opts Options) *ProgressService {
	if deps.Tx == nil {
		deps.Tx = tx.NoopManager{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	return &ProgressService{
		clock:      deps.Clock,
		ids:        deps.IDs,
		tx:         deps.Tx,
		plan:       deps.Plan,
		readMap:    deps.ReadMap,
		snapshots:  deps.Snapshots,
		events:     deps.Events,
		sessions:   deps.Sessions,
		target:     deps.Target,
		projector:  deps.Projector,
		scaffolder: deps.Scaffolder,
		dashboard:  deps.Dashboard,
		logger:     deps.Logger,
		opts:       opts,
	}
}

// Current is everything the read-side operations need about the plan and
// where the reader stands in it.
type Current struct {
	Plan     []domain.PlanItem
	Map      domain.ReadStateMap
	Snapshot domain.Snapshot
	State    domain.ReadState
	Pacing   domain.PacingResult
	Today    time.Time
}

// NextRef is the ref of the first unread item, empty when the plan is done.
func (c Current) NextRef() string {
	if c.State.FirstUnread >= len(c.Plan) {
		return ""
	}
	return c.Plan[c.State.FirstUnread].Ref
}

// Current loads plan, map and snapshot and derives state and pacing. The
// snapshot is created with defaults on first access.
func (s *ProgressService) Current(ctx context.Context) (Current, error) {
	plan, err := s.plan.Items(ctx)
	if err != nil {
		return Current{}, err
	}
	m, err := s.readMap.Load(ctx)
	if err != nil {
		return Current{}, err
	}
	now := s.clock.Now()
	snap, err := s.snapshots.Ensure(ctx, s.defaults(now))
	if err != nil {
		return Current{}, fmt.Errorf("load snapshot: %w", err)
	}
	state := domain.ComputeFromMap(m, len(plan))
	snap = snap.Apply(state)
	return Current{
		Plan:     plan,
		Map:      m,
		Snapshot: snap,
		State:    state,
		Pacing: domain.ComputePacing(domain.PacingInput{
			Total:      snap.TotalVerses,
			StartDate:  snap.StartDate,
			Today:      now,
			TargetDays: snap.TargetDays,
			VersesRead: state.UniqueRead,
		}),
		Today: now,
	}, nil
}

func (s *ProgressService) defaults(now time.Time) domain.Snapshot {
	return domain.DefaultSnapshot(now, s.opts.DefaultTotal, s.opts.DefaultTargetDays)
}

// FinalizeResult reports one finalize pass.
type FinalizeResult struct {
	Completed  []int
	Appended   []int
	EventRows  int
	Session    domain.SessionRecord
	State      domain.ReadState
	Scaffolded int
	Dashboard  string
}

// Finalize reconciles the checked entries of text into the map, snapshot
// and ledgers. An empty text reads the target note. Re-running with the
// same text in the same second adds nothing to the map.
func (s *ProgressService) Finalize(ctx context.Context, text string) (FinalizeResult, error) {
	if text == "" {
		loaded, err := s.target.Load(ctx)
		if err != nil {
			return FinalizeResult{}, fmt.Errorf("load target note: %w", err)
		}
		text = loaded
	}
	completed := domain.ExtractCompleted(text)
	if len(completed) == 0 {
		return FinalizeResult{}, apperrors.ErrNothingToFinalize
	}
	plan, err := s.plan.Items(ctx)
	if err != nil {
		return FinalizeResult{}, err
	}

	now := s.clock.Now()
	stamp := domain.Stamp(now)
	result := FinalizeResult{Completed: completed}
	err = s.tx.Within(ctx, func(ctx context.Context) error {
		m, err := s.readMap.Load(ctx)
		if err != nil {
			return err
		}
		events := make([]domain.EventRecord, 0, len(completed))
		for _, idx := range completed {
			if !m.Append(idx, stamp) {
				continue
			}
			result.Appended = append(result.Appended, idx)
			if idx < len(plan) {
				events = append(events, domain.EventRecord{Timestamp: stamp, Index: idx, Ref: plan[idx].Ref, Path: plan[idx].Path})
			} else {
				s.logger.Warn("checked index is not in the plan", "idx", idx, "plan_len", len(plan))
			}
		}
		if len(result.Appended) > 0 {
			if err := s.readMap.Save(ctx, m); err != nil {
				return fmt.Errorf("save read map: %w", err)
			}
		}

		result.State = domain.ComputeFromMap(m, len(plan))
		if _, err := s.snapshots.Ensure(ctx, s.defaults(now)); err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
		if err := s.snapshots.SaveDerived(ctx, result.State); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		if err := s.events.Append(ctx, events); err != nil {
			return fmt.Errorf("append events: %w", err)
		}
		result.EventRows = len(events)

		result.Session = domain.SessionRecord{
			Date:      now.Format(domain.DateLayout),
			StartRef:  domain.RefAt(plan, completed[0]),
			EndRef:    domain.RefAt(plan, completed[len(completed)-1]),
			Count:     len(completed),
			LastOrder: result.State.FirstUnread,
		}
		if err := s.sessions.Append(ctx, result.Session); err != nil {
			return fmt.Errorf("append session: %w", err)
		}
		s.logger.Debug("finalize reconciled", "completed", len(completed), "appended", len(result.Appended), "first_unread", result.State.FirstUnread)
		return nil
	})
	if err != nil {
		return FinalizeResult{}, err
	}

	s.project(ctx, result.Appended, stamp, result.Session)
	if s.opts.ScaffoldOnFinalize {
		created, err := s.scaffoldIndices(ctx, plan, completed, now)
		if err != nil {
			s.logger.Warn("scaffold notes failed", "error", err)
		}
		result.Scaffolded = created
	}
	if path, err := s.WriteDashboard(ctx); err != nil {
		s.logger.Warn("dashboard refresh failed", "error", err)
	} else {
		result.Dashboard = path
	}
	return result, nil
}

// project mirrors a finalize pass into the SQLite projection. Failures only
// leave the projection stale; reindex rebuilds it.
func (s *ProgressService) project(ctx context.Context, appended []int, stamp string, session domain.SessionRecord) {
	if s.projector == nil {
		return
	}
	for _, idx := range appended {
		if err := s.projector.UpsertReads(ctx, idx, []string{stamp}); err != nil {
			s.logger.Warn("project read failed", "idx", idx, "error", err)
			return
		}
	}
	if err := s.projector.InsertSession(ctx, s.ids.New(), session); err != nil {
		s.logger.Warn("project session failed", "error", err)
	}
}

// Status is a read-only view; it never writes derived fields back.
func (s *ProgressService) Status(ctx context.Context) (Current, error) {
	return s.Current(ctx)
}

// IsNoop reports whether err is a benign no-op notice rather than a failure.
func IsNoop(err error) bool {
	return errors.Is(err, apperrors.ErrNothingToFinalize) || errors.Is(err, apperrors.ErrMapNotEmpty)
}
