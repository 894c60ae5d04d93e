package service

import (
	"context"
	"fmt"
	"time"

	"readplan/internal/modules/progress/domain"
	apperrors "readplan/internal/platform/errors"
)

type MaintenanceResult struct {
	Entries int
	State   domain.ReadState
}

// SeedMap rebuilds the map from the snapshot's verses_read when the map was
// lost. A map that still has entries is kept unless force is set.
func (s *ProgressService) SeedMap(ctx context.Context, force bool) (MaintenanceResult, error) {
	m, err := s.readMap.Load(ctx)
	if err != nil {
		return MaintenanceResult{}, err
	}
	if len(m.Indices()) > 0 && !force {
		return MaintenanceResult{}, fmt.Errorf("seed map with %d entries: %w", len(m.Indices()), apperrors.ErrMapNotEmpty)
	}
	now := s.clock.Now()
	snap, err := s.snapshots.Ensure(ctx, s.defaults(now))
	if err != nil {
		return MaintenanceResult{}, fmt.Errorf("load snapshot: %w", err)
	}
	seeded := domain.SeedFromSnapshot(snap.VersesRead, domain.Stamp(now))
	s.logger.Debug("seeding read map", "verses_read", snap.VersesRead, "force", force)
	return s.replaceMap(ctx, seeded)
}

// RebuildMap replays the event ledger into a fresh map.
func (s *ProgressService) RebuildMap(ctx context.Context) (MaintenanceResult, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return MaintenanceResult{}, fmt.Errorf("list events: %w", err)
	}
	s.logger.Debug("rebuilding read map", "events", len(events))
	return s.replaceMap(ctx, domain.RebuildFromEvents(events))
}

// RecomputeSnapshot re-derives last_order and verses_read from the map.
func (s *ProgressService) RecomputeSnapshot(ctx context.Context) (MaintenanceResult, error) {
	m, err := s.readMap.Load(ctx)
	if err != nil {
		return MaintenanceResult{}, err
	}
	state, err := s.reconcileSnapshot(ctx, m)
	if err != nil {
		return MaintenanceResult{}, err
	}
	return MaintenanceResult{Entries: len(m.Indices()), State: state}, nil
}

func (s *ProgressService) replaceMap(ctx context.Context, m domain.ReadStateMap) (MaintenanceResult, error) {
	var result MaintenanceResult
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		if err := s.readMap.Save(ctx, m); err != nil {
			return fmt.Errorf("save read map: %w", err)
		}
		state, err := s.reconcileSnapshot(ctx, m)
		if err != nil {
			return err
		}
		result = MaintenanceResult{Entries: len(m.Indices()), State: state}
		return nil
	})
	return result, err
}

func (s *ProgressService) reconcileSnapshot(ctx context.Context, m domain.ReadStateMap) (domain.ReadState, error) {
	plan, err := s.plan.Items(ctx)
	if err != nil {
		return domain.ReadState{}, err
	}
	state := domain.ComputeFromMap(m, len(plan))
	if _, err := s.snapshots.Ensure(ctx, s.defaults(s.clock.Now())); err != nil {
		return domain.ReadState{}, fmt.Errorf("load snapshot: %w", err)
	}
	if err := s.snapshots.SaveDerived(ctx, state); err != nil {
		return domain.ReadState{}, fmt.Errorf("save snapshot: %w", err)
	}
	return state, nil
}

type ReindexResult struct {
	Reads    int
	Sessions int
}

// Reindex drops the SQLite projection and replays the map and the session
// ledger into it.
func (s *ProgressService) Reindex(ctx context.Context) (ReindexResult, error) {
	m, err := s.readMap.Load(ctx)
	if err != nil {
		return ReindexResult{}, err
	}
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return ReindexResult{}, fmt.Errorf("list sessions: %w", err)
	}
	if err := s.projector.Reset(ctx); err != nil {
		return ReindexResult{}, err
	}
	result := ReindexResult{}
	for _, idx := range m.Indices() {
		if err := s.projector.UpsertReads(ctx, idx, m[idx]); err != nil {
			return ReindexResult{}, err
		}
		result.Reads += len(m[idx])
	}
	for _, session := range sessions {
		if err := s.projector.InsertSession(ctx, s.ids.New(), session); err != nil {
			return ReindexResult{}, err
		}
		result.Sessions++
	}
	return result, nil
}

type ScaffoldResult struct {
	Created int
	Checked int
}

// Scaffold makes sure today's items have a chapter note and an anchor to
// link to.
func (s *ProgressService) Scaffold(ctx context.Context) (ScaffoldResult, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return ScaffoldResult{}, err
	}
	start, end := s.todayRange(current)
	indices := make([]int, 0, end-start)
	for idx := start; idx < end; idx++ {
		indices = append(indices, idx)
	}
	created, err := s.scaffoldIndices(ctx, current.Plan, indices, current.Today)
	if err != nil {
		return ScaffoldResult{}, err
	}
	return ScaffoldResult{Created: created, Checked: len(indices)}, nil
}

func (s *ProgressService) scaffoldIndices(ctx context.Context, plan []domain.PlanItem, indices []int, today time.Time) (int, error) {
	created := 0
	for _, idx := range indices {
		if idx < 0 || idx >= len(plan) {
			continue
		}
		item := plan[idx]
		changed, err := s.scaffolder.Ensure(ctx, item.Location(s.opts.NotesRoot), item.Ref, today)
		if err != nil {
			return created, fmt.Errorf("scaffold %s: %w", item.Ref, err)
		}
		if changed {
			created++
		}
	}
	return created, nil
}
