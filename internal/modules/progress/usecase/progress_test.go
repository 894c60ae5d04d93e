package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	planout "readplan/internal/modules/plan/adapter/out"
	planservice "readplan/internal/modules/plan/service"
	planusecase "readplan/internal/modules/plan/usecase"
	progressout "readplan/internal/modules/progress/adapter/out"
	"readplan/internal/modules/progress/dto"
	progressin "readplan/internal/modules/progress/port/in"
	"readplan/internal/modules/progress/service"
	"readplan/internal/modules/progress/usecase"
	apperrors "readplan/internal/platform/errors"
	"readplan/internal/platform/logging"
	"readplan/internal/platform/tx"
	"readplan/internal/platform/vault"
)

const (
	planPath     = ".readplan/plan.json"
	mapPath      = "Reading/read-map.json"
	progressPath = "Reading/Progress.md"
	eventsPath   = "Reading/Read Log.md"
	sessionsPath = "Reading/Sessions.md"
	targetPath   = "Reading/Today.md"
	boardPath    = "Reading/Dashboard.md"
)

const samplePlan = `[
  {"ref": "Genesis 1:1", "path": "Bible/Genesis/Genesis 1.md#^v1"},
  {"ref": "Genesis 1:2", "path": "Bible/Genesis/Genesis 1.md#^v2"},
  {"ref": "Genesis 2:1", "path": "Bible/Genesis/Genesis 2.md#^v1"},
  {"ref": "Genesis 2:2", "path": "Bible/Genesis/Genesis 2.md#^v2"},
  {"ref": "Genesis 3:1", "path": "Bible/Genesis/Genesis 3.md#^v1"},
  {"ref": "Exodus 1:1", "path": "Bible/Exodus/Exodus 1.md#^v1"}
]`

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type seqIDs struct{ n int }

func (s *seqIDs) New() string {
	s.n++
	return fmt.Sprintf("session-%d", s.n)
}

type harness struct {
	ctx   context.Context
	fs    *vault.Dir
	clock *fakeClock
	uc    progressin.Usecase
}

func newHarness(t *testing.T, opts service.Options) *harness {
	t.Helper()
	ctx := context.Background()
	root := t.TempDir()
	fs := vault.NewDir(root)
	if err := fs.WriteText(ctx, planPath, samplePlan); err != nil {
		t.Fatalf("write plan: %v", err)
	}
	logger := logging.Discard()
	clk := &fakeClock{now: time.Date(2026, 1, 5, 7, 30, 0, 0, time.Local)}
	projector, err := progressout.NewSQLiteReadingProjector(filepath.Join(root, ".readplan", "readplan.db"))
	if err != nil {
		t.Fatalf("new projector: %v", err)
	}
	planUC := planusecase.NewInteractor(planservice.NewPlanService(planout.NewJSONPlanStore(fs, planPath), logger))
	svc := service.NewProgressService(service.Deps{
		Clock:      clk,
		IDs:        &seqIDs{},
		Tx:         tx.NoopManager{},
		Plan:       progressout.NewPlanSourceAdapter(planUC),
		ReadMap:    progressout.NewFileReadMapStore(fs, mapPath, logger),
		Snapshots:  progressout.NewVaultSnapshotStore(fs, progressPath, logger),
		Events:     progressout.NewVaultEventLedger(fs, eventsPath, logger),
		Sessions:   progressout.NewVaultSessionLedger(fs, sessionsPath, logger),
		Target:     progressout.NewVaultTargetNote(fs, targetPath),
		Projector:  projector,
		Scaffolder: progressout.NewVaultNoteScaffolder(fs),
		Dashboard:  progressout.NewVaultDashboardStore(fs, boardPath),
		Logger:     logger,
	}, opts)
	return &harness{ctx: ctx, fs: fs, clock: clk, uc: usecase.NewInteractor(svc)}
}

func defaultOptions() service.Options {
	return service.Options{DailyCap: 300, PreviewCount: 2, DefaultTotal: 6, DefaultTargetDays: 3}
}

func (h *harness) read(t *testing.T, rel string) string {
	t.Helper()
	text, err := h.fs.ReadText(h.ctx, rel)
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return text
}

func (h *harness) write(t *testing.T, rel, text string) {
	t.Helper()
	if err := h.fs.WriteText(h.ctx, rel, text); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func (h *harness) readMap(t *testing.T) map[string][]string {
	t.Helper()
	out := map[string][]string{}
	if err := json.Unmarshal([]byte(h.read(t, mapPath)), &out); err != nil {
		t.Fatalf("decode read map: %v", err)
	}
	return out
}

func (h *harness) finalize(t *testing.T, text string) dto.FinalizeOutput {
	t.Helper()
	out, err := h.uc.Finalize(h.ctx, dto.FinalizeInput{Text: text})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return out
}

func TestDailyTargetWritesChecklistAndCreatesSnapshot(t *testing.T) {
	t.Parallel()
	h := newHarness(t, defaultOptions())
	h.write(t, targetPath, "# Today\n\nMy notes stay here.\n")

	out, err := h.uc.DailyTarget(h.ctx, dto.TargetInput{Write: true})
	if err != nil {
		t.Fatalf("daily target: %v", err)
	}
	if out.TodayCount != 2 || out.FirstUnread != 0 || out.Pacing.Expected != 2 {
		t.Fatalf("unexpected target: %+v", out)
	}
	if out.Lines[0] != "## Today: 2 verses" {
		t.Fatalf("unexpected header: %q", out.Lines[0])
	}

	note := h.read(t, targetPath)
	if !strings.HasPrefix(note, "# Today\n\nMy notes stay here.\n") {
		t.Fatalf("user text was not kept:\n%s", note)
	}
	if !strings.Contains(note, progressout.TargetBlockStart) || !strings.Contains(note, "- [ ] [[Bible/Genesis/Genesis 1#^v2|Genesis 1:2]] (idx:1)") {
		t.Fatalf("checklist missing from target note:\n%s", note)
	}

	// Rendering the same state again leaves the note byte-identical.
	if _, err := h.uc.DailyTarget(h.ctx, dto.TargetInput{Write: true}); err != nil {
		t.Fatalf("second daily target: %v", err)
	}
	if again := h.read(t, targetPath); again != note {
		t.Fatalf("target note changed on re-render:\n%s", again)
	}

	progress := h.read(t, progressPath)
	for _, want := range []string{"total_verses: 6", "start_date: 2026-01-05", "target_days: 3", "verses_read: 0"} {
		if !strings.Contains(progress, want) {
			t.Fatalf("progress note missing %q:\n%s", want, progress)
		}
	}
}

func TestFinalizeIsIdempotentWithinOneStamp(t *testing.T) {
	t.Parallel()
	h := newHarness(t, defaultOptions())
	if _, err := h.uc.DailyTarget(h.ctx, dto.TargetInput{Write: true}); err != nil {
		t.Fatalf("daily target: %v", err)
	}
	h.write(t, targetPath, strings.ReplaceAll(h.read(t, targetPath), "- [ ]", "- [x]"))

	first := h.finalize(t, "")
	if first.Completed != 2 || first.Appended != 2 || first.EventRows != 2 {
		t.Fatalf("unexpected first finalize: %+v", first)
	}
	if first.StartRef != "Genesis 1:1" || first.EndRef != "Genesis 1:2" || first.UniqueRead != 2 || first.FirstUnread != 2 {
		t.Fatalf("unexpected first finalize refs: %+v", first)
	}
	if first.Dashboard != boardPath {
		t.Fatalf("expected dashboard refresh, got %q", first.Dashboard)
	}

	second := h.finalize(t, "")
	if second.Appended != 0 || second.EventRows != 0 || second.UniqueRead != 2 {
		t.Fatalf("second finalize should add nothing: %+v", second)
	}
	m := h.readMap(t)
	if len(m) != 2 || len(m["0"]) != 1 || m["0"][0] != "2026-01-05T07:30:00" {
		t.Fatalf("unexpected read map: %v", m)
	}

	progress := h.read(t, progressPath)
	if !strings.Contains(progress, "last_order: 2") || !strings.Contains(progress, "verses_read: 2") {
		t.Fatalf("snapshot not reconciled:\n%s", progress)
	}
	if rows := strings.Count(h.read(t, eventsPath), "| 2026-01-05T07:30:00 |"); rows != 2 {
		t.Fatalf("expected 2 event rows, got %d", rows)
	}
	sessions := h.read(t, sessionsPath)
	if rows := strings.Count(sessions, "| 2026-01-05 | Genesis 1:1 | Genesis 1:2 | 2 | 2 |"); rows != 2 {
		t.Fatalf("expected one session row per finalize, got %d:\n%s", rows, sessions)
	}
	if strings.Count(sessions, "| date | start_ref |") != 1 {
		t.Fatalf("session header duplicated:\n%s", sessions)
	}

	// A later pass records a new stamp without changing completeness.
	h.clock.now = h.clock.now.Add(time.Hour)
	third := h.finalize(t, "")
	if third.Appended != 2 || third.UniqueRead != 2 {
		t.Fatalf("unexpected later finalize: %+v", third)
	}
	if m := h.readMap(t); len(m["1"]) != 2 || m["1"][1] != "2026-01-05T08:30:00" {
		t.Fatalf("unexpected re-read stamps: %v", m)
	}
}

func TestFinalizeWithoutCheckedEntriesIsNoop(t *testing.T) {
	t.Parallel()
	h := newHarness(t, defaultOptions())
	_, err := h.uc.Finalize(h.ctx, dto.FinalizeInput{Text: "- [ ] [[Genesis 1#^v1|Genesis 1:1]] (idx:0)\n- [x] no token here\n"})
	if !errors.Is(err, apperrors.ErrNothingToFinalize) {
		t.Fatalf("expected nothing to finalize, got %v", err)
	}
	if ok, _ := h.fs.Exists(h.ctx, mapPath); ok {
		t.Fatalf("no-op finalize must not create the read map")
	}
	if ok, _ := h.fs.Exists(h.ctx, sessionsPath); ok {
		t.Fatalf("no-op finalize must not append a session")
	}
}

func TestFinalizeIndexOutsidePlanSkipsEventRowOnly(t *testing.T) {
	t.Parallel()
	h := newHarness(t, defaultOptions())
	out := h.finalize(t, "- [x] (idx:1)\n- [X] stray (idx:40)\n")
	if out.Completed != 2 || out.Appended != 2 || out.EventRows != 1 {
		t.Fatalf("unexpected finalize: %+v", out)
	}
	if out.StartRef != "Genesis 1:2" || out.EndRef != "idx:40" {
		t.Fatalf("unexpected refs: %+v", out)
	}
	if out.UniqueRead != 1 || out.FirstUnread != 0 {
		t.Fatalf("out-of-plan entries must not count: %+v", out)
	}
	if !strings.Contains(h.read(t, sessionsPath), "| Genesis 1:2 | idx:40 | 2 | 0 |") {
		t.Fatalf("session row should fall back to idx token:\n%s", h.read(t, sessionsPath))
	}
}

func TestRebuildReproducesFinalizedMap(t *testing.T) {
	t.Parallel()
	h := newHarness(t, defaultOptions())
	h.finalize(t, "- [x] (idx:0)\n- [x] (idx:1)\n")
	h.clock.now = h.clock.now.AddDate(0, 0, 1)
	h.finalize(t, "- [x] (idx:2)\n- [x] again (idx:0)\n")
	before := h.readMap(t)

	if err := os.Remove(filepath.Join(h.fs.Root(), filepath.FromSlash(mapPath))); err != nil {
		t.Fatalf("remove map: %v", err)
	}
	out, err := h.uc.RebuildMap(h.ctx)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if out.Entries != 3 || out.LastOrder != 3 || out.VersesRead != 3 {
		t.Fatalf("unexpected rebuild: %+v", out)
	}
	after := h.readMap(t)
	if len(after) != len(before) {
		t.Fatalf("rebuild differs: before %v after %v", before, after)
	}
	for key, stamps := range before {
		if strings.Join(after[key], ",") != strings.Join(stamps, ",") {
			t.Fatalf("entry %s differs: before %v after %v", key, stamps, after[key])
		}
	}
}

func TestSeedFromSnapshotRefusesNonEmptyMapUnlessForced(t *testing.T) {
	t.Parallel()
	h := newHarness(t, defaultOptions())
	h.write(t, progressPath, "---\nlast_order: 4\nverses_read: 4\ntotal_verses: 6\nstart_date: 2026-01-01\ntarget_days: 3\n---\n# Progress\n")

	out, err := h.uc.SeedMap(h.ctx, dto.MaintenanceInput{})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if out.Entries != 4 || out.LastOrder != 4 || out.VersesRead != 4 {
		t.Fatalf("unexpected seed: %+v", out)
	}
	if m := h.readMap(t); len(m["3"]) != 1 || m["3"][0] != "2026-01-05T07:30:00" || len(m["4"]) != 0 {
		t.Fatalf("unexpected seeded map: %v", m)
	}

	if _, err := h.uc.SeedMap(h.ctx, dto.MaintenanceInput{}); !errors.Is(err, apperrors.ErrMapNotEmpty) {
		t.Fatalf("expected map not empty, got %v", err)
	}
	if _, err := h.uc.SeedMap(h.ctx, dto.MaintenanceInput{Force: true}); err != nil {
		t.Fatalf("forced seed: %v", err)
	}
}

func TestRecomputeRepairsDriftedSnapshot(t *testing.T) {
	t.Parallel()
	h := newHarness(t, defaultOptions())
	h.finalize(t, "- [x] (idx:0)\n- [x] (idx:2)\n")
	h.write(t, progressPath, "---\n# hand edited\nlast_order: 5\nverses_read: 5\ntotal_verses: 6\nstart_date: 2026-01-01\ntarget_days: 3\n---\n# Progress\n")

	out, err := h.uc.RecomputeSnapshot(h.ctx)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if out.LastOrder != 1 || out.VersesRead != 2 {
		t.Fatalf("unexpected recompute: %+v", out)
	}
	progress := h.read(t, progressPath)
	for _, want := range []string{"# hand edited", "last_order: 1", "verses_read: 2", "start_date: 2026-01-01", "# Progress"} {
		if !strings.Contains(progress, want) {
			t.Fatalf("progress note missing %q:\n%s", want, progress)
		}
	}
}

func TestStatusReportsPacingBehindSchedule(t *testing.T) {
	t.Parallel()
	h := newHarness(t, defaultOptions())
	h.write(t, progressPath, "---\nlast_order: 0\nverses_read: 0\ntotal_verses: 6\nstart_date: 2026-01-01\ntarget_days: 3\n---\n")

	status, err := h.uc.Status(h.ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.NextRef != "Genesis 1:1" || status.VersesRead != 0 || status.PlanLength != 6 || status.Percent != 0 {
		t.Fatalf("unexpected status: %+v", status)
	}
	want := dto.PacingOutput{DaysElapsed: 5, Expected: 10, Remaining: 6, DaysRemaining: 1, Pace: 6, Catchup: 10, RecommendedToday: 10}
	if status.Pacing != want {
		t.Fatalf("unexpected pacing: %+v", status.Pacing)
	}

	target, err := h.uc.DailyTarget(h.ctx, dto.TargetInput{})
	if err != nil {
		t.Fatalf("daily target: %v", err)
	}
	if target.TodayCount != 6 {
		t.Fatalf("today count should be capped by the plan, got %d", target.TodayCount)
	}
	if ok, _ := h.fs.Exists(h.ctx, targetPath); ok {
		t.Fatalf("target note written without write flag")
	}
}

func TestDailyCapLimitsTodayCount(t *testing.T) {
	t.Parallel()
	opts := defaultOptions()
	opts.DailyCap = 1
	h := newHarness(t, opts)
	target, err := h.uc.DailyTarget(h.ctx, dto.TargetInput{})
	if err != nil {
		t.Fatalf("daily target: %v", err)
	}
	if target.TodayCount != 1 || target.Pacing.RecommendedToday != 2 {
		t.Fatalf("unexpected capped target: %+v", target)
	}
}

func TestReindexAndDashboard(t *testing.T) {
	t.Parallel()
	h := newHarness(t, defaultOptions())
	h.finalize(t, "- [x] (idx:0)\n- [x] (idx:1)\n")

	out, err := h.uc.Reindex(h.ctx)
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if out.Reads != 2 || out.Sessions != 1 {
		t.Fatalf("unexpected reindex: %+v", out)
	}

	board, err := h.uc.Dashboard(h.ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	note := h.read(t, board.Path)
	for _, want := range []string{
		progressout.DashboardBlockStart,
		"- Progress: 2 / 6 (33.3%)",
		"- Next: Genesis 2:1 (idx:2)",
		"| 2026-01-04 | 0 |",
		"| 2026-01-05 | 2 |",
		"| 2026-01-05 | Genesis 1:1 | Genesis 1:2 | 2 | 2 |",
	} {
		if !strings.Contains(note, want) {
			t.Fatalf("dashboard missing %q:\n%s", want, note)
		}
	}
}

func TestScaffoldCreatesTodayNotes(t *testing.T) {
	t.Parallel()
	h := newHarness(t, defaultOptions())
	out, err := h.uc.Scaffold(h.ctx)
	if err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	if out.Checked != 2 || out.Created != 2 {
		t.Fatalf("unexpected scaffold: %+v", out)
	}
	note := h.read(t, "Bible/Genesis/Genesis 1.md")
	if !strings.Contains(note, "Genesis 1:1 ^v1") || !strings.Contains(note, "Genesis 1:2 ^v2") {
		t.Fatalf("anchors missing:\n%s", note)
	}

	again, err := h.uc.Scaffold(h.ctx)
	if err != nil {
		t.Fatalf("second scaffold: %v", err)
	}
	if again.Created != 0 {
		t.Fatalf("scaffold should be idempotent: %+v", again)
	}
}

func TestMissingPlanIsReported(t *testing.T) {
	t.Parallel()
	h := newHarness(t, defaultOptions())
	if err := os.Remove(filepath.Join(h.fs.Root(), filepath.FromSlash(planPath))); err != nil {
		t.Fatalf("remove plan: %v", err)
	}
	if _, err := h.uc.Status(h.ctx); !errors.Is(err, apperrors.ErrPlanMissing) {
		t.Fatalf("expected plan missing, got %v", err)
	}
}
