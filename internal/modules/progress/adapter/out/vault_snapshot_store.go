package out

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"readplan/internal/modules/progress/domain"
	progressout "readplan/internal/modules/progress/port/out"
	apperrors "readplan/internal/platform/errors"
	"readplan/internal/platform/markdown"
	"readplan/internal/platform/vault"
)

const (
	keyLastOrder   = "last_order"
	keyVersesRead  = "verses_read"
	keyTotalVerses = "total_verses"
	keyStartDate   = "start_date"
	keyTargetDays  = "target_days"

	progressBody = "# Reading Progress\n\nManaged by readplan. Edit `start_date` or `target_days` to change the schedule.\n"
)

// VaultSnapshotStore keeps the snapshot in the preamble of the progress
// note. Writes are merge-patches; the body and any other keys are kept.
type VaultSnapshotStore struct {
	fs     vault.FS
	path   string
	logger *slog.Logger
}

func NewVaultSnapshotStore(fs vault.FS, path string, logger *slog.Logger) progressout.SnapshotStore {
	return &VaultSnapshotStore{fs: fs, path: path, logger: logger}
}

func (s *VaultSnapshotStore) Ensure(ctx context.Context, defaults domain.Snapshot) (domain.Snapshot, error) {
	content, exists, err := s.read(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	meta, _, splitErr := markdown.SplitFrontmatter(content)
	if splitErr != nil {
		s.logger.Warn("progress preamble is malformed, using defaults", "path", s.path, "error", splitErr)
		meta = map[string]any{}
	}

	snap := defaults
	var missing []markdown.Field
	if v, ok := asInt(meta[keyLastOrder]); ok {
		snap.LastOrder = v
	} else {
		missing = append(missing, markdown.Field{Key: keyLastOrder, Value: defaults.LastOrder})
	}
	if v, ok := asInt(meta[keyVersesRead]); ok {
		snap.VersesRead = v
	} else {
		missing = append(missing, markdown.Field{Key: keyVersesRead, Value: defaults.VersesRead})
	}
	if v, ok := asInt(meta[keyTotalVerses]); ok && v > 0 {
		snap.TotalVerses = v
	} else {
		missing = append(missing, markdown.Field{Key: keyTotalVerses, Value: defaults.TotalVerses})
	}
	if v, ok := asDate(meta[keyStartDate]); ok {
		snap.StartDate = v
	} else {
		if raw, present := meta[keyStartDate]; present && raw != nil {
			s.logger.Warn("progress start_date is unreadable, resetting it", "path", s.path, "value", raw, "default", defaults.StartDate.Format(domain.DateLayout))
		}
		missing = append(missing, markdown.Field{Key: keyStartDate, Value: defaults.StartDate})
	}
	if v, ok := asInt(meta[keyTargetDays]); ok && v > 0 {
		snap.TargetDays = v
	} else {
		missing = append(missing, markdown.Field{Key: keyTargetDays, Value: defaults.TargetDays})
	}

	if len(missing) == 0 {
		return snap, nil
	}
	if !exists {
		content = progressBody
	}
	if err := s.patch(ctx, content, missing); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

func (s *VaultSnapshotStore) SaveDerived(ctx context.Context, state domain.ReadState) error {
	content, exists, err := s.read(ctx)
	if err != nil {
		return err
	}
	if !exists {
		content = progressBody
	}
	return s.patch(ctx, content, []markdown.Field{
		{Key: keyLastOrder, Value: state.FirstUnread},
		{Key: keyVersesRead, Value: state.UniqueRead},
	})
}

func (s *VaultSnapshotStore) read(ctx context.Context) (string, bool, error) {
	content, err := s.fs.ReadText(ctx, s.path)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return content, true, nil
}

func (s *VaultSnapshotStore) patch(ctx context.Context, content string, fields []markdown.Field) error {
	patched, err := markdown.PatchFrontmatter(content, fields...)
	if err != nil {
		// An unreadable preamble is replaced by a fresh one on top; the old
		// text is kept below it.
		s.logger.Warn("progress preamble is malformed, writing a new one", "path", s.path, "error", err)
		fresh, freshErr := markdown.PatchFrontmatter("", fields...)
		if freshErr != nil {
			return fmt.Errorf("patch progress note: %w", freshErr)
		}
		patched = fresh + "\n" + content
	}
	return s.fs.WriteText(ctx, s.path, patched)
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		return n, err == nil
	default:
		return 0, false
	}
}

func asDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return domain.CalendarDay(x), true
	case string:
		t, err := time.Parse(domain.DateLayout, strings.TrimSpace(x))
		return t, err == nil
	default:
		return time.Time{}, false
	}
}
