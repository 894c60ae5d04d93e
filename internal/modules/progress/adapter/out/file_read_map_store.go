package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"readplan/internal/modules/progress/domain"
	progressout "readplan/internal/modules/progress/port/out"
	apperrors "readplan/internal/platform/errors"
	"readplan/internal/platform/vault"
)

// FileReadMapStore keeps the read map as a JSON object keyed by the index
// in decimal.
type FileReadMapStore struct {
	fs     vault.FS
	path   string
	logger *slog.Logger
}

func NewFileReadMapStore(fs vault.FS, path string, logger *slog.Logger) progressout.ReadMapStore {
	return &FileReadMapStore{fs: fs, path: path, logger: logger}
}

func (s *FileReadMapStore) Load(ctx context.Context) (domain.ReadStateMap, error) {
	text, err := s.fs.ReadText(ctx, s.path)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.ReadStateMap{}, nil
		}
		return nil, err
	}
	raw := map[string][]string{}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		s.logger.Warn("read map is malformed, treating as empty", "path", s.path, "error", err)
		return domain.ReadStateMap{}, nil
	}
	out := make(domain.ReadStateMap, len(raw))
	for key, stamps := range raw {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			s.logger.Warn("skipping read map entry with bad index", "path", s.path, "key", key)
			continue
		}
		out[idx] = stamps
	}
	return out, nil
}

func (s *FileReadMapStore) Save(ctx context.Context, m domain.ReadStateMap) error {
	raw := make(map[string][]string, len(m))
	for idx, stamps := range m {
		if len(stamps) == 0 {
			continue
		}
		raw[strconv.Itoa(idx)] = stamps
	}
	payload, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal read map: %w", err)
	}
	return s.fs.WriteText(ctx, s.path, string(payload)+"\n")
}
