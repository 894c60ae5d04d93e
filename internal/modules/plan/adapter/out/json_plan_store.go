package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"readplan/internal/modules/plan/domain"
	planout "readplan/internal/modules/plan/port/out"
	apperrors "readplan/internal/platform/errors"
	"readplan/internal/platform/vault"
)

// JSONPlanStore reads the plan from a JSON array of {ref, path}.
type JSONPlanStore struct {
	fs   vault.FS
	path string
}

func NewJSONPlanStore(fs vault.FS, path string) planout.PlanStore {
	return &JSONPlanStore{fs: fs, path: path}
}

func (s *JSONPlanStore) Location() string { return s.path }

func (s *JSONPlanStore) Load(ctx context.Context) (domain.Plan, error) {
	text, err := s.fs.ReadText(ctx, s.path)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Plan{}, fmt.Errorf("%w: %s", apperrors.ErrPlanMissing, s.path)
		}
		return domain.Plan{}, err
	}
	var items []domain.Item
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return domain.Plan{}, fmt.Errorf("%w: decode %s: %v", apperrors.ErrPlanMissing, s.path, err)
	}
	return domain.Plan{Items: items}, nil
}
