package out

import (
	"context"
	"errors"

	progressout "readplan/internal/modules/progress/port/out"
	apperrors "readplan/internal/platform/errors"
	"readplan/internal/platform/markdown"
	"readplan/internal/platform/vault"
)

const (
	TargetBlockStart    = "<!-- readplan:today:start -->"
	TargetBlockEnd      = "<!-- readplan:today:end -->"
	DashboardBlockStart = "<!-- readplan:dashboard:start -->"
	DashboardBlockEnd   = "<!-- readplan:dashboard:end -->"
)

// managedNote is a user note with one generated region; text outside the
// markers belongs to the user.
type managedNote struct {
	fs         vault.FS
	path       string
	start, end string
}

func (n managedNote) load(ctx context.Context) (string, error) {
	content, err := n.fs.ReadText(ctx, n.path)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return content, nil
}

func (n managedNote) save(ctx context.Context, generated string) (string, error) {
	content, err := n.load(ctx)
	if err != nil {
		return "", err
	}
	updated := markdown.ReplaceManagedBlock(content, n.start, n.end, generated)
	if err := n.fs.WriteText(ctx, n.path, updated); err != nil {
		return "", err
	}
	return n.path, nil
}

type VaultTargetNote struct {
	note managedNote
}

func NewVaultTargetNote(fs vault.FS, path string) progressout.TargetNote {
	return &VaultTargetNote{note: managedNote{fs: fs, path: path, start: TargetBlockStart, end: TargetBlockEnd}}
}

func (t *VaultTargetNote) Load(ctx context.Context) (string, error) {
	return t.note.load(ctx)
}

func (t *VaultTargetNote) SaveTarget(ctx context.Context, generated string) (string, error) {
	return t.note.save(ctx, generated)
}

type VaultDashboardStore struct {
	note managedNote
}

func NewVaultDashboardStore(fs vault.FS, path string) progressout.DashboardStore {
	return &VaultDashboardStore{note: managedNote{fs: fs, path: path, start: DashboardBlockStart, end: DashboardBlockEnd}}
}

func (d *VaultDashboardStore) Save(ctx context.Context, generated string) (string, error) {
	return d.note.save(ctx, generated)
}
