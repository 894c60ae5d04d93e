package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "readplan/internal/platform/errors"
)

// FS is the host adapter every store goes through. Paths are relative to
// the vault root.
type FS interface {
	ReadText(ctx context.Context, rel string) (string, error)
	WriteText(ctx context.Context, rel, text string) error
	Exists(ctx context.Context, rel string) (bool, error)
	EnsureDir(ctx context.Context, rel string) error
}

// Dir is an FS backed by a directory on disk.
type Dir struct {
	root string
}

func NewDir(root string) *Dir {
	return &Dir{root: root}
}

func (d *Dir) Root() string { return d.root }

// Abs resolves a vault-relative path, refusing paths that escape the root.
func (d *Dir) Abs(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimSpace(rel)))
	if clean == "." || clean == "" {
		return "", fmt.Errorf("%w: empty vault path", apperrors.ErrInvalidInput)
	}
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path %q leaves the vault", apperrors.ErrInvalidInput, rel)
	}
	return filepath.Join(d.root, clean), nil
}

func (d *Dir) ReadText(_ context.Context, rel string) (string, error) {
	path, err := d.Abs(rel)
	if err != nil {
		return "", err
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", rel, apperrors.ErrNotFound)
		}
		return "", fmt.Errorf("read %s: %w", rel, err)
	}
	return string(payload), nil
}

func (d *Dir) WriteText(_ context.Context, rel, text string) error {
	path, err := d.Abs(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}

func (d *Dir) Exists(_ context.Context, rel string) (bool, error) {
	path, err := d.Abs(rel)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", rel, err)
	}
	return true, nil
}

func (d *Dir) EnsureDir(_ context.Context, rel string) error {
	path, err := d.Abs(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", rel, err)
	}
	return nil
}
