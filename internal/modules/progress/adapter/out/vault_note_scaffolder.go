package out

import (
	"context"
	"errors"
	"strings"
	"time"

	"readplan/internal/modules/progress/domain"
	progressout "readplan/internal/modules/progress/port/out"
	apperrors "readplan/internal/platform/errors"
	"readplan/internal/platform/markdown"
	"readplan/internal/platform/notes"
	"readplan/internal/platform/vault"
)

// VaultNoteScaffolder creates chapter notes and the anchors plan links
// point at. Existing text is only ever appended to.
type VaultNoteScaffolder struct {
	fs vault.FS
}

func NewVaultNoteScaffolder(fs vault.FS) progressout.NoteScaffolder {
	return &VaultNoteScaffolder{fs: fs}
}

func (s *VaultNoteScaffolder) Ensure(ctx context.Context, loc notes.Location, ref string, today time.Time) (bool, error) {
	content, err := s.fs.ReadText(ctx, loc.NotePath)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return false, err
	}
	changed := false
	if err != nil {
		content, err = markdown.RenderFrontmatter(map[string]any{
			"chapter": loc.Label,
			"created": today.Format(domain.DateLayout),
		}, "# "+loc.Label+"\n")
		if err != nil {
			return false, err
		}
		changed = true
	}
	if !hasAnchor(content, loc) {
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		if loc.IsBlockAnchor() {
			content += "\n" + ref + " " + loc.Anchor + "\n"
		} else {
			content += "\n## " + loc.Anchor + "\n"
		}
		changed = true
	}
	if !changed {
		return false, nil
	}
	if err := s.fs.WriteText(ctx, loc.NotePath, content); err != nil {
		return false, err
	}
	return true, nil
}

func hasAnchor(content string, loc notes.Location) bool {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if loc.IsBlockAnchor() {
			if line == loc.Anchor || strings.HasSuffix(line, " "+loc.Anchor) {
				return true
			}
			continue
		}
		if strings.HasPrefix(line, "#") && strings.TrimSpace(strings.TrimLeft(line, "#")) == loc.Anchor {
			return true
		}
	}
	return false
}
