package out

import (
	"context"
	"errors"
	"log/slog"

	"readplan/internal/modules/progress/domain"
	progressout "readplan/internal/modules/progress/port/out"
	apperrors "readplan/internal/platform/errors"
	"readplan/internal/platform/markdown"
	"readplan/internal/platform/vault"
)

// tableNote is an append-only pipe table living in a vault note.
type tableNote struct {
	fs     vault.FS
	path   string
	header []string
	logger *slog.Logger
}

func (n tableNote) append(ctx context.Context, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	content, err := n.fs.ReadText(ctx, n.path)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	return n.fs.WriteText(ctx, n.path, markdown.AppendTableRows(content, n.header, rows))
}

func (n tableNote) rows(ctx context.Context) ([][]string, error) {
	content, err := n.fs.ReadText(ctx, n.path)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return markdown.ParseTable(content, n.header), nil
}

type VaultEventLedger struct {
	note tableNote
}

func NewVaultEventLedger(fs vault.FS, path string, logger *slog.Logger) progressout.EventLedger {
	return &VaultEventLedger{note: tableNote{fs: fs, path: path, header: domain.EventLogHeader, logger: logger}}
}

func (l *VaultEventLedger) Append(ctx context.Context, events []domain.EventRecord) error {
	rows := make([][]string, 0, len(events))
	for _, event := range events {
		rows = append(rows, event.Row())
	}
	return l.note.append(ctx, rows)
}

func (l *VaultEventLedger) List(ctx context.Context) ([]domain.EventRecord, error) {
	rows, err := l.note.rows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.EventRecord, 0, len(rows))
	for _, row := range rows {
		event, err := domain.ParseEventRow(row)
		if err != nil {
			l.note.logger.Warn("skipping malformed event row", "path", l.note.path, "error", err)
			continue
		}
		out = append(out, event)
	}
	return out, nil
}

type VaultSessionLedger struct {
	note tableNote
}

func NewVaultSessionLedger(fs vault.FS, path string, logger *slog.Logger) progressout.SessionLedger {
	return &VaultSessionLedger{note: tableNote{fs: fs, path: path, header: domain.SessionLogHeader, logger: logger}}
}

func (l *VaultSessionLedger) Append(ctx context.Context, session domain.SessionRecord) error {
	return l.note.append(ctx, [][]string{session.Row()})
}

func (l *VaultSessionLedger) List(ctx context.Context) ([]domain.SessionRecord, error) {
	rows, err := l.note.rows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SessionRecord, 0, len(rows))
	for _, row := range rows {
		session, err := domain.ParseSessionRow(row)
		if err != nil {
			l.note.logger.Warn("skipping malformed session row", "path", l.note.path, "error", err)
			continue
		}
		out = append(out, session)
	}
	return out, nil
}
