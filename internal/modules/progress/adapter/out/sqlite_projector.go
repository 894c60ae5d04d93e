package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"readplan/internal/modules/progress/domain"
	progressout "readplan/internal/modules/progress/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteReadingProjector mirrors reads and sessions into SQLite for the
// dashboard queries. It is a disposable projection; reindex rebuilds it
// from the vault.
type SQLiteReadingProjector struct {
	db *sql.DB
}

func NewSQLiteReadingProjector(dbPath string) (progressout.ReadingProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteReadingProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return projector, nil
}

func (p *SQLiteReadingProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS reads (
  idx INTEGER NOT NULL,
  read_at TEXT NOT NULL,
  PRIMARY KEY (idx, read_at)
);
CREATE INDEX IF NOT EXISTS idx_reads_read_at ON reads(read_at);
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  day TEXT NOT NULL,
  start_ref TEXT NOT NULL,
  end_ref TEXT NOT NULL,
  count INTEGER NOT NULL,
  last_order INTEGER NOT NULL
);
`
	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create reading tables: %w", err)
	}
	return nil
}

func (p *SQLiteReadingProjector) Reset(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM reads; DELETE FROM sessions;`); err != nil {
		return fmt.Errorf("reset reading projection: %w", err)
	}
	return nil
}

func (p *SQLiteReadingProjector) UpsertReads(ctx context.Context, index int, stamps []string) error {
	if len(stamps) == 0 {
		return nil
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reads tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const stmt = `
INSERT INTO reads (idx, read_at)
VALUES (?, ?)
ON CONFLICT(idx, read_at) DO NOTHING;
`
	for _, stamp := range stamps {
		if _, err := tx.ExecContext(ctx, stmt, index, stamp); err != nil {
			return fmt.Errorf("upsert read %d: %w", index, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reads: %w", err)
	}
	return nil
}

func (p *SQLiteReadingProjector) InsertSession(ctx context.Context, id string, session domain.SessionRecord) error {
	const stmt = `
INSERT INTO sessions (id, day, start_ref, end_ref, count, last_order)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  day=excluded.day,
  start_ref=excluded.start_ref,
  end_ref=excluded.end_ref,
  count=excluded.count,
  last_order=excluded.last_order;
`
	_, err := p.db.ExecContext(ctx, stmt, id, session.Date, session.StartRef, session.EndRef, session.Count, session.LastOrder)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// DailyCounts returns distinct items read per day from sinceDay on.
func (p *SQLiteReadingProjector) DailyCounts(ctx context.Context, sinceDay string) ([]domain.DayCount, error) {
	rows, err := p.db.QueryContext(ctx, `
SELECT substr(read_at, 1, 10) AS day, COUNT(DISTINCT idx)
FROM reads
WHERE read_at >= ?
GROUP BY day
ORDER BY day ASC;
`, sinceDay)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	defer rows.Close()

	out := make([]domain.DayCount, 0)
	for rows.Next() {
		item := domain.DayCount{}
		if err := rows.Scan(&item.Day, &item.Count); err != nil {
			return nil, fmt.Errorf("scan daily count: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily counts: %w", err)
	}
	return out, nil
}
