package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"electwatch/internal"
	apperr "electwatch/internal/errors"
	"electwatch/internal/util"
)

// MetaLastUpdated is the metadata key holding the fetch time of the stored
// snapshot in RFC 3339.
const MetaLastUpdated = "snapshot.last_updated"

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS snapshot_units (
  serialNumber INTEGER PRIMARY KEY,
  commission TEXT NOT NULL,
  unitName TEXT NOT NULL,
  rawName TEXT NOT NULL,
  turnoutRate REAL,
  votedCount INTEGER,
  totalEligible INTEGER,
  remainingToClose INTEGER,
  growth INTEGER NOT NULL DEFAULT 0,
  target INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_snapshot_units_commission ON snapshot_units(commission);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  status TEXT NOT NULL,
  units INTEGER NOT NULL DEFAULT 0,
  durationMs INTEGER NOT NULL DEFAULT 0,
  error TEXT NOT NULL DEFAULT '',
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// SaveSnapshot replaces the stored snapshot with snap in one transaction.
func (d *DB) SaveSnapshot(snap internal.Snapshot) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM snapshot_units`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT INTO snapshot_units (
  serialNumber, commission, unitName, rawName,
  turnoutRate, votedCount, totalEligible, remainingToClose, growth, target
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range snap.Records {
		serial := r.SerialNumber
		if serial <= 0 {
			serial = i + 1
		}
		if _, err := stmt.Exec(
			serial, r.Commission, r.UnitName, r.RawName,
			nullFloat(r.TurnoutRate), nullInt(r.VotedCount), nullInt(r.TotalEligible), nullInt(r.RemainingToClose),
			r.Growth, boolToInt(r.Target),
		); err != nil {
			return fmt.Errorf("insert unit %q: %w", r.UnitName, err)
		}
	}

	if err := setMetadata(tx, MetaLastUpdated, snap.FetchedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}

	return tx.Commit()
}

// LoadSnapshot returns the stored snapshot, or a NotFound error when none was
// ever saved.
func (d *DB) LoadSnapshot() (internal.Snapshot, error) {
	rows, err := d.conn.Query(`
SELECT serialNumber, commission, unitName, rawName,
       turnoutRate, votedCount, totalEligible, remainingToClose, growth, target
FROM snapshot_units ORDER BY serialNumber
`)
	if err != nil {
		return internal.Snapshot{}, err
	}
	defer rows.Close()

	var snap internal.Snapshot
	for rows.Next() {
		var (
			r                         internal.UnitRecord
			rate                      sql.NullFloat64
			voted, eligible, remaining sql.NullInt64
			target                    int
		)
		if err := rows.Scan(
			&r.SerialNumber, &r.Commission, &r.UnitName, &r.RawName,
			&rate, &voted, &eligible, &remaining, &r.Growth, &target,
		); err != nil {
			return internal.Snapshot{}, err
		}
		r.TurnoutRate = floatPtr(rate)
		r.VotedCount = intPtr(voted)
		r.TotalEligible = intPtr(eligible)
		r.RemainingToClose = intPtr(remaining)
		r.Target = target != 0
		snap.Records = append(snap.Records, r)
	}
	if err := rows.Err(); err != nil {
		return internal.Snapshot{}, err
	}
	if snap.Empty() {
		return internal.Snapshot{}, apperr.NotFound("no stored snapshot")
	}

	updated, err := d.GetMetadata(MetaLastUpdated)
	if err != nil {
		return internal.Snapshot{}, err
	}
	if updated != nil {
		if ts, err := time.Parse(time.RFC3339Nano, *updated); err == nil {
			snap.FetchedAt = ts
		}
	}
	return snap, nil
}

func (d *DB) InsertRun(run internal.RunRow) error {
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, status, units, durationMs, error) VALUES (?, ?, ?, ?, ?)`,
		run.TraceID, run.Status, run.Units, run.DurationMs, run.Error)
	return err
}

// ListRuns returns the most recent runs first.
func (d *DB) ListRuns(limit int) ([]internal.RunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.Query(`
SELECT id, traceId, status, units, durationMs, error, createdAt
FROM runs ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []internal.RunRow{}
	for rows.Next() {
		var row internal.RunRow
		if err := rows.Scan(&row.ID, &row.TraceID, &row.Status, &row.Units, &row.DurationMs, &row.Error, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func setMetadata(ex execer, key, value string) error {
	_, err := ex.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return util.FloatPtr(v.Float64)
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	return util.IntPtr(int(v.Int64))
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
