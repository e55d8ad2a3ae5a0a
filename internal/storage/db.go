package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"ohelect/internal"
)

const (
	SourceOK          = "ok"
	SourceFormatError = "format_error"
)

type DB struct {
	conn *sql.DB
}

// SourceRecord is one raw input file seen by a convert run.
type SourceRecord struct {
	Year      string
	Path      string
	Format    internal.SourceFormat
	SHA256    string
	Rows      int
	Status    string
	Error     string
	UpdatedAt string
}

type RunRecord struct {
	TraceID     string
	Command     string
	TimingsMs   map[string]float64
	Diagnostics internal.Diagnostics
	CreatedAt   string
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
CREATE TABLE IF NOT EXISTS sources (
  year TEXT NOT NULL,
  path TEXT NOT NULL,
  format TEXT NOT NULL,
  sha256 TEXT NOT NULL,
  rowCount INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL,
  error TEXT NOT NULL DEFAULT '',
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY(year, path)
);

CREATE TABLE IF NOT EXISTS rows (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  year TEXT NOT NULL,
  seq INTEGER NOT NULL,
  county TEXT NOT NULL,
  office TEXT NOT NULL,
  district TEXT NOT NULL DEFAULT '',
  party TEXT NOT NULL DEFAULT '',
  candidate TEXT NOT NULL,
  votes INTEGER NOT NULL CHECK (votes >= 0),
  UNIQUE(year, seq)
);
CREATE INDEX IF NOT EXISTS idx_rows_year_office ON rows(year, office);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL UNIQUE,
  command TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
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

// ReplaceYearRows swaps a year's consolidated rows for the given ones in a
// single transaction, keeping their order.
func (d *DB) ReplaceYearRows(year string, rows []internal.Row) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM rows WHERE year = ?`, year); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT INTO rows (year, seq, county, office, district, party, candidate, votes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.Exec(year, i, r.County, r.Office, r.District, r.Party, r.Candidate, r.Votes); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (d *DB) ListYearRows(year string) ([]internal.Row, error) {
	rows, err := d.conn.Query(`
SELECT county, office, district, party, candidate, votes
FROM rows WHERE year = ? ORDER BY seq ASC
`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Row
	for rows.Next() {
		var r internal.Row
		if err := rows.Scan(&r.County, &r.Office, &r.District, &r.Party, &r.Candidate, &r.Votes); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) ListYears() ([]string, error) {
	rows, err := d.conn.Query(`SELECT DISTINCT year FROM rows ORDER BY year ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var year string
		if err := rows.Scan(&year); err != nil {
			return nil, err
		}
		out = append(out, year)
	}
	return out, rows.Err()
}

func (d *DB) UpsertSource(src SourceRecord) error {
	_, err := d.conn.Exec(`
INSERT INTO sources (year, path, format, sha256, rowCount, status, error)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(year, path) DO UPDATE SET
  format=excluded.format,
  sha256=excluded.sha256,
  rowCount=excluded.rowCount,
  status=excluded.status,
  error=excluded.error,
  updatedAt=CURRENT_TIMESTAMP
`, src.Year, src.Path, string(src.Format), src.SHA256, src.Rows, src.Status, src.Error)
	return err
}

func (d *DB) ListSources(year string) ([]SourceRecord, error) {
	rows, err := d.conn.Query(`
SELECT year, path, format, sha256, rowCount, status, error, updatedAt
FROM sources WHERE year = ? ORDER BY path ASC
`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SourceRecord
	for rows.Next() {
		var s SourceRecord
		var format string
		if err := rows.Scan(&s.Year, &s.Path, &format, &s.SHA256, &s.Rows, &s.Status, &s.Error, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Format = internal.SourceFormat(format)
		out = append(out, s)
	}
	return out, rows.Err()
}

// InsertRun records a finished command and returns its trace id.
func (d *DB) InsertRun(command string, timings map[string]float64, diag internal.Diagnostics) (string, error) {
	traceID := uuid.NewString()
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(diag)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, command, timingsJson, countsJson) VALUES (?, ?, ?, ?)`,
		traceID, command, string(timingsJSON), string(countsJSON))
	if err != nil {
		return "", err
	}
	return traceID, nil
}

func (d *DB) LastRun(command string) (*RunRecord, error) {
	var run RunRecord
	var timingsJSON, countsJSON string
	err := d.conn.QueryRow(`
SELECT traceId, command, timingsJson, countsJson, createdAt
FROM runs WHERE command = ? ORDER BY id DESC LIMIT 1
`, command).Scan(&run.TraceID, &run.Command, &timingsJSON, &countsJSON, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(timingsJSON), &run.TimingsMs)
	_ = json.Unmarshal([]byte(countsJSON), &run.Diagnostics)
	return &run, nil
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
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
