// Package journal keeps a SQLite record of completed diagnostics fetches.
// Only outcomes are stored, never the documents themselves.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bekirdag/diagview/internal/diagnostics"
)

// Entry is one completed fetch.
type Entry struct {
	ID           int64         `json:"id"`
	Environment  string        `json:"environment"`
	URL          string        `json:"url"`
	Seq          uint64        `json:"seq"`
	StartedAt    time.Time     `json:"startedAt"`
	Duration     time.Duration `json:"duration"`
	OK           bool          `json:"ok"`
	Empty        bool          `json:"empty,omitempty"`
	Error        string        `json:"error,omitempty"`
	Loaded       int           `json:"loaded"`
	Failed       int           `json:"failed"`
	BuildVersion string        `json:"buildVersion,omitempty"`
}

// EntryFromResult summarises a fetch result.
func EntryFromResult(result diagnostics.FetchResult, startedAt time.Time, elapsed time.Duration) Entry {
	entry := Entry{
		Environment: result.Request.Environment.Key(),
		URL:         result.Request.URL,
		Seq:         result.Request.Seq,
		StartedAt:   startedAt.UTC(),
		Duration:    elapsed,
		OK:          result.Err == nil,
	}
	if result.Err != nil {
		entry.Error = result.Err.Error()
		return entry
	}
	entry.Empty = result.Document == nil
	entry.Loaded, entry.Failed = result.Document.Counts()
	if result.Document != nil {
		entry.BuildVersion = result.Document.BuildInfo.BuildVersion
	}
	return entry
}

type Store struct {
	db   *sql.DB
	path string
}

// Open creates the database file and its directory when missing.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("journal path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Record and Latest run from concurrent tea commands.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

func migrate(db *sql.DB) error {
	statements := []string{
		`PRAGMA busy_timeout=5000;`,
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS fetches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			environment TEXT NOT NULL,
			url TEXT NOT NULL,
			seq INTEGER NOT NULL DEFAULT 0,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			ok INTEGER NOT NULL DEFAULT 0,
			empty INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT '',
			loaded INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			build_version TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS fetches_environment ON fetches (environment, id);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("journal migration failed: %w", err)
		}
	}
	return nil
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends entry and returns its id.
func (s *Store) Record(entry Entry) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	startedAt := entry.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	res, err := s.db.Exec(`INSERT INTO fetches
		(environment, url, seq, started_at, duration_ms, ok, empty, error, loaded, failed, build_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Environment,
		entry.URL,
		int64(entry.Seq),
		startedAt.UTC().Format(time.RFC3339Nano),
		entry.Duration.Milliseconds(),
		boolInt(entry.OK),
		boolInt(entry.Empty),
		entry.Error,
		entry.Loaded,
		entry.Failed,
		entry.BuildVersion,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`SELECT `+entryColumns+` FROM fetches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Latest returns the newest entry per environment key.
func (s *Store) Latest() (map[string]Entry, error) {
	if s == nil || s.db == nil {
		return map[string]Entry{}, nil
	}
	rows, err := s.db.Query(`SELECT ` + entryColumns + ` FROM fetches
		WHERE id IN (SELECT MAX(id) FROM fetches GROUP BY environment)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	latest := make(map[string]Entry, len(entries))
	for _, entry := range entries {
		latest[entry.Environment] = entry
	}
	return latest, nil
}

const entryColumns = `id, environment, url, seq, started_at, duration_ms, ok, empty, error, loaded, failed, build_version`

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			entry      Entry
			seq        int64
			startedAt  string
			durationMS int64
			ok, empty  int
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.Environment,
			&entry.URL,
			&seq,
			&startedAt,
			&durationMS,
			&ok,
			&empty,
			&entry.Error,
			&entry.Loaded,
			&entry.Failed,
			&entry.BuildVersion,
		); err != nil {
			return nil, err
		}
		entry.Seq = uint64(seq)
		entry.Duration = time.Duration(durationMS) * time.Millisecond
		entry.OK = ok != 0
		entry.Empty = empty != 0
		if parsed, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			entry.StartedAt = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Summary is a one-line description used in menus and history listings.
func (e Entry) Summary() string {
	when := e.StartedAt.Local().Format("15:04:05")
	switch {
	case !e.OK:
		return fmt.Sprintf("%s failed: %s", when, e.Error)
	case e.Empty:
		return fmt.Sprintf("%s empty document", when)
	default:
		return fmt.Sprintf("%s ok, %d loaded / %d failed (%s)", when, e.Loaded, e.Failed, e.Duration.Round(time.Millisecond))
	}
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
