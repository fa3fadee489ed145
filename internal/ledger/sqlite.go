package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ Store = (*SQLiteStore)(nil)

// Open creates or opens a SQLite ledger. Use ":memory:" for an in-memory
// database, or a file path for persistent storage; parent directories are
// created.
func Open(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, integration(err, "create ledger directory", dbPath)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, integration(err, "open ledger database", dbPath)
	}
	// One connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, integration(err, "initialize ledger schema", dbPath)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		trigger_name TEXT NOT NULL,
		started INTEGER NOT NULL,
		finished INTEGER NOT NULL DEFAULT 0,
		outcome TEXT NOT NULL,
		pages INTEGER NOT NULL DEFAULT 0,
		citations INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS outputs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		path TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		changed INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		payload BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started);
	CREATE INDEX IF NOT EXISTS idx_outputs_build ON outputs(build_id);
	CREATE INDEX IF NOT EXISTS idx_outputs_path ON outputs(path);
	CREATE INDEX IF NOT EXISTS idx_events_build ON events(build_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) StartBuild(ctx context.Context, b Build) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (id, trigger_name, started, outcome) VALUES (?, ?, ?, ?)",
		b.ID, b.Trigger, b.Started.UnixMilli(), string(OutcomeRunning),
	)
	if err != nil {
		return integration(err, "insert build", b.ID)
	}
	return nil
}

func (s *SQLiteStore) FinishBuild(ctx context.Context, b Build) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE builds SET finished = ?, outcome = ?, pages = ?, citations = ?, error = ? WHERE id = ?",
		b.Finished.UnixMilli(), string(b.Outcome), b.Pages, b.Citations, b.Error, b.ID,
	)
	if err != nil {
		return integration(err, "update build", b.ID)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NotFoundError(nil, fmt.Sprintf("build %s was never started", b.ID)).
			WithContext("build_id", b.ID).
			Build()
	}
	return nil
}

func (s *SQLiteStore) RecordOutputs(ctx context.Context, buildID string, outputs []Output) ([]Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, integration(err, "begin outputs transaction", buildID)
	}
	defer func() { _ = tx.Rollback() }()

	recorded := make([]Output, 0, len(outputs))
	for _, o := range outputs {
		var previous string
		err := tx.QueryRowContext(ctx,
			"SELECT fingerprint FROM outputs WHERE path = ? AND build_id != ? ORDER BY id DESC LIMIT 1",
			o.Path, buildID,
		).Scan(&previous)
		switch {
		case err == sql.ErrNoRows:
			o.Changed = true
		case err != nil:
			return nil, integration(err, "query previous fingerprint", buildID)
		default:
			o.Changed = previous != o.Fingerprint
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO outputs (build_id, path, fingerprint, changed) VALUES (?, ?, ?, ?)",
			buildID, o.Path, o.Fingerprint, o.Changed,
		); err != nil {
			return nil, integration(err, "insert output", buildID)
		}
		recorded = append(recorded, o)
	}
	if err := tx.Commit(); err != nil {
		return nil, integration(err, "commit outputs", buildID)
	}
	return recorded, nil
}

func (s *SQLiteStore) Append(ctx context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (build_id, event_type, timestamp, payload) VALUES (?, ?, ?, ?)",
		e.BuildID, e.Type, ts.UnixMilli(), e.Payload,
	)
	if err != nil {
		return integration(err, "insert event", e.BuildID)
	}
	return nil
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Build, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, trigger_name, started, finished, outcome, pages, citations, error FROM builds ORDER BY started DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, integration(err, "query builds", "")
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		var b Build
		var started, finished int64
		var outcome string
		if err := rows.Scan(&b.ID, &b.Trigger, &started, &finished, &outcome, &b.Pages, &b.Citations, &b.Error); err != nil {
			return nil, integration(err, "scan build", "")
		}
		b.Started = time.UnixMilli(started)
		if finished > 0 {
			b.Finished = time.UnixMilli(finished)
		}
		b.Outcome = Outcome(outcome)
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, integration(err, "iterate builds", "")
	}
	return builds, nil
}

func (s *SQLiteStore) Outputs(ctx context.Context, buildID string) ([]Output, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT path, fingerprint, changed FROM outputs WHERE build_id = ? ORDER BY id",
		buildID,
	)
	if err != nil {
		return nil, integration(err, "query outputs", buildID)
	}
	defer rows.Close()

	var outputs []Output
	for rows.Next() {
		var o Output
		if err := rows.Scan(&o.Path, &o.Fingerprint, &o.Changed); err != nil {
			return nil, integration(err, "scan output", buildID)
		}
		outputs = append(outputs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, integration(err, "iterate outputs", buildID)
	}
	return outputs, nil
}

func (s *SQLiteStore) Events(ctx context.Context, buildID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, build_id, event_type, timestamp, payload FROM events WHERE build_id = ? ORDER BY id",
		buildID,
	)
	if err != nil {
		return nil, integration(err, "query events", buildID)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var ts int64
		if err := rows.Scan(&e.ID, &e.BuildID, &e.Type, &ts, &e.Payload); err != nil {
			return nil, integration(err, "scan event", buildID)
		}
		e.Timestamp = time.UnixMilli(ts)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, integration(err, "iterate events", buildID)
	}
	return events, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func integration(err error, op, subject string) error {
	return errors.IntegrationError(err, "ledger: "+op).
		WithContext("subject", subject).
		Build()
}
