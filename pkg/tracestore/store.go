// Package tracestore keeps recorded render command traces in SQLite.
package tracestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/chazu/rendercmd/pkg/trace"
)

var log = commonlog.GetLogger("rendercmd.tracestore")

// ErrRunNotFound indicates the requested run doesn't exist
var ErrRunNotFound = errors.New("run not found")

const schema = `CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	call_count INTEGER NOT NULL,
	error      TEXT NOT NULL DEFAULT '',
	trace_cbor BLOB NOT NULL
)`

// RunInfo summarizes a stored run.
type RunInfo struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	CallCount int
	Err       string
}

// Run is a stored run with its decoded trace.
type Run struct {
	RunInfo
	Trace *trace.Trace
}

// Store handles SQLite storage for traces
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// Open opens or creates the database at path. Use ":memory:" for a
// throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// Each connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Store{db: db, path: path, now: time.Now}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// SaveRun stores t under name and returns the new run id.
func (s *Store) SaveRun(ctx context.Context, name string, t *trace.Trace) (int64, error) {
	data, err := trace.Marshal(t)
	if err != nil {
		return 0, fmt.Errorf("encoding trace: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (name, created_at, call_count, error, trace_cbor) VALUES (?, ?, ?, ?, ?)",
		name, s.now().UnixNano(), len(t.Calls), t.Err, data,
	)
	if err != nil {
		return 0, fmt.Errorf("saving run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("saving run: %w", err)
	}

	log.Debugf("saved run %d (%s): %d calls", id, name, len(t.Calls))
	return id, nil
}

// LoadRun retrieves a run and decodes its trace.
func (s *Store) LoadRun(ctx context.Context, id int64) (*Run, error) {
	var (
		run     Run
		created int64
		data    []byte
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at, call_count, error, trace_cbor FROM runs WHERE id = ?", id,
	).Scan(&run.ID, &run.Name, &created, &run.CallCount, &run.Err, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("run %d: %w", id, ErrRunNotFound)
		}
		return nil, fmt.Errorf("querying run: %w", err)
	}
	run.CreatedAt = time.Unix(0, created)

	run.Trace, err = trace.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("run %d: %w", id, err)
	}
	return &run, nil
}

// ListRuns returns every stored run, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at, call_count, error FROM runs ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var (
			info    RunInfo
			created int64
		)
		if err := rows.Scan(&info.ID, &info.Name, &created, &info.CallCount, &info.Err); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		info.CreatedAt = time.Unix(0, created)
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run.
func (s *Store) DeleteRun(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	return nil
}
