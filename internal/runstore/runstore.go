// Package runstore keeps a local history of evaluation runs in sqlite so
// error statistics can be compared across shapes, radii, gridsteps,
// kernels and methods.
package runstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one recorded evaluation.
type Run struct {
	ID        string
	CreatedAt time.Time
	Shape     string
	GridStep  float64
	Radius    float64
	Kernel    string
	Method    string
	Samples   int
	Faults    int
	ErrLinf   float64
	ErrL2     float64
}

// Store wraps the sqlite handle.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the run database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("runstore: %w", err)
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			shape TEXT NOT NULL,
			gridstep DOUBLE NOT NULL,
			radius DOUBLE NOT NULL,
			kernel TEXT NOT NULL,
			method TEXT NOT NULL,
			samples INTEGER NOT NULL,
			faults INTEGER NOT NULL,
			err_linf DOUBLE NOT NULL,
			err_l2 DOUBLE NOT NULL
		);
		CREATE INDEX IF NOT EXISTS runs_shape ON runs(shape, method, kernel);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("runstore: creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts a run, assigning its ID and timestamp when unset, and
// returns the stored run.
func (s *Store) Record(r Run) (Run, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO runs (run_id, created_at, shape, gridstep, radius, kernel, method, samples, faults, err_linf, err_l2)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CreatedAt, r.Shape, r.GridStep, r.Radius, r.Kernel, r.Method, r.Samples, r.Faults, r.ErrLinf, r.ErrL2)
	if err != nil {
		return Run{}, fmt.Errorf("runstore: recording run: %w", err)
	}
	return r, nil
}

// ByShape returns the recorded runs for one shape, most recent first.
func (s *Store) ByShape(shape string) ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT run_id, created_at, shape, gridstep, radius, kernel, method, samples, faults, err_linf, err_l2
		FROM runs WHERE shape = ? ORDER BY created_at DESC`, shape)
	if err != nil {
		return nil, fmt.Errorf("runstore: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Shape, &r.GridStep, &r.Radius, &r.Kernel,
			&r.Method, &r.Samples, &r.Faults, &r.ErrLinf, &r.ErrL2); err != nil {
			return nil, fmt.Errorf("runstore: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
