// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk, just like the flat
// text backend, but gives us typed columns and a transaction around each
// save. There is no server process and nothing to install beyond the driver.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded; we never call anything from it directly.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aanand-mishra/students-cms/internal/grade"
	"github.com/aanand-mishra/students-cms/internal/storage"
	"github.com/aanand-mishra/students-cms/internal/types"
	"github.com/aanand-mishra/students-cms/internal/validate"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// Compile-time interface check.
var _ storage.Storage = (*SQLite)(nil)

// SQLite is the database backend.
// It holds a *sql.DB, a connection pool managed by database/sql.
type SQLite struct {
	Db   *sql.DB
	path string
	log  *slog.Logger
}

// New opens the SQLite database at path, creates the students table if it
// does not already exist, and returns a ready-to-use *SQLite.
func New(path string, log *slog.Logger) (*SQLite, error) {
	if log == nil {
		log = slog.Default()
	}

	// sql.Open does NOT open a real connection yet. It just validates
	// the driver name and data source name (DSN).
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w: %w", storage.ErrUnavailable, err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent, safe to run on every start.
	//
	// Schema:
	//   position  — record order; Load reads rows back in this order
	//   id        — 7-digit student ID, unique
	//   name      — student's full name
	//   programme — programme of study
	//   marks     — 0.0 to 100.0, one decimal place
	//   grade     — letter grade derived from marks
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			position  INTEGER PRIMARY KEY,
			id        INTEGER NOT NULL UNIQUE,
			name      TEXT    NOT NULL,
			programme TEXT    NOT NULL,
			marks     REAL    NOT NULL,
			grade     TEXT    NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w: %w", storage.ErrUnavailable, err)
	}

	return &SQLite{Db: db, path: path, log: log}, nil
}

// Location returns the database path.
func (s *SQLite) Location() string { return s.path }

// Close closes the connection pool.
func (s *SQLite) Close() error { return s.Db.Close() }

// ─────────────────────────────────────────────────────────────────────────────
// Load returns all student rows in stored order.
//
// A row that no longer passes validation (edited by hand, say) is logged
// and skipped rather than failing the whole load, mirroring how the flat
// file backend treats a malformed line. Grades are recomputed from marks.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Load() ([]types.Student, error) {
	rows, err := s.Db.Query(
		// Explicitly list columns; never SELECT * when Scan depends on order.
		"SELECT id, name, programme, marks, grade FROM students ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("Load: query: %w: %w", storage.ErrUnavailable, err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)

	for rows.Next() {
		var (
			id              int
			name, programme string
			marks           float64
			stored          string
		)
		if err := rows.Scan(&id, &name, &programme, &marks, &stored); err != nil {
			s.log.Warn("skipping unreadable row", slog.String("error", err.Error()))
			continue
		}

		student := types.New(id, name, programme, validate.RoundMarks(marks))
		if grade.Grade(stored) != student.Grade {
			s.log.Warn("stored grade disagrees with marks, recomputed",
				slog.Int("id", id),
				slog.String("stored", stored),
				slog.String("grade", string(student.Grade)))
		}
		if err := validate.Record(student); err != nil {
			s.log.Warn("skipping malformed row",
				slog.Int("id", id),
				slog.String("error", fmt.Errorf("%w: %w", storage.ErrMalformedRecord, err).Error()))
			continue
		}

		students = append(students, student)
	}

	// rows.Err() captures any error that occurred during iteration.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Load: rows iteration: %w: %w", storage.ErrUnavailable, err)
	}

	return students, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Save replaces the table contents with students, in order.
//
// Everything happens in one transaction: either the whole new dataset is
// stored or, on any error, the previous dataset is left untouched.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Save(students []types.Student) (err error) {
	tx, err := s.Db.Begin()
	if err != nil {
		return fmt.Errorf("Save: begin: %w: %w", storage.ErrUnavailable, err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, rollback(tx))
		}
	}()

	if _, err = tx.Exec("DELETE FROM students"); err != nil {
		return fmt.Errorf("Save: clear: %w: %w", storage.ErrUnavailable, err)
	}

	// Prepared statements keep values apart from SQL text: the driver sends
	// the query and the values separately.
	stmt, err := tx.Prepare(
		"INSERT INTO students (position, id, name, programme, marks, grade) VALUES (?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("Save: prepare: %w: %w", storage.ErrUnavailable, err)
	}
	defer stmt.Close()

	for i, st := range students {
		// Argument order matches the ? order in the SQL.
		if _, err = stmt.Exec(i+1, st.ID, st.Name, st.Programme, st.Marks, string(st.Grade)); err != nil {
			return fmt.Errorf("Save: insert %d: %w: %w", st.ID, storage.ErrUnavailable, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("Save: commit: %w: %w", storage.ErrUnavailable, err)
	}
	return nil
}

func rollback(tx *sql.Tx) error {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("Save: rollback: %w", err)
	}
	return nil
}
