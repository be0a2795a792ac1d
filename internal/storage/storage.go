// Package storage defines the Storage interface, the contract any backing
// store must satisfy to load and save the student records.
//
// WHY AN INTERFACE?
// ─────────────────
// The session never cares where records live. The flat text file is the
// default backend; the SQLite backend satisfies the same contract, so the
// choice is one line of configuration (storage.driver) and zero handler
// changes. Tests can pass any fake that satisfies the interface.
//
// Both backends have whole-dataset semantics: Load reads every record, Save
// rewrites every record. There is no per-record persistence.
package storage

import (
	"errors"

	"github.com/aanand-mishra/students-cms/internal/types"
)

var (
	// ErrUnavailable is returned when the backing store cannot be read or
	// written (missing file, permissions, broken database).
	ErrUnavailable = errors.New("storage: backing store unavailable")

	// ErrMalformedRecord marks a stored record that could not be parsed.
	// Backends skip such records on Load and log them; it is never returned
	// from Load itself.
	ErrMalformedRecord = errors.New("storage: malformed record")

	// ErrUnknownDriver is returned by callers choosing a backend by name.
	ErrUnknownDriver = errors.New("storage: unknown driver")
)

// Storage is the persistence contract.
type Storage interface {
	// Load returns every well-formed record in stored order. Malformed
	// records are skipped. Fails with ErrUnavailable if nothing can be read.
	Load() ([]types.Student, error)

	// Save replaces everything stored with records, in order.
	Save(records []types.Student) error

	// Location describes where the data lives, for messages and logs.
	Location() string

	// Close releases any held resources.
	Close() error
}
