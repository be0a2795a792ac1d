package records

import "errors"

var (
	// ErrDuplicateKey is returned when inserting an ID that is already stored.
	ErrDuplicateKey = errors.New("records: student ID already exists")

	// ErrNotFound is returned when no record has the requested ID.
	ErrNotFound = errors.New("records: student not found")

	// ErrNotOpen is returned when a mutation is attempted on a closed store.
	ErrNotOpen = errors.New("records: database is not open")

	// ErrUnsavedChanges is returned by Close when the store is dirty and the
	// caller has not confirmed that the changes may be discarded.
	ErrUnsavedChanges = errors.New("records: unsaved changes")

	// ErrInvalidRecord is returned when a record breaks a field rule.
	ErrInvalidRecord = errors.New("records: invalid record")
)
