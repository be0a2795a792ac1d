// Package records holds the in-memory student collection for one session.
//
// A Store keeps records in insertion order and guarantees that IDs are
// unique and that every grade matches its marks. Two flags travel with the
// data:
//
//	open  — a backing file has been loaded; mutations are only legal when open
//	dirty — something changed since the last successful save
//
// The store is owned by a single session and is not safe for concurrent use.
package records

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/aanand-mishra/students-cms/internal/grade"
	"github.com/aanand-mishra/students-cms/internal/types"
	"github.com/aanand-mishra/students-cms/internal/validate"
)

// Store is the ordered record collection plus its session flags.
type Store struct {
	records []types.Student
	open    bool
	dirty   bool
}

// Mutation lists the fields an update changes. Nil fields are left alone.
// Grade is not here: it follows Marks.
type Mutation struct {
	Name      *string
	Programme *string
	Marks     *float64
}

// New returns an empty, closed store.
func New() *Store {
	return &Store{}
}

// Open replaces the contents of the store with records and marks it open
// and clean. Records that are invalid or repeat an earlier ID are left out;
// the returned error joins one error per skipped record, and the store is
// open either way.
func (s *Store) Open(records []types.Student) error {
	s.records = make([]types.Student, 0, len(records))
	s.open = true
	s.dirty = false

	var errs []error
	for _, r := range records {
		if err := s.add(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// IsOpen reports whether a database has been opened.
func (s *Store) IsOpen() bool { return s.open }

// IsDirty reports whether there are unsaved changes.
func (s *Store) IsDirty() bool { return s.dirty }

// Len returns the number of live records.
func (s *Store) Len() int { return len(s.records) }

// Insert appends a new record. It fails with ErrDuplicateKey if the ID is
// taken and leaves the store unchanged.
func (s *Store) Insert(r types.Student) error {
	if !s.open {
		return ErrNotOpen
	}
	if err := s.add(r); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

func (s *Store) add(r types.Student) error {
	if err := validate.Record(r); err != nil {
		return fmt.Errorf("student %d: %w: %w", r.ID, ErrInvalidRecord, err)
	}
	if s.index(r.ID) >= 0 {
		return fmt.Errorf("student %d: %w", r.ID, ErrDuplicateKey)
	}
	s.records = append(s.records, r)
	return nil
}

// Find returns the record with the given ID.
func (s *Store) Find(id int) (types.Student, bool) {
	i := s.index(id)
	if i < 0 {
		return types.Student{}, false
	}
	return s.records[i], true
}

// Exists reports whether a record with the given ID is stored.
func (s *Store) Exists(id int) bool {
	return s.index(id) >= 0
}

// Update applies m to the record with the given ID in place and returns
// the updated record. Grade is recomputed whenever marks change.
func (s *Store) Update(id int, m Mutation) (types.Student, error) {
	if !s.open {
		return types.Student{}, ErrNotOpen
	}
	i := s.index(id)
	if i < 0 {
		return types.Student{}, fmt.Errorf("student %d: %w", id, ErrNotFound)
	}

	updated := s.records[i]
	if m.Name != nil {
		updated.Name = *m.Name
	}
	if m.Programme != nil {
		updated.Programme = *m.Programme
	}
	if m.Marks != nil {
		updated.Marks = *m.Marks
		updated.Grade = grade.Calculate(updated.Marks)
	}
	if err := validate.Record(updated); err != nil {
		return types.Student{}, fmt.Errorf("student %d: %w: %w", id, ErrInvalidRecord, err)
	}

	s.records[i] = updated
	s.dirty = true
	return updated, nil
}

// Delete removes the record with the given ID, keeping the remaining
// records in order, and returns the removed record.
func (s *Store) Delete(id int) (types.Student, error) {
	if !s.open {
		return types.Student{}, ErrNotOpen
	}
	i := s.index(id)
	if i < 0 {
		return types.Student{}, fmt.Errorf("student %d: %w", id, ErrNotFound)
	}

	removed := s.records[i]
	s.records = slices.Delete(s.records, i, i+1)
	s.dirty = true
	return removed, nil
}

// All returns a copy of the records in insertion order.
func (s *Store) All() []types.Student {
	return slices.Clone(s.records)
}

// Records yields the records in insertion order without copying the slice.
func (s *Store) Records() iter.Seq[types.Student] {
	return slices.Values(s.records)
}

// MarkSaved clears the dirty flag after a successful save.
func (s *Store) MarkSaved() { s.dirty = false }

// Close empties the store and marks it closed. While there are unsaved
// changes it refuses with ErrUnsavedChanges unless discard is true.
func (s *Store) Close(discard bool) error {
	if s.dirty && !discard {
		return ErrUnsavedChanges
	}
	s.records = nil
	s.open = false
	s.dirty = false
	return nil
}

func (s *Store) index(id int) int {
	return slices.IndexFunc(s.records, func(r types.Student) bool {
		return r.ID == id
	})
}
