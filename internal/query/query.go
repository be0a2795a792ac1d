// Package query searches the record store along one dimension at a time.
//
// ID, name and programme are matched by case-insensitive substring
// containment (an ID is matched on its decimal text, so "301" finds
// 2301234). Grades match exactly, except that a bare letter matches its
// whole family: "B" finds B+, B and B-.
//
// Searching never mutates the store and yields matches lazily, in store
// order.
package query

import (
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/aanand-mishra/students-cms/internal/grade"
	"github.com/aanand-mishra/students-cms/internal/types"
	"github.com/aanand-mishra/students-cms/internal/validate"
)

// Dimension is the record field a query looks at.
type Dimension int

const (
	ByID Dimension = iota + 1
	ByName
	ByProgramme
	ByGrade
)

func (d Dimension) String() string {
	switch d {
	case ByID:
		return "Student ID"
	case ByName:
		return "name"
	case ByProgramme:
		return "programme"
	case ByGrade:
		return "grade"
	}
	return fmt.Sprintf("Dimension(%d)", int(d))
}

// ParseDimension maps a query menu option ("1".."4") to a dimension.
func ParseDimension(option string) (Dimension, bool) {
	switch strings.TrimSpace(option) {
	case "1":
		return ByID, true
	case "2":
		return ByName, true
	case "3":
		return ByProgramme, true
	case "4":
		return ByGrade, true
	}
	return 0, false
}

// Query is a validated search term bound to a dimension.
type Query struct {
	Dimension Dimension
	// Term is the search text as the user typed it (trimmed).
	Term string

	needle string
	grade  grade.Grade
}

// Parse validates a raw search term for the given dimension.
//
//	ByID        — digits only, at most 7
//	ByName      — letters and spaces, at most 30 characters
//	ByProgramme — letters and spaces, at most 50 characters
//	ByGrade     — one of the eleven grade labels, any case
//
// "Q" cancels.
func Parse(d Dimension, raw string) validate.Result[Query] {
	term := strings.TrimSpace(raw)
	if validate.IsCancel(term) {
		return validate.Cancel[Query]()
	}
	if term == "" {
		return validate.Reject[Query](&validate.Rejection{
			Subject: "Query",
			Reason:  validate.ReasonEmpty,
		})
	}

	q := Query{Dimension: d, Term: term, needle: strings.ToLower(term)}

	switch d {
	case ByID:
		if len(term) > types.IDLength || !validate.IsDigits(term) {
			return invalid("Only numeric values (max 7 digits) are allowed for Student ID search.")
		}
	case ByName:
		if utf8.RuneCountInString(term) > types.MaxNameLen || !validate.IsLettersAndSpaces(term) {
			return invalid("Only alphabetic values (max 30 characters) are allowed for name search.")
		}
	case ByProgramme:
		if utf8.RuneCountInString(term) > types.MaxProgrammeLen || !validate.IsLettersAndSpaces(term) {
			return invalid("Only alphabetic values (max 50 characters) are allowed for programme search.")
		}
	case ByGrade:
		g, ok := grade.Parse(term)
		if !ok {
			return invalid("Allowed grades are: " + gradeList() + ".")
		}
		q.grade = g
	default:
		return invalid("Unknown query option.")
	}

	return validate.Accept(q)
}

func invalid(detail string) validate.Result[Query] {
	return validate.Reject[Query](&validate.Rejection{
		Subject: "Invalid input!",
		Reason:  validate.ReasonBadChar,
		Detail:  detail,
	})
}

func gradeList() string {
	labels := grade.Labels()
	out := make([]string, len(labels))
	for i, g := range labels {
		out[i] = string(g)
	}
	return strings.Join(out, ", ")
}

// Matches reports whether r satisfies the query.
func (q Query) Matches(r types.Student) bool {
	switch q.Dimension {
	case ByID:
		return strings.Contains(r.IDString(), q.needle)
	case ByName:
		return strings.Contains(strings.ToLower(r.Name), q.needle)
	case ByProgramme:
		return strings.Contains(strings.ToLower(r.Programme), q.needle)
	case ByGrade:
		return r.Grade.Matches(q.grade)
	}
	return false
}

// Search yields the records from src that match q, in src order.
func Search(src iter.Seq[types.Student], q Query) iter.Seq[types.Student] {
	return func(yield func(types.Student) bool) {
		for r := range src {
			if q.Matches(r) && !yield(r) {
				return
			}
		}
	}
}
