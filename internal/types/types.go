// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles: the
// store, the persistence backends and the command handlers can all import
// types without depending on each other.
package types

import (
	"fmt"
	"strconv"

	"github.com/aanand-mishra/students-cms/internal/grade"
)

// Field length limits for a student record.
const (
	IDLength        = 7
	MaxNameLen      = 30
	MaxProgrammeLen = 50
	MinMarks        = 0.0
	MaxMarks        = 100.0
)

// Student represents one student record.
//
// The validate:"..." tags are checked by the go-playground/validator
// package (see validate.Record). studentname, programme and grade are custom
// tags registered there; the struct-level rule that Grade must equal
// grade.Calculate(Marks) is registered there too.
type Student struct {
	ID        int         `validate:"min=1000000,max=9999999"`
	Name      string      `validate:"required,max=30,studentname"`
	Programme string      `validate:"required,max=50,programme"`
	Marks     float64     `validate:"gte=0,lte=100"`
	Grade     grade.Grade `validate:"required,grade"`
}

// New builds a student with the grade derived from marks.
func New(id int, name, programme string, marks float64) Student {
	return Student{
		ID:        id,
		Name:      name,
		Programme: programme,
		Marks:     marks,
		Grade:     grade.Calculate(marks),
	}
}

// IDString returns the decimal text of the ID, the form queries match on.
func (s Student) IDString() string {
	return strconv.Itoa(s.ID)
}

// MarksString formats marks with exactly one decimal digit.
func (s Student) MarksString() string {
	return fmt.Sprintf("%.1f", s.Marks)
}
