// Package response provides helpers for writing consistent console output.
//
// Every command prints records back to the user in one of two shapes: a
// table (SHOW ALL, QUERY results, the list subcommand) or a labelled card
// (the record about to be inserted, updated or deleted). Rather than
// repeating the column widths in every handler, we centralise them here.
//
// Consistent shapes also make life easier for the user: columns always
// line up the same way, and error lines always look the same.
package response

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/students-cms/internal/types"
)

// ─────────────────────────────────────────────────────────────────────────────
// Table layout.
//
//	[ID]     [Name]                          [Programme] ...   [Marks]    [Grade]
//	=====================================================================...
//	2301234  Anna Lee                        Computing Science 72.5       B+
//
// Widths follow the field limits: 7-digit IDs, 30-char names, 50-char
// programmes. Longer values push the row wider; nothing is truncated.
// ─────────────────────────────────────────────────────────────────────────────
const (
	headerFormat = "%-7s  %-30s  %-50s  %-10s %-10s\n"
	rowFormat    = "%-7d  %-30s  %-50s  %-10.1f %-10s\n"
	ruleWidth    = 111
)

// Rule is the horizontal line under table headers and around cards.
var Rule = strings.Repeat("=", ruleWidth)

// WriteTableHeader writes the column titles and the rule below them.
func WriteTableHeader(w io.Writer) {
	fmt.Fprintf(w, "\n"+headerFormat, "[ID]", "[Name]", "[Programme]", "[Marks]", "[Grade]")
	fmt.Fprintln(w, Rule)
}

// WriteRow writes one record as a table row.
func WriteRow(w io.Writer, s types.Student) {
	fmt.Fprintf(w, rowFormat, s.ID, s.Name, s.Programme, s.Marks, s.Grade)
}

// WriteTableFooter closes a table.
func WriteTableFooter(w io.Writer) {
	fmt.Fprintln(w, Rule)
}

// ─────────────────────────────────────────────────────────────────────────────
// WriteTable writes every record from seq as a table and returns how many
// rows were written.
//
// The header is written lazily, on the first record, so an empty sequence
// writes nothing at all and the caller can print its own "no records"
// message instead.
// ─────────────────────────────────────────────────────────────────────────────
func WriteTable(w io.Writer, seq iter.Seq[types.Student]) int {
	n := 0
	for s := range seq {
		if n == 0 {
			WriteTableHeader(w)
		}
		WriteRow(w, s)
		n++
	}
	if n > 0 {
		WriteTableFooter(w)
	}
	return n
}

// ─────────────────────────────────────────────────────────────────────────────
// WriteCard writes one record as a block of right-aligned labels:
//
//	================== STUDENT FOUND ===================
//	Student ID: 2301234
//	      Name: Anna Lee
//	 Programme: Computing Science
//	     Marks: 72.5
//	     Grade: B+ (Auto-Calculated)
//	====================================================
//
// autoGrade appends the "(Auto-Calculated)" note after the grade.
// ─────────────────────────────────────────────────────────────────────────────
func WriteCard(w io.Writer, title string, s types.Student, autoGrade bool) {
	fmt.Fprintln(w, Banner(title, 52))
	fmt.Fprintf(w, "%11s %d\n", "Student ID:", s.ID)
	fmt.Fprintf(w, "%11s %s\n", "Name:", s.Name)
	fmt.Fprintf(w, "%11s %s\n", "Programme:", s.Programme)
	fmt.Fprintf(w, "%11s %.1f\n", "Marks:", s.Marks)
	if autoGrade {
		fmt.Fprintf(w, "%11s %s (Auto-Calculated)\n", "Grade:", s.Grade)
	} else {
		fmt.Fprintf(w, "%11s %s\n", "Grade:", s.Grade)
	}
	fmt.Fprintln(w, strings.Repeat("=", 52))
}

// Banner centres title in a line of '=' width characters wide.
// An empty title gives a plain rule.
func Banner(title string, width int) string {
	if title == "" {
		return strings.Repeat("=", width)
	}
	title = " " + title + " "
	pad := width - len(title)
	if pad < 2 {
		return title
	}
	left := pad / 2
	return strings.Repeat("=", left) + title + strings.Repeat("=", pad-left)
}

// ─────────────────────────────────────────────────────────────────────────────
// GeneralError turns any Go error into a single line for the user.
// Use this for unexpected errors (file failures, broken rows, etc.)
//
// A validator.ValidationErrors anywhere in the chain is rendered with
// ValidationError, so a record rejected by the struct tags reads as
// English rather than as the validator's internal format.
// ─────────────────────────────────────────────────────────────────────────────
func GeneralError(err error) string {
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return ValidationError(verrs)
	}
	return err.Error()
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts a slice of validator.FieldError values into
// a single human-readable sentence.
//
// The go-playground/validator package returns one FieldError per failing
// struct field. We convert each to a plain English phrase and join them
// with ", " so the user sees a single descriptive line.
//
// Example output:
//
//	field Name must contain only letters and single spaces, field Grade does not match Marks
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) string {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		// "required" tag: field was missing or zero-valued
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "min", "max":
			if e.Field() == "ID" {
				errMessages = append(errMessages,
					fmt.Sprintf("field %s must be exactly %d digits", e.Field(), types.IDLength))
			} else {
				errMessages = append(errMessages,
					fmt.Sprintf("field %s exceeds %s characters", e.Field(), e.Param()))
			}
		case "gte", "lte":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be between %.1f and %.1f", e.Field(), types.MinMarks, types.MaxMarks))
		case "studentname":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must contain only letters and single spaces", e.Field()))
		case "programme":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s contains invalid characters", e.Field()))
		case "grade":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is not a known grade", e.Field()))
		case "onedecimal":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must have at most one decimal place", e.Field()))
		case "gradeconsistent":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s does not match Marks", e.Field()))
		// Catch-all for any other validation tag
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	// strings.Join(slice, sep) concatenates a slice of strings
	// with the given separator between each element.
	return strings.Join(errMessages, ", ")
}
