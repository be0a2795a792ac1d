package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aanand-mishra/students-cms/internal/types"
)

// Subjects used in rejection messages.
const (
	SubjectID        = "Student ID"
	SubjectName      = "Student name"
	SubjectProgramme = "Programme name"
	SubjectMarks     = "Marks"
)

// Field rules checked with the shared validator.
var (
	idTag    = fmt.Sprintf("len=%d,number", types.IDLength)
	marksTag = fmt.Sprintf("gte=%g,lte=%g", types.MinMarks, types.MaxMarks)
)

// ID validates a student ID.
//
// The checks run in a fixed order: a leading '0' is rejected before the
// cancel sentinel is even considered, then empty input, then the
// "exactly 7 digits" rule.
func ID(raw string) Result[int] {
	in := strings.TrimSpace(raw)

	if strings.HasPrefix(in, "0") {
		return Reject[int](&Rejection{Subject: SubjectID, Reason: ReasonLeadingZero})
	}
	if IsCancel(in) {
		return Cancel[int]()
	}
	if in == "" {
		return Reject[int](&Rejection{Subject: SubjectID, Reason: ReasonEmpty})
	}
	if err := structValidator.Var(in, idTag); err != nil {
		return Reject[int](&Rejection{
			Subject: SubjectID,
			Reason:  ReasonFormat,
			Detail:  "must be exactly 7 numeric characters!",
		})
	}

	id, err := strconv.Atoi(in)
	if err != nil {
		return Reject[int](&Rejection{Subject: SubjectID, Reason: ReasonFormat})
	}
	return Accept(id)
}

// Name validates a student name: letters and spaces, at most 30 characters.
// The length limit applies to the raw line, before any trimming.
func Name(raw string) Result[string] {
	return text(raw, SubjectName, types.MaxNameLen, isNameRune, false)
}

// Programme validates a programme name: letters, spaces and - & . ( ),
// at most 50 characters. The first disallowed character is reported.
func Programme(raw string) Result[string] {
	return text(raw, SubjectProgramme, types.MaxProgrammeLen, isProgrammeRune, true)
}

func text(raw, subject string, limit int, allowed func(rune) bool, reportChar bool) Result[string] {
	if utf8.RuneCountInString(raw) > limit {
		return Reject[string](&Rejection{Subject: subject, Reason: ReasonTooLong, Limit: limit})
	}

	in := strings.TrimSpace(raw)
	if IsCancel(in) {
		return Cancel[string]()
	}
	if in == "" {
		return Reject[string](&Rejection{Subject: subject, Reason: ReasonEmpty})
	}
	for _, r := range in {
		if !allowed(r) {
			rej := &Rejection{Subject: subject, Reason: ReasonBadChar}
			if reportChar {
				rej.Char = r
			} else {
				rej.Detail = "contains non-alphabet characters!"
			}
			return Reject[string](rej)
		}
	}
	return Accept(Collapse(in))
}

// Marks validates a mark in [0, 100] and rounds it to one decimal place.
func Marks(raw string) Result[float64] {
	in := strings.TrimSpace(raw)

	if IsCancel(in) {
		return Cancel[float64]()
	}
	if in == "" {
		return Reject[float64](&Rejection{Subject: SubjectMarks, Reason: ReasonEmpty})
	}

	badFormat := &Rejection{
		Subject: SubjectMarks,
		Reason:  ReasonFormat,
		Detail:  "must be a number between 0.0 and 100.0!",
	}

	dots := 0
	for _, r := range in {
		switch {
		case isDigit(r):
		case r == '.':
			dots++
			if dots > 1 {
				return Reject[float64](&Rejection{Subject: SubjectMarks, Reason: ReasonMultipleDots})
			}
		default:
			return Reject[float64](badFormat)
		}
	}

	v, err := strconv.ParseFloat(in, 64)
	if err != nil {
		// "." on its own passes the character scan but is not a number.
		return Reject[float64](badFormat)
	}
	if err := structValidator.Var(v, marksTag); err != nil {
		return Reject[float64](&Rejection{
			Subject: SubjectMarks,
			Reason:  ReasonOutOfRange,
			Detail:  "must be between 0.0 and 100.0!",
		})
	}
	return Accept(RoundMarks(v))
}

// Choice validates a Y/N answer. It has no cancel: anything other than
// Y or N is rejected and the caller asks again.
func Choice(raw string) Result[bool] {
	in := strings.TrimSpace(raw)
	switch {
	case strings.EqualFold(in, "y"):
		return Accept(true)
	case strings.EqualFold(in, "n"):
		return Accept(false)
	}
	return Reject[bool](&Rejection{Subject: "Choice", Reason: ReasonInvalidChoice})
}

// RoundMarks rounds to one decimal place.
func RoundMarks(v float64) float64 {
	return math.Round(v*10) / 10
}

// Collapse trims s and squeezes every whitespace run to a single space.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func allDigits(s string) bool {
	for _, r := range s {
		if !isDigit(r) {
			return false
		}
	}
	return s != ""
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\v', '\f', '\r', '\n':
		return true
	}
	return false
}

func isNameRune(r rune) bool { return isLetter(r) || isSpace(r) }

func isProgrammeRune(r rune) bool {
	if isLetter(r) || isSpace(r) {
		return true
	}
	switch r {
	case '-', '&', '.', '(', ')':
		return true
	}
	return false
}

// IsDigits reports whether s is non-empty and made only of ASCII digits.
func IsDigits(s string) bool { return allDigits(s) }

// IsLettersAndSpaces reports whether s holds only ASCII letters and spaces.
func IsLettersAndSpaces(s string) bool {
	for _, r := range s {
		if !isLetter(r) && r != ' ' {
			return false
		}
	}
	return true
}
