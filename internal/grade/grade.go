// Package grade maps a student's marks to a letter grade and answers the
// questions the rest of the application asks about grades: is this a valid
// label, which letter family does it belong to, does it match a query.
//
// The grade is never entered by a user. It is always derived from marks
// with Calculate, so a record's grade can be recomputed at any time.
package grade

import "strings"

// Grade is one of the eleven labels returned by Calculate.
type Grade string

const (
	APlus  Grade = "A+"
	A      Grade = "A"
	AMinus Grade = "A-"
	BPlus  Grade = "B+"
	B      Grade = "B"
	BMinus Grade = "B-"
	CPlus  Grade = "C+"
	C      Grade = "C"
	DPlus  Grade = "D+"
	D      Grade = "D"
	F      Grade = "F"
)

// threshold pairs a minimum mark with the grade awarded at or above it.
type threshold struct {
	min   float64
	grade Grade
}

// thresholds is ordered high to low; Calculate returns the first match.
var thresholds = []threshold{
	{85, APlus},
	{80, A},
	{75, AMinus},
	{70, BPlus},
	{65, B},
	{60, BMinus},
	{55, CPlus},
	{50, C},
	{45, DPlus},
	{40, D},
}

// Calculate returns the grade for marks in [0, 100].
//
//	Calculate(85)   == "A+"
//	Calculate(84.9) == "A"
//	Calculate(0)    == "F"
func Calculate(marks float64) Grade {
	for _, t := range thresholds {
		if marks >= t.min {
			return t.grade
		}
	}
	return F
}

// Labels returns every grade label, highest first.
func Labels() []Grade {
	labels := make([]Grade, 0, len(thresholds)+1)
	for _, t := range thresholds {
		labels = append(labels, t.grade)
	}
	return append(labels, F)
}

// Parse looks up a label case-insensitively ("b+" → B+).
func Parse(s string) (Grade, bool) {
	candidate := Grade(strings.ToUpper(strings.TrimSpace(s)))
	for _, g := range Labels() {
		if g == candidate {
			return g, true
		}
	}
	return "", false
}

// Valid reports whether g is one of the eleven labels.
func (g Grade) Valid() bool {
	_, ok := Parse(string(g))
	return ok && strings.ToUpper(string(g)) == string(g)
}

// Base returns the letter family of the grade: "A" for A+, A and A-.
func (g Grade) Base() Grade {
	if g == "" {
		return ""
	}
	return g[:1]
}

// IsBase reports whether g is a bare letter that stands for its whole family.
func (g Grade) IsBase() bool {
	switch g {
	case A, B, C, D, F:
		return true
	}
	return false
}

// Matches reports whether a record graded g satisfies a grade query.
// A bare letter query matches the whole family, so "B" matches B+, B and B-;
// any other query must match exactly.
func (g Grade) Matches(query Grade) bool {
	if g == query {
		return true
	}
	return query.IsBase() && g.Base() == query
}
