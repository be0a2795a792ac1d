// Package validate turns one line of raw user input into a typed value.
//
// Every validator returns a Result with one of three kinds:
//
//	Accepted        — Value holds the parsed, normalised value
//	Rejected        — Rejection says why; the caller re-prompts
//	CancelRequested — the user typed the cancel sentinel "Q"
//
// A rejection is never fatal. Cancel is not an error either: it asks the
// enclosing multi-step operation to stop and discard what it collected.
package validate

import (
	"fmt"
	"strings"
)

// Kind classifies a validation Result.
type Kind int

const (
	Accepted Kind = iota
	Rejected
	CancelRequested
)

func (k Kind) String() string {
	switch k {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case CancelRequested:
		return "cancel requested"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Result is the outcome of validating one input line.
type Result[T any] struct {
	Kind      Kind
	Value     T
	Rejection *Rejection
}

// Accept wraps an accepted value.
func Accept[T any](v T) Result[T] {
	return Result[T]{Kind: Accepted, Value: v}
}

// Reject wraps a rejection.
func Reject[T any](r *Rejection) Result[T] {
	return Result[T]{Kind: Rejected, Rejection: r}
}

// Cancel reports that the user asked to cancel.
func Cancel[T any]() Result[T] {
	return Result[T]{Kind: CancelRequested}
}

// Err returns the rejection as an error, or nil when the result is not Rejected.
func (r Result[T]) Err() error {
	if r.Kind != Rejected || r.Rejection == nil {
		return nil
	}
	return r.Rejection
}

// Reason classifies why an input was rejected.
type Reason int

const (
	ReasonEmpty Reason = iota + 1
	ReasonLeadingZero
	ReasonTooLong
	ReasonBadChar
	ReasonFormat
	ReasonMultipleDots
	ReasonOutOfRange
	ReasonInvalidChoice
)

// Rejection describes a rejected input in terms the user can act on.
type Rejection struct {
	// Subject names what was being entered, e.g. "Student ID".
	Subject string
	Reason  Reason
	// Limit is the maximum length for ReasonTooLong.
	Limit int
	// Char is the first disallowed character for ReasonBadChar, if reported.
	Char rune
	// Detail replaces the default wording after Subject when set.
	Detail string
}

func (r *Rejection) Error() string {
	if r.Reason == ReasonInvalidChoice {
		return "Invalid input! Please enter 'Y' or 'N'!"
	}
	if r.Detail != "" {
		return r.Subject + " " + r.Detail
	}

	var phrase string
	switch r.Reason {
	case ReasonEmpty:
		phrase = "cannot be empty!"
	case ReasonLeadingZero:
		phrase = `cannot start with "0"!`
	case ReasonTooLong:
		phrase = fmt.Sprintf("exceeds %d character limit!", r.Limit)
	case ReasonBadChar:
		if r.Char != 0 {
			phrase = fmt.Sprintf("contains invalid character: \"%c\"!", r.Char)
		} else {
			phrase = "contains invalid characters!"
		}
	case ReasonFormat:
		phrase = "has an invalid format!"
	case ReasonMultipleDots:
		phrase = "cannot contain multiple decimal points!"
	case ReasonOutOfRange:
		phrase = "is out of range!"
	default:
		phrase = "is invalid!"
	}
	return r.Subject + " " + phrase
}

// IsCancel reports whether s is the cancel sentinel ("Q", any case).
func IsCancel(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "q")
}
