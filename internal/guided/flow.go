// Package guided implements the guided input protocol behind INSERT,
// UPDATE, DELETE and CLOSE: prompt for each field in turn, re-prompt on a
// rejected value, show a summary, ask for a Y/N confirmation and only then
// apply the change.
//
// A Flow is a small state machine:
//
//	Prompting(i) --accepted--> Prompting(i+1) | Confirming (after the last field)
//	Prompting(i) --rejected--> Prompting(i)
//	Prompting(i) --"Q"-------> Cancelled
//	Confirming   --Y---------> Committed (Commit runs exactly once)
//	Confirming   --N---------> Cancelled
//	Confirming   --other-----> Confirming
//
// Committed and Cancelled are terminal. A flow with no fields starts in
// Confirming. Feed drives the machine one input line at a time and does no
// IO, so transitions are tested without a terminal; Run connects a flow to a
// console.
package guided

import (
	"errors"
	"fmt"
	"io"

	"github.com/aanand-mishra/students-cms/internal/console"
	"github.com/aanand-mishra/students-cms/internal/validate"
)

// State is the position of a Flow.
type State int

const (
	Prompting State = iota
	Confirming
	Committed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Prompting:
		return "prompting"
	case Confirming:
		return "confirming"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ErrFinished is returned by Feed once the flow is Committed or Cancelled.
var ErrFinished = errors.New("guided: flow already finished")

// Field is one prompt of a flow. Build fields with Bind.
type Field struct {
	Prompt string
	accept func(raw string) (validate.Kind, error)
}

// Bind builds a field that parses input with parse, runs any extra checks
// on the parsed value and, once everything passes, stores it in dst. A
// failed check is treated like a rejection: the same field is asked again.
func Bind[T any](prompt string, dst *T, parse func(string) validate.Result[T], checks ...func(T) error) Field {
	return Field{
		Prompt: prompt,
		accept: func(raw string) (validate.Kind, error) {
			res := parse(raw)
			switch res.Kind {
			case validate.Accepted:
				for _, check := range checks {
					if err := check(res.Value); err != nil {
						return validate.Rejected, err
					}
				}
				*dst = res.Value
				return validate.Accepted, nil
			case validate.Rejected:
				return validate.Rejected, res.Err()
			}
			return validate.CancelRequested, nil
		},
	}
}

// Spec describes a flow.
type Spec struct {
	Fields []Field
	// Summary renders what is about to be committed. Optional.
	Summary func(w io.Writer)
	// Question is the Y/N confirmation prompt. QuestionFunc, when set,
	// builds it from the collected values instead.
	Question     string
	QuestionFunc func() string
	// Commit applies the change. It runs at most once.
	Commit func() error
}

// Flow is one run of a guided operation.
type Flow struct {
	spec  Spec
	state State
	step  int
	err   error
}

// Event reports the result of feeding one line.
type Event struct {
	State State
	// Err is set when the line was rejected, when Commit failed, or when
	// the flow had already finished.
	Err error
}

// New starts a flow.
func New(spec Spec) *Flow {
	f := &Flow{spec: spec}
	if len(spec.Fields) == 0 {
		f.state = Confirming
	}
	return f
}

// State returns the current state.
func (f *Flow) State() State { return f.state }

// Step returns the index of the field being prompted.
func (f *Flow) Step() int { return f.step }

// Done reports whether the flow reached a terminal state.
func (f *Flow) Done() bool {
	return f.state == Committed || f.state == Cancelled
}

// Err returns the Commit error, if Commit failed.
func (f *Flow) Err() error { return f.err }

// Prompt returns the text to show for the current state.
func (f *Flow) Prompt() string {
	switch f.state {
	case Prompting:
		return f.spec.Fields[f.step].Prompt
	case Confirming:
		if f.spec.QuestionFunc != nil {
			return f.spec.QuestionFunc()
		}
		return f.spec.Question
	}
	return ""
}

// Feed advances the flow with one line of input.
func (f *Flow) Feed(line string) Event {
	switch f.state {
	case Prompting:
		kind, err := f.spec.Fields[f.step].accept(line)
		switch kind {
		case validate.CancelRequested:
			f.state = Cancelled
		case validate.Rejected:
			return Event{State: f.state, Err: err}
		case validate.Accepted:
			f.step++
			if f.step == len(f.spec.Fields) {
				f.state = Confirming
			}
		}

	case Confirming:
		res := validate.Choice(line)
		if res.Kind != validate.Accepted {
			return Event{State: f.state, Err: res.Err()}
		}
		if !res.Value {
			f.state = Cancelled
			break
		}
		if f.spec.Commit != nil {
			if err := f.spec.Commit(); err != nil {
				f.err = err
				f.state = Cancelled
				return Event{State: f.state, Err: err}
			}
		}
		f.state = Committed

	default:
		return Event{State: f.state, Err: ErrFinished}
	}

	return Event{State: f.state}
}

// Run drives f against c until it finishes and returns the final state.
// Rejections are printed and the same prompt is asked again. The error is
// only ever an input error such as io.EOF; a failed Commit is printed and
// reported as Cancelled.
func Run(c *console.Console, f *Flow) (State, error) {
	for !f.Done() {
		if f.state == Confirming && f.spec.Summary != nil {
			f.spec.Summary(c.Out())
		}

		line, err := c.Ask(f.Prompt())
		if err != nil {
			return f.state, err
		}

		ev := f.Feed(line)
		switch {
		case ev.Err == nil:
		case ev.State == Cancelled:
			c.Error(ev.Err)
		default:
			c.Retry(ev.Err)
		}
	}
	return f.state, nil
}

// Ask keeps asking prompt until parse accepts the answer or the user
// cancels. ok is false on cancel. Rejections are printed and asked again.
func Ask[T any](c *console.Console, prompt string, parse func(string) validate.Result[T]) (v T, ok bool, err error) {
	for {
		line, err := c.Ask(prompt)
		if err != nil {
			return v, false, err
		}
		res := parse(line)
		switch res.Kind {
		case validate.Accepted:
			return res.Value, true, nil
		case validate.CancelRequested:
			return v, false, nil
		}
		c.Retry(res.Err())
	}
}
