package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-cms/internal/console"
)

type fakeState struct {
	open, dirty bool
}

func (f *fakeState) IsOpen() bool  { return f.open }
func (f *fakeState) IsDirty() bool { return f.dirty }

// newTestSession builds a session with an OPEN route that flips the state
// open and a counting SHOW ALL route.
func newTestSession(t *testing.T, input string) (*Session, *fakeState, *bytes.Buffer, *int) {
	t.Helper()

	state := &fakeState{}
	shown := 0

	r := NewRouter()
	r.Handle(Closed, "1", "open", "Open the database file", func(c *console.Console) error {
		state.open = true
		return nil
	})
	r.Handle(Closed, "2", "EXIT", "Exit the program", Exit(state))
	r.Handle(Closed, "3", "HELP", "View list of available commands", Help(r, Closed))
	r.Handle(Open, "1", "SHOW ALL", "Display all student records", func(c *console.Console) error {
		shown++
		return nil
	})
	r.Handle(Open, "2", "EXIT", "Exit the program", Exit(state))

	var out bytes.Buffer
	c := console.New(strings.NewReader(input), &out, "")
	return NewSession(c, state, r, nil), state, &out, &shown
}

func TestRouterMatch(t *testing.T) {
	r := NewRouter()
	r.Handle(Open, "1", "SHOW ALL", "", nil)
	r.Handle(Open, "2", "insert", "", nil)

	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"1", "SHOW ALL", true},
		{"  1  ", "SHOW ALL", true},
		{"show all", "SHOW ALL", true},
		{"Insert", "INSERT", true},
		{"INSERT", "INSERT", true},
		{"showall", "", false},
		{"3", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rt, ok := r.Match(Open, tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, rt.Name)
		})
	}

	_, ok := r.Match(Closed, "1")
	assert.False(t, ok, "routes are per mode")
}

func TestKeyRange(t *testing.T) {
	r := NewRouter()
	assert.Equal(t, "[]", r.KeyRange(Open))
	r.Handle(Open, "1", "A", "", nil)
	assert.Equal(t, "[1]", r.KeyRange(Open))
	r.Handle(Open, "2", "B", "", nil)
	r.Handle(Open, "3", "C", "", nil)
	assert.Equal(t, "[1-3]", r.KeyRange(Open))
}

func TestSessionExit(t *testing.T) {
	s, _, out, _ := newTestSession(t, "2\n")

	require.NoError(t, s.Run())
	assert.Contains(t, out.String(), "================ WELCOME ================")
	assert.Contains(t, out.String(), "   [1] OPEN     [2] EXIT     [3] HELP\n")
	assert.Contains(t, out.String(), "Exiting program! Have a great day!")
}

func TestSessionSwitchesMenuWhenOpened(t *testing.T) {
	s, state, out, shown := newTestSession(t, "open\n1\nshow all\n2\n")

	require.NoError(t, s.Run())
	assert.True(t, state.open)
	assert.Equal(t, 2, *shown)
	assert.Contains(t, out.String(), "CMS: Enter an option [1-3] or type command:")
	assert.Contains(t, out.String(), "CMS: Enter an option [1-2] or type command:")
}

func TestSessionInvalidCommand(t *testing.T) {
	s, _, out, _ := newTestSession(t, "7\nfoo\nexit\n")

	require.NoError(t, s.Run())
	assert.Equal(t, 2, strings.Count(out.String(), "[Error] Invalid input! Please enter option [1-3] only!"))
}

func TestSessionEndsOnEOF(t *testing.T) {
	s, _, out, _ := newTestSession(t, "1\n")

	require.NoError(t, s.Run())
	assert.Contains(t, out.String(), "Exiting program!")
}

func TestSessionHelp(t *testing.T) {
	s, _, out, _ := newTestSession(t, "help\n\n2\n")

	require.NoError(t, s.Run())
	assert.Contains(t, out.String(), "CMS: (Available Commands)")
	assert.Contains(t, out.String(), "  OPEN     - Open the database file\n")
	assert.Contains(t, out.String(), "Press [Enter] to continue..")
}

func TestExitWithUnsavedChanges(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		s, state, out, _ := newTestSession(t, "1\n2\nmaybe\nn\n2\ny\n")
		// dirty before the first OPEN, so the open-mode EXIT has to ask
		state.dirty = true

		require.NoError(t, s.Run())
		assert.Contains(t, out.String(), "You have unsaved changes!")
		assert.Contains(t, out.String(), "Invalid input! Please enter 'Y' or 'N'!")
		assert.Contains(t, out.String(), "CMS <EXIT>: Exit cancelled! Unsaved changes remain!")
		assert.Contains(t, out.String(), "Exiting program!")
	})

	t.Run("eof while confirming", func(t *testing.T) {
		s, state, _, _ := newTestSession(t, "1\n2\n")
		state.dirty = true
		require.NoError(t, s.Run())
	})
}

func TestSessionPropagatesHandlerFailure(t *testing.T) {
	boom := errors.New("boom")
	r := NewRouter()
	r.Handle(Closed, "1", "FAIL", "", func(*console.Console) error { return boom })

	var out bytes.Buffer
	s := NewSession(console.New(strings.NewReader("1\n"), &out, ""), &fakeState{}, r, nil)

	err := s.Run()
	require.ErrorIs(t, err, boom)
	assert.NotContains(t, out.String(), "Exiting program!")
}
