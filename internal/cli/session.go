package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aanand-mishra/students-cms/internal/console"
	"github.com/aanand-mishra/students-cms/internal/utils/response"
)

// Title is shown under the top rule of every menu.
const Title = "Class Management System"

const menuWidth = 41

// State is what the session needs to know about the record store:
// which menu to show, and whether leaving would lose changes.
// *records.Store satisfies it.
type State interface {
	IsOpen() bool
	IsDirty() bool
}

// Session is one interactive run of the program.
type Session struct {
	console *console.Console
	state   State
	router  *Router
	log     *slog.Logger
}

// NewSession wires a console, the store state and a router together.
func NewSession(c *console.Console, state State, router *Router, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{console: c, state: state, router: router, log: log}
}

// ─────────────────────────────────────────────────────────────────────────────
// Run shows the menu, reads a command and dispatches it, until the user
// exits or input runs out.
//
// End of input ends the session the same way EXIT does. Run only returns
// an error for a failure the session cannot recover from.
// ─────────────────────────────────────────────────────────────────────────────
func (s *Session) Run() error {
	for {
		mode := s.mode()
		s.showMenu(mode)

		line, err := s.console.Ask(fmt.Sprintf("CMS: Enter an option %s or type command:", s.router.KeyRange(mode)))
		if err != nil {
			return s.stop(err)
		}

		rt, ok := s.router.Match(mode, line)
		if !ok {
			s.console.Error(fmt.Errorf("Invalid input! Please enter option %s only!", s.router.KeyRange(mode)))
			continue
		}

		s.log.Debug("running command",
			slog.String("command", rt.Name),
			slog.String("mode", mode.String()))

		if err := rt.Handler(s.console); err != nil {
			return s.stop(err)
		}
	}
}

func (s *Session) stop(err error) error {
	switch {
	case errors.Is(err, ErrExit):
	case errors.Is(err, io.EOF):
		if s.state.IsDirty() {
			s.log.Warn("input closed with unsaved changes")
		} else {
			s.log.Info("input closed")
		}
	default:
		return fmt.Errorf("cli.Run: %w", err)
	}

	s.goodbye()
	return nil
}

func (s *Session) mode() Mode {
	if s.state.IsOpen() {
		return Open
	}
	return Closed
}

// showMenu prints the menu of m, three entries per row:
//
//	================ WELCOME ================
//	     Class Management System
//	   [1] OPEN     [2] EXIT     [3] HELP
//	=========================================
func (s *Session) showMenu(m Mode) {
	w := s.console.Out()
	rule := strings.Repeat("=", menuWidth)

	if m == Open {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "     %s\n", Title)
		fmt.Fprintln(w, rule)
	} else {
		fmt.Fprintln(w, response.Banner("WELCOME", menuWidth))
		fmt.Fprintf(w, "     %s\n", Title)
	}

	routes := s.router.Routes(m)
	for i := 0; i < len(routes); i += 3 {
		var row strings.Builder
		row.WriteString("  ")
		for _, rt := range routes[i:min(i+3, len(routes))] {
			fmt.Fprintf(&row, " %-12s", rt.Label())
		}
		fmt.Fprintln(w, strings.TrimRight(row.String(), " "))
	}
	fmt.Fprintln(w, rule)
}

func (s *Session) goodbye() {
	rule := strings.Repeat("=", menuWidth)
	s.console.Printf("\n%s\n   Exiting program! Have a great day!\n%s\n", rule, rule)
}
