// Package cli is the interactive front end: it shows the menu for the
// current session state, reads a command, and dispatches it.
//
// HANDLER PATTERN — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────
// Every command is a HandlerFunc:
//
//	func(c *console.Console) error
//
// That signature has no room for the record store or the storage backend.
// Handler packages therefore expose factories that accept their
// dependencies and return a HandlerFunc closing over them:
//
//	router.Handle(cli.Open, "2", "INSERT", "Add a new student record", student.Insert(store))
//	//                                                                  ^^^^^^^^^^^^^^^^^^^^
//	//                                   Insert(store) is called ONCE at startup.
//	//                                   The returned func runs on EVERY "INSERT".
//
// A handler returns an error only when the session cannot go on (input
// closed, ErrExit). Everything the user can fix is printed and handled
// inside the handler.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aanand-mishra/students-cms/internal/console"
)

// HandlerFunc runs one menu command.
type HandlerFunc func(c *console.Console) error

// ErrExit is returned by a handler to end the session normally.
var ErrExit = errors.New("cli: exit requested")

// Mode selects which menu is active.
type Mode int

const (
	// Closed: no database loaded. Only OPEN, EXIT and HELP are offered.
	Closed Mode = iota
	// Open: a database is loaded and every record command is offered.
	Open
)

func (m Mode) String() string {
	switch m {
	case Closed:
		return "closed"
	case Open:
		return "open"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Route binds a menu key and a command name to a handler.
type Route struct {
	Key     string // "1", "2", ...
	Name    string // "SHOW ALL", "INSERT", ...
	Help    string // one-line description for HELP
	Handler HandlerFunc
}

// Label is the menu entry, e.g. "[2] INSERT".
func (r Route) Label() string {
	return "[" + r.Key + "] " + r.Name
}

// Router holds the routes of each mode in menu order.
type Router struct {
	routes map[Mode][]Route
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{routes: make(map[Mode][]Route)}
}

// Handle registers a command for a mode. Routes are listed in the menu in
// registration order.
func (r *Router) Handle(m Mode, key, name, help string, h HandlerFunc) {
	r.routes[m] = append(r.routes[m], Route{
		Key:     key,
		Name:    strings.ToUpper(name),
		Help:    help,
		Handler: h,
	})
}

// Routes returns the routes of a mode in menu order.
func (r *Router) Routes(m Mode) []Route {
	return r.routes[m]
}

// Match finds the route for a typed command: the exact menu key, or the
// command name in any case. Surrounding whitespace is ignored.
func (r *Router) Match(m Mode, input string) (Route, bool) {
	cmd := strings.TrimSpace(input)
	if cmd == "" {
		return Route{}, false
	}
	for _, rt := range r.routes[m] {
		if cmd == rt.Key || strings.EqualFold(cmd, rt.Name) {
			return rt, true
		}
	}
	return Route{}, false
}

// KeyRange describes the valid keys of a mode for messages, e.g. "[1-9]".
func (r *Router) KeyRange(m Mode) string {
	rs := r.routes[m]
	switch len(rs) {
	case 0:
		return "[]"
	case 1:
		return "[" + rs[0].Key + "]"
	}
	return "[" + rs[0].Key + "-" + rs[len(rs)-1].Key + "]"
}
