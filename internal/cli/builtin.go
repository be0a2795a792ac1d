package cli

import (
	"github.com/aanand-mishra/students-cms/internal/console"
	"github.com/aanand-mishra/students-cms/internal/guided"
)

// Exit ends the session. With unsaved changes it asks first; answering N
// returns to the menu with the changes still in memory.
func Exit(state State) HandlerFunc {
	return func(c *console.Console) error {
		if !state.IsDirty() {
			return ErrExit
		}

		flow := guided.New(guided.Spec{
			Question: "CMS <EXIT>: You have unsaved changes! Are you sure you want to exit without saving? (Y/N)",
		})
		st, err := guided.Run(c, flow)
		if err != nil {
			return err
		}
		if st != guided.Committed {
			c.Notice("EXIT", "Exit cancelled! Unsaved changes remain!")
			return nil
		}
		return ErrExit
	}
}

// Help lists the commands of a mode and waits for Enter.
func Help(r *Router, m Mode) HandlerFunc {
	return func(c *console.Console) error {
		c.Printf("\nCMS: (Available Commands)\n")
		for _, rt := range r.Routes(m) {
			c.Printf("  %-8s - %s\n", rt.Name, rt.Help)
		}
		return c.Pause()
	}
}
