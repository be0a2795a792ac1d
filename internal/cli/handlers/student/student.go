// Package student contains the menu handlers that read and change student
// records: SHOW ALL, INSERT, QUERY, UPDATE and DELETE.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// The router expects handler functions with the signature:
//
//	func(c *console.Console) error
//
// That signature has no room for the record store. To inject it we use a
// factory function that accepts the dependencies (the store, the database
// name) and returns a function with the exact signature the router needs:
//
//	router.Handle(cli.Open, "2", "INSERT", "...", student.Insert(store))
//	//                                            ^^^^^^^^^^^^^^^^^^^^
//	//                          Insert(store) is called ONCE at startup.
//	//                          It returns a handler which is called
//	//                          every time the user picks INSERT.
//
// Every change goes through a guided.Flow: fields are collected and
// validated one by one, the user confirms, and only then is the store
// touched. Cancelling at any step leaves the store exactly as it was.
package student

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aanand-mishra/students-cms/internal/cli"
	"github.com/aanand-mishra/students-cms/internal/console"
	"github.com/aanand-mishra/students-cms/internal/guided"
	"github.com/aanand-mishra/students-cms/internal/query"
	"github.com/aanand-mishra/students-cms/internal/records"
	"github.com/aanand-mishra/students-cms/internal/types"
	"github.com/aanand-mishra/students-cms/internal/utils/response"
	"github.com/aanand-mishra/students-cms/internal/validate"
)

// ─────────────────────────────────────────────────────────────────────────────
// ShowAll handles SHOW ALL
// Prints every record as a table, in store order, then waits for Enter.
//
// Output:
//
//	[ID]     [Name]        [Programme]         [Marks]    [Grade]
//	==============================================================...
//	2301234  Anna Lee      Computing Science   72.5       B+
//	==============================================================...
//	CMS <SHOW ALL>: Found 1 records in "StudentRecords" database!
//
// ─────────────────────────────────────────────────────────────────────────────
func ShowAll(store *records.Store, dbName string) cli.HandlerFunc {
	return func(c *console.Console) error {
		if store.Len() == 0 {
			c.Notice("", "No records found! 'INSERT' to add records!")
			return nil
		}

		n := response.WriteTable(c.Out(), store.Records())
		c.Printf("CMS <SHOW ALL>: Found %d records in \"%s\" database!\n", n, dbName)
		return c.Pause()
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Insert handles INSERT
// Asks for ID, name, programme and marks, shows the record with its
// computed grade, and inserts it once the user confirms.
//
// A taken ID is rejected at the ID prompt, before anything else is asked.
// ─────────────────────────────────────────────────────────────────────────────
func Insert(store *records.Store) cli.HandlerFunc {
	return func(c *console.Console) error {
		slog.Debug("inserting a student")

		w := c.Out()
		fmt.Fprintln(w)
		fmt.Fprintln(w, response.Banner("INSERT MENU", 54))
		fmt.Fprintln(w, "You will be prompted to provide the following details:")
		fmt.Fprintf(w, "%-12s %s\n", "- Student ID", fmt.Sprintf("(%d digits)", types.IDLength))
		fmt.Fprintf(w, "%-12s %s\n", "- Name", fmt.Sprintf("(up to %d characters)", types.MaxNameLen))
		fmt.Fprintf(w, "%-12s %s\n", "- Programme", fmt.Sprintf("(up to %d characters)", types.MaxProgrammeLen))
		fmt.Fprintf(w, "%-12s %s\n", "- Marks", fmt.Sprintf("(%.1f to %.1f)", types.MinMarks, types.MaxMarks))
		fmt.Fprintln(w, strings.Repeat("=", 54))

		var (
			id              int
			name, programme string
			marks           float64
		)
		draft := func() types.Student { return types.New(id, name, programme, marks) }

		flow := guided.New(guided.Spec{
			Fields: []guided.Field{
				guided.Bind("CMS <INSERT 1/4>: Enter a 7-Digit Student ID ('Q' to cancel)", &id, validate.ID, notTaken(store)),
				guided.Bind("CMS <INSERT 2/4>: Enter Student Name ('Q' to cancel)", &name, validate.Name),
				guided.Bind("CMS <INSERT 3/4>: Enter Programme Name ('Q' to cancel)", &programme, validate.Programme),
				guided.Bind("CMS <INSERT 4/4>: Enter Marks ('Q' to cancel)", &marks, validate.Marks),
			},
			Summary: func(w io.Writer) {
				response.WriteCard(w, "CONFIRM INSERT", draft(), true)
			},
			Question: "CMS <INSERT>: Confirm Insert? (Y/N)",
			Commit: func() error {
				return store.Insert(draft())
			},
		})

		state, err := guided.Run(c, flow)
		if err != nil {
			return err
		}

		switch {
		case state == guided.Committed:
			slog.Info("student inserted", slog.Int("id", id))
			c.Notice("INSERT", "Student record inserted successfully!")
		case flow.Err() != nil:
			slog.Error("insert failed", slog.Int("id", id), slog.String("error", flow.Err().Error()))
		default:
			c.Notice("INSERT", "Insert operation cancelled!")
		}
		return nil
	}
}

// notTaken rejects an ID that is already in the store.
func notTaken(store *records.Store) func(int) error {
	return func(id int) error {
		if store.Exists(id) {
			return fmt.Errorf("Record with student ID=\"%d\" already exists!", id)
		}
		return nil
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Query handles QUERY
// Shows the query sub-menu, asks for a search term and prints the matches.
//
//	Q at the sub-menu   → back to the main menu
//	Q at the term       → back to the sub-menu
//	no matches          → "No records found ..." and the term is asked again
//	matches             → table, wait for Enter, back to the main menu
//
// ─────────────────────────────────────────────────────────────────────────────
func Query(store *records.Store, dbName string) cli.HandlerFunc {
	return func(c *console.Console) error {
		if store.Len() == 0 {
			c.Notice("QUERY", "No records to query! The database \"%s\" is empty!", dbName)
			return nil
		}

		for {
			c.Println(response.Banner("QUERY MENU", 47))
			c.Println("[1] Student ID [2] Name [3] Programme [4] Grade")
			c.Println(strings.Repeat("=", 47))

			option, err := c.Ask("CMS <QUERY>: Enter Query Option [1-4] ('Q' to cancel)")
			if err != nil {
				return err
			}
			if validate.IsCancel(option) {
				c.Notice("QUERY", "Returning to the main menu...")
				return nil
			}

			dim, ok := query.ParseDimension(option)
			if !ok {
				c.Error(errors.New("Invalid input! Please enter option [1-4] only!"))
				continue
			}

			done, err := runQuery(c, store, dim)
			if err != nil || done {
				return err
			}
		}
	}
}

var termPrompts = map[query.Dimension]string{
	query.ByID:        "CMS <QUERY>: Enter numeric keyword to query Student ID ('Q' to cancel)",
	query.ByName:      "CMS <QUERY>: Enter name to query ('Q' to cancel)",
	query.ByProgramme: "CMS <QUERY>: Enter programme to query ('Q' to cancel)",
	query.ByGrade:     "CMS <QUERY>: Enter grade to query (e.g., 'A+', 'B') ('Q' to cancel)",
}

// runQuery asks for a term until something matches. It reports false when
// the user cancelled back to the sub-menu.
func runQuery(c *console.Console, store *records.Store, dim query.Dimension) (bool, error) {
	for {
		q, ok, err := guided.Ask(c, termPrompts[dim], func(raw string) validate.Result[query.Query] {
			return query.Parse(dim, raw)
		})
		if err != nil {
			return false, err
		}
		if !ok {
			c.Notice("QUERY", "Query by %s cancelled! Returning to query menu.", dim)
			return false, nil
		}

		n := response.WriteTable(c.Out(), query.Search(store.Records(), q))
		slog.Debug("query", slog.String("by", dim.String()), slog.String("term", q.Term), slog.Int("matches", n))
		if n > 0 {
			return true, c.Pause()
		}

		if dim == query.ByGrade {
			c.Notice("QUERY", "No records found with grade \"%s\". Please try again.", q.Term)
		} else {
			c.Notice("QUERY", "No records found with %s containing \"%s\". Please try again.", dim, q.Term)
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles UPDATE
// Asks for an ID, shows the record, then offers the update sub-menu:
//
//	[1] name   [2] programme   [3] marks   — one field, its own confirmation
//	[4] update all                         — three fields, one confirmation
//	Q                                      — back to the main menu
//
// After a single-field update, or an "update all" that was cancelled, the
// sub-menu is shown again with the current values. A confirmed "update
// all" ends the operation.
// ─────────────────────────────────────────────────────────────────────────────
func Update(store *records.Store, dbName string) cli.HandlerFunc {
	return func(c *console.Console) error {
		if store.Len() == 0 {
			c.Notice("UPDATE", "No records to update! The database \"%s\" is empty!", dbName)
			return nil
		}

		id, ok, err := guided.Ask(c, "CMS <UPDATE>: Enter 7-Digit Student ID to Update ('Q' to stop UPDATE)", validate.ID)
		if err != nil {
			return err
		}
		if !ok {
			c.Notice("UPDATE", "Update operation cancelled!")
			return nil
		}
		if !store.Exists(id) {
			c.Notice("UPDATE", "Record with student ID=\"%d\" not found!", id)
			return nil
		}

		const options = "[1] Update Name [2] Update Programme [3] Update Marks [4] Update All"
		for {
			current, _ := store.Find(id)
			response.WriteCard(c.Out(), "STUDENT FOUND", current, false)
			c.Println(options)
			c.Println(strings.Repeat("=", len(options)))

			option, err := c.Ask("CMS <UPDATE>: Enter Update Option [1-4] ('Q' to cancel)")
			if err != nil {
				return err
			}

			switch strings.TrimSpace(option) {
			case "1":
				err = updateName(c, store, current)
			case "2":
				err = updateProgramme(c, store, current)
			case "3":
				err = updateMarks(c, store, current)
			case "4":
				var done bool
				done, err = updateAll(c, store, current)
				if err == nil && done {
					return nil
				}
			default:
				if validate.IsCancel(option) {
					c.Notice("UPDATE", "Update operation cancelled!")
					return nil
				}
				c.Error(errors.New("Invalid option. Please enter [1-4] or 'Q' to cancel."))
			}
			if err != nil {
				return err
			}
		}
	}
}

func updateName(c *console.Console, store *records.Store, current types.Student) error {
	var name string
	flow := guided.New(guided.Spec{
		Fields: []guided.Field{
			guided.Bind("CMS <UPDATE>: Enter New Student Name ('Q' to stop updating Name)", &name, validate.Name),
		},
		QuestionFunc: func() string {
			return fmt.Sprintf("CMS <UPDATE>: Confirm name update from \"%s\" to \"%s\"? (Y/N)", current.Name, name)
		},
		Commit: func() error {
			_, err := store.Update(current.ID, records.Mutation{Name: &name})
			return err
		},
	})
	return finishField(c, flow, current.ID, "Name", "name")
}

func updateProgramme(c *console.Console, store *records.Store, current types.Student) error {
	var programme string
	flow := guided.New(guided.Spec{
		Fields: []guided.Field{
			guided.Bind("CMS <UPDATE>: Enter New Programme ('Q' to stop updating Programme)", &programme, validate.Programme),
		},
		QuestionFunc: func() string {
			return fmt.Sprintf("CMS <UPDATE>: Confirm programme update from \"%s\" to \"%s\"? (Y/N)", current.Programme, programme)
		},
		Commit: func() error {
			_, err := store.Update(current.ID, records.Mutation{Programme: &programme})
			return err
		},
	})
	return finishField(c, flow, current.ID, "Programme", "programme")
}

func updateMarks(c *console.Console, store *records.Store, current types.Student) error {
	var marks float64
	flow := guided.New(guided.Spec{
		Fields: []guided.Field{
			guided.Bind("CMS <UPDATE>: Enter New Marks ('Q' to stop updating Marks)", &marks, validate.Marks),
		},
		QuestionFunc: func() string {
			return fmt.Sprintf("CMS <UPDATE>: Confirm updating marks from \"%.1f\" to \"%.1f\"? (Y/N)", current.Marks, marks)
		},
		Commit: func() error {
			_, err := store.Update(current.ID, records.Mutation{Marks: &marks})
			return err
		},
	})
	return finishField(c, flow, current.ID, "Marks", "marks")
}

// finishField runs a single-field update flow and reports how it ended.
func finishField(c *console.Console, flow *guided.Flow, id int, title, field string) error {
	state, err := guided.Run(c, flow)
	if err != nil {
		return err
	}
	switch {
	case state == guided.Committed:
		slog.Info("student updated", slog.Int("id", id), slog.String("field", field))
		c.Notice("UPDATE", "%s successfully updated!", title)
	case flow.Err() != nil:
		slog.Error("update failed", slog.Int("id", id), slog.String("error", flow.Err().Error()))
	default:
		c.Notice("UPDATE", "Update by %s cancelled!", field)
	}
	return nil
}

// updateAll collects all three fields and applies them with one
// confirmation. done reports whether the update was applied.
func updateAll(c *console.Console, store *records.Store, current types.Student) (done bool, err error) {
	var (
		name, programme string
		marks           float64
	)
	fields := []guided.Field{
		guided.Bind("CMS <UPDATE>: Enter New Name ('Q' to stop updating)", &name, validate.Name),
		guided.Bind("CMS <UPDATE>: Enter New Programme ('Q' to stop updating)", &programme, validate.Programme),
		guided.Bind("CMS <UPDATE>: Enter New Marks ('Q' to stop updating)", &marks, validate.Marks),
	}
	flow := guided.New(guided.Spec{
		Fields: fields,
		Summary: func(w io.Writer) {
			fmt.Fprintln(w, response.Banner("CONFIRM UPDATE", 58))
			fmt.Fprintf(w, "%10s %s -> %s\n", "Name:", current.Name, name)
			fmt.Fprintf(w, "%10s %s -> %s\n", "Programme:", current.Programme, programme)
			fmt.Fprintf(w, "%10s %.1f -> %.1f\n", "Marks:", current.Marks, marks)
			fmt.Fprintln(w, strings.Repeat("=", 58))
		},
		Question: "CMS <UPDATE>: Confirm update? (Y/N)",
		Commit: func() error {
			_, err := store.Update(current.ID, records.Mutation{Name: &name, Programme: &programme, Marks: &marks})
			return err
		},
	})

	state, err := guided.Run(c, flow)
	if err != nil {
		return false, err
	}
	switch {
	case state == guided.Committed:
		slog.Info("student updated", slog.Int("id", current.ID), slog.String("field", "all"))
		c.Notice("UPDATE", "Update successful!")
		return true, nil
	case flow.Err() != nil:
		slog.Error("update failed", slog.Int("id", current.ID), slog.String("error", flow.Err().Error()))
	case flow.Step() < len(fields):
		c.Notice("UPDATE", "Update operation cancelled!")
	default:
		c.Notice("UPDATE", "Update cancelled!")
	}
	return false, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE
// Asks for an ID, shows the record and removes it once the user confirms.
// An unknown ID ends the operation with a message; the store is unchanged.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(store *records.Store, dbName string) cli.HandlerFunc {
	return func(c *console.Console) error {
		if store.Len() == 0 {
			c.Notice("DELETE", "No records to delete! The database \"%s\" is empty!", dbName)
			return nil
		}

		id, ok, err := guided.Ask(c, "CMS <DELETE>: Enter 7-Digit Student ID to Delete ('Q' to cancel)", validate.ID)
		if err != nil {
			return err
		}
		if !ok {
			c.Notice("DELETE", "Delete operation cancelled!")
			return nil
		}

		target, found := store.Find(id)
		if !found {
			c.Notice("DELETE", "Record with student ID=\"%d\" not found!", id)
			return nil
		}

		flow := guided.New(guided.Spec{
			Summary: func(w io.Writer) {
				response.WriteCard(w, "STUDENT FOUND", target, true)
			},
			Question: "CMS <DELETE>: Confirm Delete? (Y/N)",
			Commit: func() error {
				_, err := store.Delete(id)
				return err
			},
		})

		state, err := guided.Run(c, flow)
		if err != nil {
			return err
		}
		switch {
		case state == guided.Committed:
			slog.Info("student deleted", slog.Int("id", id))
			c.Notice("DELETE", "Record with student ID=\"%d\" successfully deleted!", id)
		case flow.Err() != nil:
			slog.Error("delete failed", slog.Int("id", id), slog.String("error", flow.Err().Error()))
		default:
			c.Notice("DELETE", "Delete operation cancelled!")
		}
		return nil
	}
}
