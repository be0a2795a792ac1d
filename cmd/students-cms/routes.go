package main

import (
	"github.com/aanand-mishra/students-cms/internal/cli"
	"github.com/aanand-mishra/students-cms/internal/cli/handlers/database"
	"github.com/aanand-mishra/students-cms/internal/cli/handlers/student"
	"github.com/aanand-mishra/students-cms/internal/records"
	"github.com/aanand-mishra/students-cms/internal/storage"
)

// registerRoutes builds both menus.
//
// The handler functions (student.Insert, database.Open, etc.) are
// FACTORIES: they receive their dependencies and return the actual
// handler. This is the dependency injection / closure pattern.
//
// Route table:
//
//	closed: [1] OPEN [2] EXIT [3] HELP
//	open:   [1] SHOW ALL [2] INSERT [3] QUERY [4] UPDATE [5] DELETE
//	        [6] SAVE [7] CLOSE [8] EXIT [9] HELP
func registerRoutes(r *cli.Router, store *records.Store, backend storage.Storage, dbName string) {
	r.Handle(cli.Closed, "1", "OPEN", "Open the database file", database.Open(store, backend))
	r.Handle(cli.Closed, "2", "EXIT", "Exit the program", cli.Exit(store))
	r.Handle(cli.Closed, "3", "HELP", "View list of available commands", cli.Help(r, cli.Closed))

	r.Handle(cli.Open, "1", "SHOW ALL", "Display all student records", student.ShowAll(store, dbName))
	r.Handle(cli.Open, "2", "INSERT", "Add a new student record", student.Insert(store))
	r.Handle(cli.Open, "3", "QUERY", "Find student records by id, name, programme or grade", student.Query(store, dbName))
	r.Handle(cli.Open, "4", "UPDATE", "Modify existing student record", student.Update(store, dbName))
	r.Handle(cli.Open, "5", "DELETE", "Delete existing student record", student.Delete(store, dbName))
	r.Handle(cli.Open, "6", "SAVE", "Save changes made to student records", database.Save(store, backend))
	r.Handle(cli.Open, "7", "CLOSE", "Close the database file and return to main menu", database.Close(store, backend))
	r.Handle(cli.Open, "8", "EXIT", "Exit the program", cli.Exit(store))
	r.Handle(cli.Open, "9", "HELP", "View list of available commands", cli.Help(r, cli.Open))
}
