// Package database contains the menu handlers that move records between
// the backing store and memory: OPEN, SAVE and CLOSE.
//
// The handlers only ever talk to the storage.Storage interface, so the same
// code drives the flat text file and the SQLite database.
package database

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/students-cms/internal/cli"
	"github.com/aanand-mishra/students-cms/internal/console"
	"github.com/aanand-mishra/students-cms/internal/guided"
	"github.com/aanand-mishra/students-cms/internal/records"
	"github.com/aanand-mishra/students-cms/internal/storage"
	"github.com/aanand-mishra/students-cms/internal/utils/response"
)

// ─────────────────────────────────────────────────────────────────────────────
// Open handles OPEN
// Loads every record from the backend into the store and marks it open and
// clean.
//
// Records the store refuses (a repeated ID, say) are logged and left out;
// the count printed is the number actually loaded. If the backend cannot be
// read at all the store stays closed.
// ─────────────────────────────────────────────────────────────────────────────
func Open(store *records.Store, backend storage.Storage) cli.HandlerFunc {
	return func(c *console.Console) error {
		name := filepath.Base(backend.Location())

		students, err := backend.Load()
		if err != nil {
			slog.Error("failed to open database",
				slog.String("path", backend.Location()),
				slog.String("error", err.Error()))

			if errors.Is(err, os.ErrNotExist) {
				c.Error(fmt.Errorf("Database file \"%s\" not found! Ensure correct file path is provided!", name))
			} else {
				c.Error(fmt.Errorf("Database file \"%s\" could not be opened: %s", name, response.GeneralError(err)))
			}
			return nil
		}

		if err := store.Open(students); err != nil {
			for _, e := range split(err) {
				slog.Warn("skipping record", slog.String("error", response.GeneralError(e)))
			}
		}

		slog.Info("database opened",
			slog.String("path", backend.Location()),
			slog.Int("records", store.Len()))
		c.Notice("", "Database file \"%s\" successfully opened! Found %d records!", name, store.Len())
		return nil
	}
}

// split undoes errors.Join.
func split(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// ─────────────────────────────────────────────────────────────────────────────
// Save handles SAVE
// Rewrites the backend with the current records and clears the dirty flag.
//
// A failed save is reported and changes nothing in memory: the records are
// still there and the store is still dirty, so the user can try again.
// ─────────────────────────────────────────────────────────────────────────────
func Save(store *records.Store, backend storage.Storage) cli.HandlerFunc {
	return func(c *console.Console) error {
		name := filepath.Base(backend.Location())

		if err := backend.Save(store.All()); err != nil {
			slog.Error("failed to save database",
				slog.String("path", backend.Location()),
				slog.String("error", err.Error()))
			c.Error(fmt.Errorf("Could not save to database file \"%s\": %s", name, response.GeneralError(err)))
			return nil
		}

		store.MarkSaved()
		slog.Info("database saved",
			slog.String("path", backend.Location()),
			slog.Int("records", store.Len()))
		c.Notice("", "Saved successfully to database file \"%s\"!", name)
		return nil
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Close handles CLOSE
// Drops the in-memory records and returns to the closed menu.
//
// With unsaved changes the user must confirm first; answering N keeps the
// store open with every change intact.
// ─────────────────────────────────────────────────────────────────────────────
func Close(store *records.Store, backend storage.Storage) cli.HandlerFunc {
	return func(c *console.Console) error {
		name := filepath.Base(backend.Location())

		if store.IsDirty() {
			flow := guided.New(guided.Spec{
				Question: "CMS <CLOSE>: You have unsaved changes! Are you sure you want to close the database file? (Y/N)",
				Commit: func() error {
					return store.Close(true)
				},
			})
			state, err := guided.Run(c, flow)
			if err != nil {
				return err
			}
			if state != guided.Committed {
				c.Notice("CLOSE", "Close operation cancelled! Unsaved changes remain!")
				return nil
			}
			slog.Warn("database closed without saving", slog.String("path", backend.Location()))
		} else if err := store.Close(false); err != nil {
			return err
		}

		c.Notice("", "Database file \"%s\" successfully closed! Returning to the main menu!", name)
		return nil
	}
}
