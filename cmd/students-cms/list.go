package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/students-cms/internal/records"
	"github.com/aanand-mishra/students-cms/internal/storage"
	"github.com/aanand-mishra/students-cms/internal/utils/response"
)

// listCmd prints every stored record without starting the menu.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every stored record and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := newStorage(cfg, log)
		if err != nil {
			return err
		}
		defer backend.Close()

		return listRecords(backend, cmd.OutOrStdout())
	},
}

// listRecords loads backend through a store, so the listing shows exactly
// what OPEN would load.
func listRecords(backend storage.Storage, out io.Writer) error {
	students, err := backend.Load()
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}

	store := records.New()
	if err := store.Open(students); err != nil {
		slog.Warn("some records were skipped", slog.String("error", response.GeneralError(err)))
	}

	n := response.WriteTable(out, store.Records())
	fmt.Fprintf(out, "Found %d records in \"%s\".\n", n, backend.Location())
	return nil
}
