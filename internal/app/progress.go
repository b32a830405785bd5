package app

import (
	"fmt"
	"strconv"

	"github.com/bookdeck/bookdeck/internal/engine"
	"github.com/spf13/cobra"
)

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <book-id> <pages-read>",
		Short: "Update the reading progress of one book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			pagesRead, err := strconv.Atoi(args[1])
			if err != nil || pagesRead < 0 {
				return fmt.Errorf("pages-read must be a non-negative integer")
			}

			// Validate against the live record the same way the browser
			// does: the draft may never exceed the page count.
			books, err := store.ListBooks(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching catalog: %w", err)
			}
			b := engine.ByID(books, id)
			if b == nil {
				return fmt.Errorf("no book with id %q", id)
			}
			if pagesRead > b.Pages {
				return fmt.Errorf("%q has %d pages", b.Title, b.Pages)
			}

			if err := store.UpdatePagesRead(cmd.Context(), id, pagesRead); err != nil {
				return fmt.Errorf("updating progress: %w", err)
			}
			ok("%s: %d/%d pages", b.Title, pagesRead, b.Pages)
			return nil
		},
	}
}
