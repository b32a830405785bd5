package app

import (
	"fmt"

	"github.com/bookdeck/bookdeck/internal/engine"
	"github.com/bookdeck/bookdeck/internal/tui"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var (
		search   string
		statusID string
		category string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the catalog, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if statusID != "" && category != "" {
				return fmt.Errorf("--status and --category are mutually exclusive")
			}

			books, err := store.ListBooks(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching catalog: %w", err)
			}

			eng := engine.New(cfg.StatusList())
			eng.SetCatalog(books)
			eng.SetSearch(search)
			switch {
			case statusID != "":
				eng.SetMode(engine.ModeByStatus)
				eng.SetValue(statusID)
			case category != "":
				eng.SetMode(engine.ModeByCategory)
				eng.SetValue(category)
			}

			visible := eng.Visible()
			if len(visible) == 0 {
				warn("no books match")
				return nil
			}

			for _, b := range visible {
				fmt.Printf("%s  %s  %s  %s  %s\n",
					color.WhiteString("%-40s", truncate(b.Title, 40)),
					color.New(color.Faint).Sprintf("%-24s", truncate(b.Author, 24)),
					color.CyanString("%-14s", truncate(b.Category, 14)),
					fmt.Sprintf("%-12s", truncate(b.Status, 12)),
					color.New(color.Faint).Sprint(tui.ProgressLabel(b)))
			}
			fmt.Println()
			fmt.Println(color.New(color.Faint).Sprintf("%d of %d books", len(visible), len(books)))
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Match title or author (case-insensitive substring)")
	cmd.Flags().StringVar(&statusID, "status", "", "Filter by reading-status ID (see config)")
	cmd.Flags().StringVar(&category, "category", "", "Filter by exact category")
	return cmd
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
