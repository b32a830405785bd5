package app

import (
	"fmt"
	"os"

	"github.com/bookdeck/bookdeck/internal/bookstore"
	"github.com/bookdeck/bookdeck/internal/config"
	"github.com/bookdeck/bookdeck/internal/engine"
	"github.com/bookdeck/bookdeck/internal/tui"
	"github.com/bookdeck/bookdeck/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfg   *config.Config
	store *bookstore.Client

	flagNoColor       bool
	flagNoInteractive bool
)

var rootCmd = &cobra.Command{
	Use:   "bookdeck",
	Short: "Browse and update a personal book library from the terminal",
	Long: `bookdeck is a viewer for a remote book library service.

It lists your collection, filters it by search text, reading status, or
category, and lets you open one book at a time to update reading progress
and leave a star rating. All data lives on the server; bookdeck keeps no
local copy between runs.

Run 'bookdeck' with no arguments to launch the interactive browser.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tui.ShouldUseTUI(cmd) {
			eng := engine.New(cfg.StatusList())
			return tui.RunBrowser(eng, store)
		}
		return cmd.Help()
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Disable interactive TUI mode")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		store = bookstore.New(cfg.Server.BaseURL, cfg.Timeout())
		return nil
	}

	rootCmd.AddCommand(
		newInitCmd(),
		newListCmd(),
		newProgressCmd(),
		newReviewCmd(),
		newVersionCmd(),
	)
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}
