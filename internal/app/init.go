package app

import (
	"fmt"
	"os"

	"github.com/bookdeck/bookdeck/internal/config"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			starter := &config.Config{
				Server: config.ServerConfig{
					BaseURL:        cfg.Server.BaseURL,
					TimeoutSeconds: cfg.Server.TimeoutSeconds,
				},
				Statuses: config.DefaultStatuses(),
			}
			if err := config.Save(starter); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			ok("wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
