package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"illitworld/internal/config"
	"illitworld/internal/ui"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Storage maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the storage schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening a store applies its schema.
			store, err := openStore(context.Background())
			if err != nil {
				return err
			}
			if err := store.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconCheck+" Storage ready ("+cfg.Storage.Driver+")"))
			return nil
		},
	})
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.DefaultConfig().Save(configPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote "+configPath)
			return nil
		},
	}, &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Config", configPath))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Data dir", cfg.DataDir))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Storage", cfg.Storage.Driver))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("XP per level", cfg.Progression.XPPerLevel))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Reward threshold", cfg.Progression.RewardThreshold))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Poll interval", cfg.GetPollInterval()))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("API address", cfg.Server.Addr))
			return nil
		},
	})
	return cmd
}
