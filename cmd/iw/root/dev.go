package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"illitworld/internal/engine"
	"illitworld/internal/ui"
)

func newDevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "dev",
		Short:  "Developer controls for XP and levels",
		Hidden: true,
	}
	cmd.AddCommand(newDevXPCmd(), newDevLevelCmd())
	return cmd
}

func newDevXPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xp <delta>",
		Short: fmt.Sprintf("Add or remove XP for every member (e.g. +%d, -%d)", engine.DevXPStep, engine.DevXPStep),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("delta is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := engine.ParseDelta(args[0])
			if err != nil {
				return err
			}
			return adjust(cmd, func(s *engine.Session) []engine.Character { return s.AdjustXP(delta) })
		},
	}
	return cmd
}

func newDevLevelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "level <delta>",
		Short: "Move every member up or down whole levels",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("delta is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := engine.ParseDelta(args[0])
			if err != nil {
				return err
			}
			return adjust(cmd, func(s *engine.Session) []engine.Character { return s.AdjustLevels(n) })
		},
	}
	return cmd
}

func adjust(cmd *cobra.Command, fn func(*engine.Session) []engine.Character) error {
	sess, cleanup, err := openSession(context.Background())
	if err != nil {
		return err
	}
	defer cleanup()

	for _, c := range fn(sess) {
		fmt.Fprintf(cmd.OutOrStdout(), "- %s lvl %d %s\n", ui.Member(c.Name, c.Color), c.Level, ui.Muted.Render(fmt.Sprintf("(xp %d)", c.XP)))
	}
	return nil
}
