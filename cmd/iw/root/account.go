package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"illitworld/internal/auth"
	"illitworld/internal/ui"
)

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in so progress is saved",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("email is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			u, err := auth.NewLocalProvider(cfg.SessionPath()).SignIn(ctx, args[0])
			if err != nil {
				return err
			}
			logger.Info("signed in", zap.String("user_id", u.ID))

			// Load once so a first sign-in writes the default roster.
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconSparkle+" Signed in as "+u.Email))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("User ID", sess.UserID()))
			return nil
		},
	}
	return cmd
}

func newLogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out; progress is no longer saved",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.NewLocalProvider(cfg.SessionPath()).SignOut(context.Background()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
	return cmd
}
