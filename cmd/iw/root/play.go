package root

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"illitworld/internal/tui"
)

func newPlayCmd() *cobra.Command {
	var speed float64
	cmd := &cobra.Command{
		Use:         "play",
		Short:       "Open the interactive player",
		Annotations: map[string]string{annotationTUI: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
			defer stop()

			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunPlayer(ctx, sess, tui.Options{
				Out:      cmd.OutOrStdout(),
				Interval: cfg.GetPollInterval(),
				Speed:    speed,
				Logger:   logger,
			})
		},
	}
	cmd.Flags().Float64Var(&speed, "speed", 1, "playback speed multiplier")
	return cmd
}
