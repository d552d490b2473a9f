package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"illitworld/internal/auth"
	"illitworld/internal/engine"
	"illitworld/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show member levels, watch progress and achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			who := "guest (progress is not saved)"
			if u, err := auth.NewLocalProvider(cfg.SessionPath()).Current(ctx); err == nil && u != nil {
				who = u.Email
			}
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "ILLIT World"))
			fmt.Fprintln(out, ui.LabelValue("Signed in as", who))
			fmt.Fprintln(out, "")

			r := sess.Rules()
			fmt.Fprintln(out, ui.H2.Render("Members"))
			for _, c := range sess.Roster() {
				next := r.XPForLevel(c.Level + 1)
				fmt.Fprintf(out, "- %s lvl %d %s %s\n",
					ui.Member(c.Name, c.Color), c.Level,
					ui.Muted.Render(fmt.Sprintf("(xp %d, %d to level %d)", c.XP, next-c.XP, c.Level+1)),
					ui.Muted.Render(c.SelectedPhotoCard))
			}
			fmt.Fprintln(out, "")

			watched := sess.Watched()
			all := sess.FilteredVideos(engine.FilterAll)
			fmt.Fprintln(out, ui.LabelValue("Watched", fmt.Sprintf("%d/%d", len(watched), len(all))))
			fmt.Fprintln(out, ui.LabelValue("Favorites", len(sess.Favorites())))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconTrophy+" Achievements"))
			for _, a := range sess.Achievements() {
				if a.Earned {
					fmt.Fprintf(out, "- %s %s %s\n", a.Icon, ui.Good.Render(a.Name), ui.Muted.Render(a.Description))
				} else {
					fmt.Fprintf(out, "- %s %s %s\n", ui.IconLock, ui.Muted.Render(a.Name), ui.Muted.Render(a.Description))
				}
			}
			return nil
		},
	}

	return cmd
}
