package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"illitworld/internal/engine"
	"illitworld/internal/ui"
)

func newVideosCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "videos",
		Short: "List videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := engine.ParseVideoFilter(filter)
			if err != nil {
				return err
			}
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			list := sess.FilteredVideos(f)
			fmt.Fprintln(out, ui.Heading(ui.IconPlay, fmt.Sprintf("Videos: %s (%d)", f, len(list))))
			if len(list) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none)"))
				return nil
			}
			watched := sess.Watched()
			favs := sess.Favorites()
			for _, v := range list {
				_, seen := watched[v.ID]
				fmt.Fprintf(out, "%s%s %s %s %s\n",
					ui.WatchedMark(seen), ui.FavoriteMark(favs[v.ID]),
					v.Title, ui.Muted.Render(fmt.Sprintf("%d:%02d", v.Duration/60, v.Duration%60)),
					ui.Muted.Render(v.ID))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "filter: "+filterNames())
	return cmd
}

func filterNames() string {
	names := make([]string, 0, len(engine.Filters))
	for _, f := range engine.Filters {
		names = append(names, strings.ToLower(string(f)))
	}
	return strings.Join(names, ", ")
}

func newWatchCmd() *cobra.Command {
	var fraction float64
	cmd := &cobra.Command{
		Use:   "watch <video-id>",
		Short: "Record watching a video and award XP",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("video id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if fraction < 0 || fraction > 1 {
				return fmt.Errorf("fraction must be between 0 and 1, got %v", fraction)
			}
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			v, ok := sess.Video(args[0])
			if !ok {
				return fmt.Errorf("unknown video %q", args[0])
			}
			res, _ := sess.RecordWatch(v.ID, fraction)

			out := cmd.OutOrStdout()
			if res == nil {
				fmt.Fprintln(out, ui.Warn.Render(fmt.Sprintf("%s Not enough of %s watched for a reward.", ui.IconWarn, v.Title)))
				return nil
			}
			fmt.Fprintln(out, ui.Good.Render(fmt.Sprintf("%s +%d XP for every member from %s", ui.IconSparkle, res.SecondsWatched, v.Title)))
			if !res.FirstWatch {
				fmt.Fprintln(out, ui.Muted.Render("(rewatch)"))
			}
			for _, id := range res.LevelUps {
				c, ok := sess.Character(id)
				if !ok {
					continue
				}
				fmt.Fprintf(out, "%s %s is now level %d\n", ui.BadgeLevelUp, ui.Member(c.Name, c.Color), c.Level)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&fraction, "fraction", 1, "fraction of the video watched (0-1)")
	return cmd
}

func newFavCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav <video-id>",
		Short: "Toggle a favorite video",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("video id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			v, ok := sess.Video(args[0])
			if !ok {
				return fmt.Errorf("unknown video %q", args[0])
			}
			if sess.ToggleFavorite(v.ID) {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Title.Render(ui.IconHeart)+" Added "+v.Title+" to favorites")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Removed "+v.Title+" from favorites")
			}
			return nil
		},
	}
	return cmd
}
