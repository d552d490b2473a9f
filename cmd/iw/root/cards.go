package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"illitworld/internal/engine"
	"illitworld/internal/ui"
)

func newCardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards <member-id>",
		Short: "Show a member's photo cards and how to unlock them",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("member id is required")
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

			c, ok := sess.Character(args[0])
			if !ok {
				return engine.UnknownCharacterError{CharacterID: args[0]}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconCard, c.Name+" photo cards"))
			fmt.Fprintln(out, ui.LabelValue("Level", c.Level))
			for _, era := range engine.CardBook(c, sess.Watched()) {
				fmt.Fprintln(out, "")
				fmt.Fprintln(out, ui.H2.Render(era.Name))
				for _, cs := range era.Cards {
					marker := "  "
					if cs.Selected {
						marker = ui.Gold.Render("* ")
					}
					fmt.Fprintf(out, "%s%s %s %s\n", marker, cs.Card.Name, ui.Muted.Render(cs.Card.ID), ui.LockText(cs.Unlocked, cs.Description))
				}
			}
			return nil
		},
	}
	return cmd
}

func newSelectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select <member-id> <card-id>",
		Short: "Equip an unlocked photo card",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("member id and card id are required")
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

			c, ok := sess.Character(args[0])
			if !ok {
				return engine.UnknownCharacterError{CharacterID: args[0]}
			}
			if err := sess.SelectPhotoCard(c.ID, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf("%s %s now shows %s", ui.IconCard, c.Name, args[1])))
			return nil
		},
	}
	return cmd
}
