package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/everforgeworks/healing-clicker/internal/ui"
)

func newResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved game",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete the save without --yes")
			}
			ctx := context.Background()
			m, cleanup, err := openManager(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if !m.HasSave(ctx) {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(ui.IconInfo+" no save to delete"))
				return nil
			}
			if !m.Delete(ctx) {
				return errors.New("could not delete the save (see log)")
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("save deleted"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
