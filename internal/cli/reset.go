package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the photo access decision so the next request asks again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if a == nil {
				return fmt.Errorf("app not initialized")
			}
			if err := a.Permissions(nil).Reset(a.Ctx()); err != nil {
				return fmt.Errorf("reset consent: %w", err)
			}
			a.Log.Info().Str("scope", a.Config.Permission.Scope).Msg("consent reset")
			fmt.Fprintf(cmd.OutOrStdout(), "Photo access for %s reset.\n", a.Config.Permission.Scope)
			return nil
		},
	}
}
