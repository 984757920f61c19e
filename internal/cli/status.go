package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

func newStatusCmd(app func() *App) *cobra.Command {
	var history bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored photo access decision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if a == nil {
				return fmt.Errorf("app not initialized")
			}
			out := cmd.OutOrStdout()
			scope := a.Config.Permission.Scope
			status := a.Permissions(nil).CurrentStatus()
			fmt.Fprintf(out, "%s %s\n", headerStyle.Render("Photo access:"), status)
			fmt.Fprintf(out, "library: %s\nscope:   %s\n", a.Config.Library.Root, scope)

			if !history {
				return nil
			}
			events, err := a.Consents.History(a.Ctx(), scope)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			fmt.Fprintln(out, headerStyle.Render("History:"))
			if len(events) == 0 {
				fmt.Fprintln(out, "  (none)")
			}
			for _, ev := range events {
				fmt.Fprintf(out, "  %s  %s\n", ev.CreatedAt.Local().Format("2006-01-02 15:04:05"), ev.Status)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&history, "history", false, "also list every recorded decision")
	return cmd
}
