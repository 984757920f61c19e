package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/photopicker/internal/library"
	"github.com/jask/photopicker/internal/photos"
)

func newLibraryCmd(app func() *App) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "library",
		Short: "List the images the picker would offer",
		Long: `List the images the picker would offer at the current access level.

Nothing is listed until access has been granted. With limited access only
the shared subset is listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if a == nil {
				return fmt.Errorf("app not initialized")
			}
			status := a.Permissions(nil).CurrentStatus()
			if !status.CanBrowse() {
				return fmt.Errorf("photo access is %s", status)
			}
			lib, err := library.Open(library.Options{
				Root:       a.Config.Library.Root,
				LimitedDir: a.Config.Library.LimitedDir,
				IgnoreFile: a.Config.Library.IgnoreFile,
			})
			if err != nil {
				return err
			}
			items, err := lib.List(a.Ctx(), status == photos.StatusLimited)
			if err != nil {
				return err
			}
			for _, h := range library.Filter(items, filter) {
				fmt.Fprintln(cmd.OutOrStdout(), h.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "only list names matching this query")
	return cmd
}
