package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the photopicker command tree. Without a subcommand it
// runs the picker.
func NewRootCmd() *cobra.Command {
	var (
		opts AppOptions
		app  *App
	)

	root := &cobra.Command{
		Use:   "photopicker",
		Short: "Pick a photo from your library in the terminal",
		Long: `photopicker asks once for access to a photo library directory, lets you
pick an image from it and previews the image in the terminal.

Run without a subcommand to open the picker, or use the subcommands to
inspect and reset the stored access decision.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion":
				return nil
			}
			var err error
			app, err = NewApp(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPicker(cmd, app)
		},
	}
	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $PHOTOPICKER_CONFIG or ~/.config/photopicker/config.toml)")
	root.PersistentFlags().StringVar(&opts.LibraryRoot, "library", "", "photo library directory (overrides library.root)")

	getApp := func() *App { return app }
	root.AddCommand(
		newRunCmd(getApp),
		newStatusCmd(getApp),
		newResetCmd(getApp),
		newLibraryCmd(getApp),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
