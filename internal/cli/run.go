package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jask/photopicker/internal/config"
	"github.com/jask/photopicker/internal/library"
	"github.com/jask/photopicker/internal/logging"
	"github.com/jask/photopicker/internal/store"
	"github.com/jask/photopicker/internal/tui"
)

func newRunCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the picker (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPicker(cmd, app())
		},
	}
}

func runPicker(cmd *cobra.Command, app *App) error {
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx, cancel := signal.NotifyContext(app.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	log := logging.FromContext(ctx)
	cfg := app.Config

	lib, err := library.Open(library.Options{
		Root:       cfg.Library.Root,
		LimitedDir: cfg.Library.LimitedDir,
		IgnoreFile: cfg.Library.IgnoreFile,
	})
	if err != nil {
		return err
	}

	prompter := tui.NewPrompter()
	editor := tui.NewEditorLauncher(cfg.UI.Editor, app.ConfigPath)
	st := store.New(store.Options{
		Reducer: store.Reducer{
			Permissions:      app.Permissions(prompter),
			DropStaleDecodes: cfg.Picker.DropStaleDecodes,
		},
		Loader:    lib,
		Settings:  editor,
		QueueSize: cfg.Picker.QueueSize,
	})

	model := tui.New(ctx, st, lib, cfg.UI)
	defer model.Close()
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(cmd.OutOrStdout()))
	prompter.Bind(p)
	editor.Bind(p)

	bg, stop := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(bg)
	g.Go(func() error { return st.Run(gctx) })
	if cfg.Library.Watch {
		g.Go(func() error {
			if err := lib.Watch(gctx, func() { p.Send(tui.LibraryChanged{}) }); err != nil {
				log.Warn().Err(err).Str("root", lib.Root()).Msg("library watch disabled")
			}
			return nil
		})
	}
	if err := config.Watch(gctx, app.ConfigPath, func(c config.Config) {
		p.Send(tui.ConfigChanged{UI: c.UI})
	}); err != nil {
		log.Warn().Err(err).Msg("config watch disabled")
	}

	log.Info().Str("root", lib.Root()).Bool("drop_stale_decodes", cfg.Picker.DropStaleDecodes).Msg("picker started")
	_, runErr := p.Run()
	stop()
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("background task failed")
	}
	log.Info().Msg("picker stopped")

	if runErr != nil && (errors.Is(runErr, tea.ErrProgramKilled) || ctx.Err() != nil) {
		return nil
	}
	return runErr
}
