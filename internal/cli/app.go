// Package cli wires configuration, storage and the picker screen behind
// cobra commands.
package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jask/photopicker/internal/config"
	"github.com/jask/photopicker/internal/database"
	"github.com/jask/photopicker/internal/database/repository"
	"github.com/jask/photopicker/internal/logging"
	"github.com/jask/photopicker/internal/photos"
)

// App holds the dependencies shared by every command.
type App struct {
	Config     config.Config
	ConfigPath string
	Consents   *repository.ConsentRepo
	Log        zerolog.Logger

	db         *sql.DB
	ctx        context.Context
	logCleanup func()
}

// AppOptions are the command-line overrides applied on top of the config
// file.
type AppOptions struct {
	ConfigPath  string
	LibraryRoot string
}

// NewApp loads config, opens the log file and the migrated database.
func NewApp(ctx context.Context, opts AppOptions) (*App, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	// written before overrides so flags never leak into the file
	if err := config.EnsureFile(cfg, path); err != nil {
		return nil, err
	}
	if opts.LibraryRoot != "" {
		cfg.Library.Root = opts.LibraryRoot
	}

	logger, cleanup, err := logging.NewFile(logging.FromConfigValues(cfg.Log.Level, cfg.Log.Format), cfg.Log.File)
	if err != nil {
		return nil, err
	}

	db, err := database.OpenMigrated(cfg.Database.Path)
	if err != nil {
		cleanup()
		return nil, err
	}
	logger.Debug().Str("db_path", cfg.Database.Path).Str("config", path).Msg("database ready")

	return &App{
		Config:     cfg,
		ConfigPath: path,
		Consents:   repository.NewConsentRepo(db),
		Log:        logger,
		db:         db,
		ctx:        logging.WithContext(ctx, logger),
		logCleanup: cleanup,
	}, nil
}

// Ctx returns a context carrying the app logger.
func (a *App) Ctx() context.Context { return a.ctx }

// Permissions builds the consent-backed permission service. A nil prompter
// yields a service that reports but never asks.
func (a *App) Permissions(prompter photos.Prompter) *photos.ConsentService {
	return photos.NewConsentService(a.Consents, prompter, photos.ConsentOptions{
		Scope:       a.Config.Permission.Scope,
		Restricted:  a.Config.Permission.Restricted,
		LibraryRoot: a.Config.Library.Root,
	}, a.Log.With().Str("component", "photos").Logger())
}

// Close releases the database and log file.
func (a *App) Close() error {
	err := a.db.Close()
	a.logCleanup()
	return err
}
