package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Library    LibraryConfig    `mapstructure:"library"`
	Permission PermissionConfig `mapstructure:"permission"`
	Picker     PickerConfig     `mapstructure:"picker"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	UI         UIConfig         `mapstructure:"ui"`
}

// LibraryConfig describes the directory that plays the photo library.
type LibraryConfig struct {
	Root       string `mapstructure:"root" validate:"required"`
	LimitedDir string `mapstructure:"limited_dir"`
	IgnoreFile string `mapstructure:"ignore_file"`
	Watch      bool   `mapstructure:"watch"`
}

// PermissionConfig holds authorization settings.
type PermissionConfig struct {
	// Scope keys the stored decision, one per library.
	Scope      string `mapstructure:"scope" validate:"required"`
	Restricted bool   `mapstructure:"restricted"`
}

// PickerConfig tunes the state store.
type PickerConfig struct {
	DropStaleDecodes bool `mapstructure:"drop_stale_decodes"`
	QueueSize        int  `mapstructure:"queue_size" validate:"min=1,max=4096"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
	File   string `mapstructure:"file"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	PreviewWidth  int    `mapstructure:"preview_width" validate:"min=4,max=400"`
	PreviewHeight int    `mapstructure:"preview_height" validate:"min=2,max=200"`
	Editor        string `mapstructure:"editor"`
}

var validate = validator.New()

// Path returns the config file location. PHOTOPICKER_CONFIG wins over the
// per-user default.
func Path() string {
	if p := os.Getenv("PHOTOPICKER_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "photopicker", "config.toml")
}

// Load reads configuration from the default location and env.
// Env var overrides use prefix PHOTOPICKER_.
func Load() (Config, error) {
	return LoadFrom("")
}

// LoadFrom reads configuration from path (or the default location when path
// is empty), applies env overrides and validates the result.
func LoadFrom(path string) (Config, error) {
	v := newViper(path)

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		if !isNotFound(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return decode(v)
}

// isNotFound reports a missing config file, which is not an error: the
// defaults apply.
func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path == "" {
		path = os.Getenv("PHOTOPICKER_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "photopicker"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PHOTOPICKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	home := os.Getenv("HOME")
	v.SetDefault("library.root", filepath.Join(home, "Pictures"))
	v.SetDefault("library.limited_dir", "Shared")
	v.SetDefault("library.ignore_file", ".photoignore")
	v.SetDefault("library.watch", true)
	v.SetDefault("permission.scope", "photos.readwrite")
	v.SetDefault("permission.restricted", false)
	v.SetDefault("picker.drop_stale_decodes", false)
	v.SetDefault("picker.queue_size", 64)
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "photopicker", "photopicker.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", filepath.Join(home, ".local", "state", "photopicker", "photopicker.log"))
	v.SetDefault("ui.preview_width", 60)
	v.SetDefault("ui.preview_height", 30)
	v.SetDefault("ui.editor", "")
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks struct-tag constraints.
func Validate(c Config) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Save writes the provided config to path, creating the config directory if
// needed. An empty path means Path().
func Save(cfg Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("library.root", cfg.Library.Root)
	v.Set("library.limited_dir", cfg.Library.LimitedDir)
	v.Set("library.ignore_file", cfg.Library.IgnoreFile)
	v.Set("library.watch", cfg.Library.Watch)
	v.Set("permission.scope", cfg.Permission.Scope)
	v.Set("permission.restricted", cfg.Permission.Restricted)
	v.Set("picker.drop_stale_decodes", cfg.Picker.DropStaleDecodes)
	v.Set("picker.queue_size", cfg.Picker.QueueSize)
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("log.file", cfg.Log.File)
	v.Set("ui.preview_width", cfg.UI.PreviewWidth)
	v.Set("ui.preview_height", cfg.UI.PreviewHeight)
	v.Set("ui.editor", cfg.UI.Editor)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// EnsureFile writes the defaults to path if nothing exists there yet, so the
// settings editor always has a file to open.
func EnsureFile(cfg Config, path string) error {
	if path == "" {
		path = Path()
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config: %w", err)
	}
	return Save(cfg, path)
}
