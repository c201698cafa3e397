package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"tdl/pkg/keymaps"
)

// EnvPrefix is prepended to every environment override, e.g. TDL_DATABASE.
const EnvPrefix = "TDL"

// Config holds the application configuration
type Config struct {
	Driver         string            `mapstructure:"driver"`
	Database       string            `mapstructure:"database"`
	Locale         string            `mapstructure:"locale"`
	KeyMap         map[string]string `mapstructure:"keymap"`
	StylesFile     string            `mapstructure:"styles_file"`
	LogFile        string            `mapstructure:"log_file"`
	SeedCategories bool              `mapstructure:"seed_categories"`
}

// Styles holds the application colors and styling information
type Styles struct {
	// UI element colors
	BorderColor string `mapstructure:"border_color"`
	AccentColor string `mapstructure:"accent_color"`

	// Text colors
	NormalTextColor   string `mapstructure:"normal_text_color"`
	SelectedTextColor string `mapstructure:"selected_text_color"`
	SelectedBgColor   string `mapstructure:"selected_bg_color"`
	ErrorColor        string `mapstructure:"error_color"`
	CompletedColor    string `mapstructure:"completed_color"`

	// Priority colors
	HighPriorityColor   string `mapstructure:"high_priority_color"`
	MediumPriorityColor string `mapstructure:"medium_priority_color"`
	LowPriorityColor    string `mapstructure:"low_priority_color"`
}

// DefaultStyles matches the palette the UI was designed with.
func DefaultStyles() Styles {
	return Styles{
		BorderColor:         "240",
		AccentColor:         "205",
		NormalTextColor:     "86",
		SelectedTextColor:   "229",
		SelectedBgColor:     "57",
		ErrorColor:          "9",
		CompletedColor:      "242",
		HighPriorityColor:   "196",
		MediumPriorityColor: "214",
		LowPriorityColor:    "35",
	}
}

// Dir returns the directory holding config.json and styles.json.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "tdl"), nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("driver", "sqlite3")
	v.SetDefault("database", filepath.Join(configDir, "todo.db"))
	v.SetDefault("locale", "und")
	v.SetDefault("keymap", keymaps.GetDefaultKeyMappings())
	v.SetDefault("styles_file", filepath.Join(configDir, "styles.json"))
	v.SetDefault("log_file", "")
	v.SetDefault("seed_categories", true)
}

// Load reads the configuration from configPath (or the default location),
// writing a default file on first run. A .env file in the working directory
// and TDL_* variables override the file.
func Load(configPath string) (Config, Styles, error) {
	configDir, err := Dir()
	if err != nil {
		return Config{}, Styles{}, err
	}
	if configPath == "" {
		configPath = filepath.Join(configDir, "config.json")
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, Styles{}, fmt.Errorf("error loading .env: %w", err)
	}

	if err := writeDefaultConfig(configPath, configDir); err != nil {
		return Config{}, Styles{}, err
	}

	v := viper.New()
	setDefaults(v, configDir)
	v.SetConfigFile(configPath)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, Styles{}, fmt.Errorf("error reading config %s: %w", configPath, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, Styles{}, fmt.Errorf("error decoding config: %w", err)
	}

	styles, err := loadStyles(cfg.StylesFile)
	if err != nil {
		return cfg, styles, fmt.Errorf("error loading styles: %w", err)
	}

	return cfg, styles, nil
}

// writeDefaultConfig creates configPath with the defaults if it is missing.
func writeDefaultConfig(configPath, configDir string) error {
	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	defaults := viper.New()
	setDefaults(defaults, configDir)
	if err := defaults.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("error writing default config: %w", err)
	}
	return nil
}

// loadStyles loads the application styles from the specified path
func loadStyles(stylesPath string) (Styles, error) {
	defaultStyles := DefaultStyles()

	v := viper.New()
	v.SetDefault("border_color", defaultStyles.BorderColor)
	v.SetDefault("accent_color", defaultStyles.AccentColor)
	v.SetDefault("normal_text_color", defaultStyles.NormalTextColor)
	v.SetDefault("selected_text_color", defaultStyles.SelectedTextColor)
	v.SetDefault("selected_bg_color", defaultStyles.SelectedBgColor)
	v.SetDefault("error_color", defaultStyles.ErrorColor)
	v.SetDefault("completed_color", defaultStyles.CompletedColor)
	v.SetDefault("high_priority_color", defaultStyles.HighPriorityColor)
	v.SetDefault("medium_priority_color", defaultStyles.MediumPriorityColor)
	v.SetDefault("low_priority_color", defaultStyles.LowPriorityColor)
	v.SetConfigFile(stylesPath)

	if _, err := os.Stat(stylesPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(stylesPath), 0755); err != nil {
			return defaultStyles, err
		}
		if err := v.WriteConfigAs(stylesPath); err != nil {
			return defaultStyles, err
		}
		return defaultStyles, nil
	}

	if err := v.ReadInConfig(); err != nil {
		return defaultStyles, err
	}

	var loaded Styles
	if err := v.Unmarshal(&loaded); err != nil {
		return defaultStyles, err
	}
	return loaded, nil
}
