package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API      APIConfig
	Database DatabaseConfig
	Log      LogConfig
	Auth     AuthConfig
	Media    MediaConfig
	UI       UIConfig
}

// APIConfig points the client at the reporting backend.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Timeout of zero leaves requests unbounded.
	Timeout time.Duration
}

// DatabaseConfig holds sqlite settings for the local report history.
type DatabaseConfig struct {
	Path string
}

// LogConfig controls the zap file logger.
type LogConfig struct {
	Path   string
	Level  string
	Format string
}

// AuthConfig toggles login and registration behaviour.
type AuthConfig struct {
	LegacyLogin          bool `mapstructure:"legacy_login"`
	CheckPasswordConfirm bool `mapstructure:"check_password_confirm"`
	RememberPassword     bool `mapstructure:"remember_password"`
}

// MediaConfig bounds picked attachments.
type MediaConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat string `mapstructure:"date_format"`
}

// Dir is the per-user configuration directory.
func Dir() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "alerta")
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "alerta")
}

// Path returns the config file location, honouring ALERTA_CONFIG.
func Path() string {
	if p := os.Getenv("ALERTA_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

// Load reads configuration from .env, file and env. Env var overrides use prefix ALERTA_.
func Load() (Config, error) {
	// a missing .env is the common case
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("ALERTA_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(Dir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ALERTA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		return Config{}, fmt.Errorf("config: api.base_url is empty")
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://10.0.2.2:8000")
	v.SetDefault("api.timeout", "0s")
	v.SetDefault("database.path", filepath.Join(dataDir(), "alerta.db"))
	v.SetDefault("log.path", filepath.Join(dataDir(), "alerta.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("auth.legacy_login", false)
	v.SetDefault("auth.check_password_confirm", false)
	v.SetDefault("auth.remember_password", false)
	v.SetDefault("media.max_bytes", 8<<20)
	v.SetDefault("ui.date_format", "02/01/2006 15:04")
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("auth.legacy_login", cfg.Auth.LegacyLogin)
	v.Set("auth.check_password_confirm", cfg.Auth.CheckPasswordConfirm)
	v.Set("auth.remember_password", cfg.Auth.RememberPassword)
	v.Set("media.max_bytes", cfg.Media.MaxBytes)
	v.Set("ui.date_format", cfg.UI.DateFormat)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
