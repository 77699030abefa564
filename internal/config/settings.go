package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/spotgrab/spotgrab/internal/download"
)

// envPrefix scopes the environment variables the loader reads, e.g.
// SPOTGRAB_FORMAT or SPOTGRAB_LOG_LEVEL.
const envPrefix = "SPOTGRAB"

// Settings holds everything a run needs beyond the input references.
// Command-line flags override these after loading.
type Settings struct {
	// User and Pass are the account credentials.
	User string `mapstructure:"user"`
	Pass string `mapstructure:"pass"`

	// Format is the output path template. Placeholders: {author},
	// {album}, {name}, {ext}.
	Format string `mapstructure:"format"`

	// DeviceName is the device name announced to the service on login.
	DeviceName string `mapstructure:"device_name"`

	// LogLevel selects the diagnostic log threshold (zerolog level
	// names). The console narration is independent of this.
	LogLevel string `mapstructure:"log_level"`
}

// Load reads settings from the optional config file at path, layered
// over environment variables and built-in defaults.
//
// An empty path means no config file; a missing file at a given path is
// an error, since the user asked for it explicitly.
func Load(path string) (Settings, error) {
	v := viper.New()

	// Every key needs a default so AutomaticEnv can see it during
	// Unmarshal.
	v.SetDefault("user", "")
	v.SetDefault("pass", "")
	v.SetDefault("format", download.DefaultTemplate)
	v.SetDefault("device_name", "spotgrab")
	v.SetDefault("log_level", "warn")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("cannot read config file %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("cannot parse config: %w", err)
	}
	return s, nil
}
