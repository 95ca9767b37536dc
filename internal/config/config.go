// Package config loads the shelter settings from defaults, an optional YAML
// file, SHELTER_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config keys.
const (
	KeyDBPath     = "db.path"
	KeyHTTPAddr   = "http.addr"
	KeyReportsDir = "reports.dir"
	KeyLogLevel   = "log.level"
	KeyLogFormat  = "log.format"
)

// EnvPrefix prefixes environment overrides: db.path is SHELTER_DB_PATH.
const EnvPrefix = "SHELTER"

// Config is the resolved configuration.
type Config struct {
	DBPath     string
	HTTPAddr   string
	ReportsDir string
	LogLevel   slog.Level
	LogFormat  string

	// File is the config file that was read, empty if none.
	File string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDBPath, "shelter.db")
	v.SetDefault(KeyHTTPAddr, ":5000")
	v.SetDefault(KeyReportsDir, ".")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
}

// Load resolves the configuration.
//
// file names an explicit config file, which must exist. When file is empty,
// ./shelter.yaml is read if present. flags maps config keys to the
// command-line flags that override them; a flag only takes effect when it
// was set on the command line.
func Load(file string, flags map[string]*pflag.Flag) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return Config{}, fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("shelter")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := Config{
		DBPath:     v.GetString(KeyDBPath),
		HTTPAddr:   v.GetString(KeyHTTPAddr),
		ReportsDir: v.GetString(KeyReportsDir),
		LogFormat:  strings.ToLower(v.GetString(KeyLogFormat)),
		File:       v.ConfigFileUsed(),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", KeyLogLevel, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%s must not be empty", KeyDBPath)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid %s %q: must be text or json", KeyLogFormat, c.LogFormat)
	}
	return nil
}
