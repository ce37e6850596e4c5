// Package config - application configuration
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefix of environment variable overrides, e.g. INOVAREA_LOG_LEVEL
const EnvPrefix = "INOVAREA"

// LogConfig logging and audit log file settings
type LogConfig struct {
	// Level operational log level
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error fatal"`
	// AuditFile append-only audit log file
	AuditFile string `mapstructure:"audit_file" validate:"required"`
	// Console echo audit lines to stdout
	Console bool `mapstructure:"console"`
	// MaxSizeMB megabytes before the audit log file rotates
	MaxSizeMB int `mapstructure:"max_size_mb" validate:"gte=0"`
	// MaxBackups rotated audit log files to keep
	MaxBackups int `mapstructure:"max_backups" validate:"gte=0"`
	// MaxAgeDays days to keep rotated audit log files
	MaxAgeDays int `mapstructure:"max_age_days" validate:"gte=0"`
	// Compress gzip rotated audit log files
	Compress bool `mapstructure:"compress"`
}

// JournalConfig SQLite audit journal settings
type JournalConfig struct {
	// Enabled mirror the audit trail into the journal
	Enabled bool `mapstructure:"enabled"`
	// DBFile journal SQLite file
	DBFile string `mapstructure:"db_file" validate:"required_if=Enabled true"`
	// SQLLogLevel GORM log level
	SQLLogLevel string `mapstructure:"sql_log_level" validate:"omitempty,oneof=silent error warn info"`
}

// Config application configuration
type Config struct {
	// DataFile the JSON record file
	DataFile string `mapstructure:"data_file" validate:"required"`
	// Lock hold an exclusive lock on the data file for the session
	Lock bool `mapstructure:"lock"`
	// Log logging settings
	Log LogConfig `mapstructure:"log"`
	// Journal audit journal settings
	Journal JournalConfig `mapstructure:"journal"`
}

// NewViper define a viper instance with the application defaults and env overrides
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("data_file", "data.json")
	v.SetDefault("lock", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.audit_file", "log.txt")
	v.SetDefault("log.console", true)
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)
	v.SetDefault("log.compress", false)

	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.db_file", "journal.db")
	v.SetDefault("journal.sql_log_level", "error")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

/*
Load build the configuration

Precedence, lowest first: defaults, the optional config file, environment variables,
flags bound to the viper instance.

	@param v *viper.Viper - viper instance from NewViper, possibly with bound flags
	@param path string - optional config file; the format follows the extension
	@return the validated configuration
*/
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s [%w]", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config [%w]", err)
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Journal.SQLLogLevel = strings.ToLower(strings.TrimSpace(cfg.Journal.SQLLogLevel))

	if err := validator.New().Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config [%w]", err)
	}

	return cfg, nil
}
