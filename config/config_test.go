package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alwitt/inovarea/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg, err := config.Load(config.NewViper(), "")
	assert.Nil(err)
	assert.Equal("data.json", cfg.DataFile)
	assert.True(cfg.Lock)
	assert.Equal("info", cfg.Log.Level)
	assert.Equal("log.txt", cfg.Log.AuditFile)
	assert.True(cfg.Log.Console)
	assert.Equal(10, cfg.Log.MaxSizeMB)
	assert.False(cfg.Journal.Enabled)
	assert.Equal("journal.db", cfg.Journal.DBFile)
	assert.Equal("error", cfg.Journal.SQLLogLevel)
}

func TestLoadFileAndEnv(t *testing.T) {
	assert := assert.New(t)

	cfgFile := filepath.Join(t.TempDir(), "inovarea.toml")
	content := `
data_file = "/var/lib/inovarea/records.json"
lock = false

[log]
level = "DEBUG"
audit_file = "/var/log/inovarea/audit.log"
compress = true

[journal]
enabled = true
db_file = "/var/lib/inovarea/journal.db"
`
	assert.Nil(os.WriteFile(cfgFile, []byte(content), 0o600))

	t.Setenv("INOVAREA_LOG_CONSOLE", "false")
	t.Setenv("INOVAREA_JOURNAL_SQL_LOG_LEVEL", "warn")

	cfg, err := config.Load(config.NewViper(), cfgFile)
	assert.Nil(err)
	assert.Equal("/var/lib/inovarea/records.json", cfg.DataFile)
	assert.False(cfg.Lock)
	assert.Equal("debug", cfg.Log.Level)
	assert.Equal("/var/log/inovarea/audit.log", cfg.Log.AuditFile)
	assert.True(cfg.Log.Compress)
	assert.False(cfg.Log.Console)
	assert.True(cfg.Journal.Enabled)
	assert.Equal("/var/lib/inovarea/journal.db", cfg.Journal.DBFile)
	assert.Equal("warn", cfg.Journal.SQLLogLevel)
}

func TestLoadInvalid(t *testing.T) {
	assert := assert.New(t)

	v := config.NewViper()
	v.Set("log.level", "chatty")
	_, err := config.Load(v, "")
	assert.Error(err)

	v = config.NewViper()
	v.Set("data_file", "")
	_, err = config.Load(v, "")
	assert.Error(err)

	v = config.NewViper()
	v.Set("journal.enabled", true)
	v.Set("journal.db_file", "")
	_, err = config.Load(v, "")
	assert.Error(err)

	_, err = config.Load(config.NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(err)
}
