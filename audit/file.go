package audit

import (
	"io"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Default rotation settings for the audit log file
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 7
)

// FileConfig audit log file location and rotation, in lumberjack terms
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewRotatingFile open the audit log file for appending, rotating by size
func NewRotatingFile(cfg FileConfig) io.WriteCloser {
	return &lj.Logger{
		Filename:   cfg.Path,
		MaxSize:    valOr(cfg.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: valOr(cfg.MaxBackups, DefaultMaxBackups),
		MaxAge:     valOr(cfg.MaxAgeDays, DefaultMaxAgeDays),
		Compress:   cfg.Compress,
	}
}

func valOr(v int, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
