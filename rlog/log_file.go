package rlog

import (
	"log"

	"github.com/natefinch/lumberjack"
)

// FileConfig configures a rotating log file for batch agglomeration or
// score-matrix jobs that run unattended and need bounded disk usage.
type FileConfig struct {
	Filename string
	MaxSizeMB int `toml:"max_log_size"`
	MaxAgeDays int `toml:"max_log_age"`
}

// fileLogger reuses stdLogger's formatting but writes to a lumberjack
// rotating file instead of stderr.
type fileLogger struct {
	stdLogger
	rotator *lumberjack.Logger
}

// NewFileLogger opens (creating if necessary) a rotating log file and
// installs it as the active backend via SetLogger. Callers own the
// returned *lumberjack.Logger and should Close it on shutdown.
func NewFileLogger(c FileConfig) *lumberjack.Logger {
	if c.Filename == "" {
		return nil
	}
	l := &lumberjack.Logger{
		Filename: c.Filename,
		MaxSize:  c.MaxSizeMB,
		MaxAge:   c.MaxAgeDays,
	}
	log.SetOutput(l)
	SetLogger(fileLogger{rotator: l})
	return l
}
