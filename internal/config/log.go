package config

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

type LogConfig struct {
	Level  string
	JSON   bool
	Output io.Writer
}

// LogConfig derives the logger settings from the log section.
func (c Config) LogConfig() LogConfig {
	return LogConfig{Level: c.Log.Level, JSON: c.Log.JSON, Output: os.Stderr}
}

func (lc LogConfig) SetLevel() {
	level, err := log.ParseLevel(lc.Level)
	if err != nil {
		log.WithError(err).
			WithFields(log.Fields{"level": lc.Level, "default": "info"}).
			Info("using default log level")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func (lc LogConfig) SetFormat() {
	if lc.JSON {
		log.SetFormatter(&log.JSONFormatter{})
		return
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

// Set configures the standard logrus logger.
func (lc LogConfig) Set() {
	lc.SetFormat()
	lc.SetLevel()
	if lc.Output != nil {
		log.SetOutput(lc.Output)
	}

	log.WithFields(
		log.Fields{
			"json":  lc.JSON,
			"level": lc.Level,
		},
	).Debug("log configured")
}
