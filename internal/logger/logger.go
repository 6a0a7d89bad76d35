// Package logger provides a wrapper around logrus for structured logging.
package logger

import (
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// New creates a configured logger instance.
func New(logLevel string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	// JSON in production, colored text for local runs
	if os.Getenv("ENVIRONMENT") == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	return log
}

// WithRun returns an entry tagged with a pipeline run ID so every line of a
// training or scoring run can be correlated.
func WithRun(log *logrus.Logger, runID uuid.UUID) *logrus.Entry {
	return log.WithField("run_id", runID.String())
}
