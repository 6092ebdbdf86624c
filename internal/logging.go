package internal

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Field names shared by all log statements
const (
	FieldFile      = "file_path"
	FieldBackend   = "backend"
	FieldCategory  = "category"
	FieldRow       = "row"
	FieldCount     = "count"
	FieldOperation = "operation"
	FieldFormat    = "format"
)

// NewLogger creates a logrus logger writing to w.
// level is one of logrus' level names; format is "json" or "text".
// An unparseable level falls back to warn.
func NewLogger(level, format string, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'warn'", level)
		logLevel = logrus.WarnLevel
	}
	logger.SetLevel(logLevel)

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
