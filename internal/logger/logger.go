// Package logger holds the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the global logger instance.
var Log = logrus.New()

// Init configures the global logger. Unknown levels fall back to info; format
// "json" selects the JSON formatter, anything else the text formatter.
// A nil out keeps stderr.
func Init(level, format string, out io.Writer) {
	if out == nil {
		out = os.Stderr
	}
	Log.SetOutput(out)

	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		Log.SetLevel(logrus.InfoLevel)
		Log.Warnf("Invalid log level '%s', defaulting to 'info'", level)
	} else {
		Log.SetLevel(lvl)
	}

	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	Log.Debugf("Log level set to: %s", Log.GetLevel().String())
}

// OpenFile opens path for appending, creating parent directories as needed.
// Used when the terminal is owned by the TUI.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
}
