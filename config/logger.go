package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger, set by InitLogger.
var Log = logrus.New()

// InitLogger configures Log as JSON on stdout at the given level. An empty or
// unknown level falls back to info.
func InitLogger(level string) *logrus.Logger {
	Log = logrus.New()
	Log.SetFormatter(&logrus.JSONFormatter{})
	Log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	return Log
}
