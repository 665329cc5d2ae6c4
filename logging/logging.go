package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Init must run once at startup; before that
// the logger works with logrus defaults so tests can log without setup.
var Log = logrus.New()

// Init configures the global logger from the environment. LOG_LEVEL accepts
// any logrus level name (default "info"). LOG_FORMAT=json switches to the
// JSON formatter for log collection; the default is human-readable text.
func Init() {
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	Log.SetOutput(os.Stdout)
}
