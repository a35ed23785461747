package contract

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. Components derive scoped loggers from it
// with WithField("component", ...).
var Logger = newLogger()

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)
	return logger
}

// ComponentLogger returns a logger tagged with the component name.
func ComponentLogger(component string) logrus.FieldLogger {
	return Logger.WithField("component", component)
}

// SetLogLevel parses level and applies it to the process logger.
func SetLogLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger.SetLevel(lvl)
	return nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger.WithError(err).Fatal(msg)
}

// LogWarn logs a warning with its cause.
func LogWarn(msg string, err error) {
	Logger.WithError(err).Warn(msg)
}
