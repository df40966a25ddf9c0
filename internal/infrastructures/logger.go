package infrastructures

import (
	"github.com/sirupsen/logrus"
)

var logger = logrus.StandardLogger()

func init() {
	logger.SetFormatter(&logrus.JSONFormatter{})
}

// ConfigureLogger applies LOG_LEVEL. Unknown levels keep info.
func ConfigureLogger(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logger.WithField("level", level).Warn("unknown log level, using info")
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	return logger
}
