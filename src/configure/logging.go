package configure

import (
	"io"

	"github.com/sirupsen/logrus"
)

func initLogging(level string, noLogs bool) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.WithField("level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}

	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if noLogs {
		logrus.SetOutput(io.Discard)
	}
}
