package logging

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It discards output until Init is called so
// that nothing is ever written over the terminal UI.
var Log = newDiscardLogger()

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Init points the logger at filePath with the given level.
// An unknown level falls back to info. The returned closer releases the file.
func Init(levelStr, filePath string) (io.Closer, error) {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if filePath == "" {
		l.SetOutput(io.Discard)
		Log = l
		return io.NopCloser(nil), nil
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, errors.Wrapf(err, "open log file %s", filePath)
	}
	l.SetOutput(file)
	Log = l
	return file, nil
}
