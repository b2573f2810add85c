// Package logger wraps logrus behind package-level functions so that call
// sites don't have to thread a logger instance around. Context fields added
// with AddContext are attached to every subsequent log line.
package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

var (
	log   = logrus.New()
	entry = logrus.NewEntry(log)
)

// SetOutput redirects all log output to w.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// SetFormatter selects the output format, "text" or "json".
func SetFormatter(name string) {
	switch name {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{})
	}
}

// SetLevel parses and applies a logrus level name. Unknown names fall back
// to info.
func SetLevel(level string) {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		l = logrus.InfoLevel
	}
	log.SetLevel(l)
}

// AddContext attaches a field to all log lines emitted after this call.
func AddContext(key string, value interface{}) {
	entry = entry.WithField(key, value)
}

func Debug(args ...interface{}) {
	entry.Debug(args...)
}

func Debugf(format string, args ...interface{}) {
	entry.Debugf(format, args...)
}

func Info(args ...interface{}) {
	entry.Info(args...)
}

func Infof(format string, args ...interface{}) {
	entry.Infof(format, args...)
}

func Warn(args ...interface{}) {
	entry.Warn(args...)
}

func Error(args ...interface{}) {
	entry.Error(args...)
}

func Errorf(format string, args ...interface{}) {
	entry.Errorf(format, args...)
}

func Fatal(args ...interface{}) {
	entry.Fatal(args...)
}
