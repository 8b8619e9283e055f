// Package logger builds the logrus logger shared by the CLI and the TUI.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Options struct {
	Debug bool
	JSON  bool
	Quiet bool
	Out   io.Writer
}

// New returns a logger configured from opts. LOG_MODE (quiet|debug) and
// LOG_FORMAT (json|text) override the flags.
func New(opts Options) *logrus.Logger {
	switch os.Getenv("LOG_MODE") {
	case "quiet":
		opts.Quiet, opts.Debug = true, false
	case "debug", "verbose":
		opts.Quiet, opts.Debug = false, true
	}
	switch os.Getenv("LOG_FORMAT") {
	case "json":
		opts.JSON = true
	case "text":
		opts.JSON = false
	}

	log := logrus.New()
	if opts.Out != nil {
		log.SetOutput(opts.Out)
	} else {
		log.SetOutput(os.Stderr)
	}

	switch {
	case opts.Quiet:
		log.SetLevel(logrus.ErrorLevel)
	case opts.Debug:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}

	if opts.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)
	return log
}
