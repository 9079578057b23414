package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/sweeper/internal/config"
)

func level(c *config.Config) logrus.Level {
	if c.Development() {
		return logrus.DebugLevel
	}
	return logrus.InfoLevel
}

// NewConsole logs to stderr, as the server does.
func NewConsole(c *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level(c))
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:   c.Development(),
		FullTimestamp: true,
	})
	return log
}

// NewFile logs only to a size-rotated file, leaving the terminal to the
// game.
func NewFile(c *config.Config) (*logrus.Logger, error) {
	lvl := level(c)
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   c.Log.File,
		MaxSize:    c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAgeDays,
		Level:      lvl,
		Formatter: &logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		},
	})
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(lvl)
	log.AddHook(hook)
	return log, nil
}

// Share points package loggers at log so that all output follows one
// configuration.
func Share(log *logrus.Logger, pkgLoggers ...*logrus.Logger) {
	for _, l := range pkgLoggers {
		l.SetOutput(log.Out)
		l.SetLevel(log.Level)
		l.SetFormatter(log.Formatter)
		l.ReplaceHooks(log.Hooks)
	}
}
