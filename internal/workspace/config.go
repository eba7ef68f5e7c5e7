package workspace

import (
	"io"
	"log/slog"
	"os"
)

// Config controls a single analysis run.
type Config struct {
	// Verbose enables progress reporting on the status stream.
	Verbose bool
	// LoadStdlib controls whether the standard library is loaded before input.
	LoadStdlib bool
	// StdlibPath overrides the default standard-library candidates. If set,
	// the path must exist.
	StdlibPath string
	// SelfContained inlines standard-library elements into exports.
	SelfContained bool
	// Logger receives progress output; defaults to a text handler on stderr.
	Logger *slog.Logger
	// Status receives parse-error lines; defaults to stderr.
	Status io.Writer
}

func (c *Config) init() {
	if c.Logger == nil {
		level := slog.LevelInfo
		if c.Verbose {
			level = slog.LevelDebug
		}
		c.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	if c.Status == nil {
		c.Status = os.Stderr
	}
}
