package workspace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"

	"github.com/sysmlkit/sysmlkit/internal/engine"
)

// sourceExtensions are the recognized model source-file extensions.
var sourceExtensions = map[string]bool{
	".sysml": true,
	".kerml": true,
}

// IsSourceFile reports whether a path carries a recognized source extension.
func IsSourceFile(path string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(path))]
}

// Loader reads a single file or walks a directory tree and feeds raw text
// into the analysis host. Per-file parse errors are reported on the status
// stream and never abort the run.
type Loader struct {
	fs     afs.Service
	logger *slog.Logger
	status io.Writer
}

func NewLoader(logger *slog.Logger, status io.Writer) *Loader {
	if status == nil {
		status = os.Stderr
	}
	return &Loader{fs: afs.New(), logger: logger, status: status}
}

// Load dispatches on the input kind: recognized file, directory, or missing
// path.
func (l *Loader) Load(ctx context.Context, host *engine.Host, input string) error {
	object, err := l.fs.Object(ctx, input)
	if err != nil {
		return fmt.Errorf("path does not exist: %s", input)
	}
	if object.IsDir() {
		return l.LoadDirectory(ctx, host, input)
	}
	return l.LoadFile(ctx, host, input)
}

// LoadFile reads one file and registers its content with the host.
func (l *Loader) LoadFile(ctx context.Context, host *engine.Host, path string) error {
	l.logger.Debug("loading", "file", path)
	data, err := l.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	parseErrors := host.SetFileContent(path, string(data))
	for _, parseErr := range parseErrors {
		fmt.Fprintf(l.status, "parse error: %s:%d:%d: %s\n",
			path, parseErr.Pos.Line+1, parseErr.Pos.Col+1, parseErr.Message)
	}
	return nil
}

// LoadDirectory walks a directory recursively and loads every file with a
// recognized extension, ignoring everything else. Symbolic links are
// followed; link cycles terminate on the resolved target.
func (l *Loader) LoadDirectory(ctx context.Context, host *engine.Host, dir string) error {
	return l.loadDirectory(ctx, host, dir, map[string]bool{})
}

func (l *Loader) loadDirectory(ctx context.Context, host *engine.Host, dir string, visited map[string]bool) error {
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		if visited[resolved] {
			return nil
		}
		visited[resolved] = true
	}
	l.logger.Debug("scanning directory", "dir", dir)
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return true, nil
		}
		path := filepath.Join(dir, parent, info.Name())
		if info.Mode()&os.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				return true, nil
			}
			if target.IsDir() {
				if err := l.loadDirectory(ctx, host, path, visited); err != nil {
					return false, err
				}
				return true, nil
			}
		}
		if !IsSourceFile(path) {
			return true, nil
		}
		if err := l.LoadFile(ctx, host, path); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := l.fs.Walk(ctx, dir, visitor); err != nil {
		return fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return nil
}
