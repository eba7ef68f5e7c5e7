package workspace

import (
	"context"
	"strings"

	"github.com/sysmlkit/sysmlkit/internal/engine"
)

type phase int

const (
	phaseEmpty phase = iota
	phaseLoading
	phaseIndexed
)

// Coordinator owns the analysis host through its lifecycle and enforces the
// load → reindex → query ordering. Querying before reindexing is a
// programming error and panics.
type Coordinator struct {
	cfg        *Config
	host       *engine.Host
	loader     *Loader
	resolver   *StdlibResolver
	stdlibRoot string
	phase      phase
}

func New(cfg *Config) *Coordinator {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.init()
	return &Coordinator{
		cfg:      cfg,
		host:     engine.NewHost(),
		loader:   NewLoader(cfg.Logger, cfg.Status),
		resolver: NewStdlibResolver(),
	}
}

func (c *Coordinator) Config() *Config {
	return c.cfg
}

// LoadStdlib resolves and loads the standard library when enabled. A missing
// default library is advisory only; a missing explicit path is fatal.
func (c *Coordinator) LoadStdlib(ctx context.Context) error {
	if !c.cfg.LoadStdlib {
		return nil
	}
	c.cfg.Logger.Debug("loading standard library")
	root, err := c.resolver.Resolve(ctx, c.cfg.StdlibPath)
	if err != nil {
		return err
	}
	if root == "" {
		c.cfg.Logger.Debug("standard library not found")
		return nil
	}
	c.stdlibRoot = root
	c.phase = phaseLoading
	return c.loader.LoadDirectory(ctx, c.host, root)
}

// StdlibRoot returns the resolved standard-library directory, if any.
func (c *Coordinator) StdlibRoot() string {
	return c.stdlibRoot
}

// IsStdlibFile reports whether a loaded path belongs to the standard library.
func (c *Coordinator) IsStdlibFile(path string) bool {
	if c.stdlibRoot != "" && strings.HasPrefix(path, c.stdlibRoot) {
		return true
	}
	return strings.Contains(path, "sysml.library")
}

// LoadPath loads the user input, a recognized file or a directory.
func (c *Coordinator) LoadPath(ctx context.Context, input string) error {
	c.phase = phaseLoading
	return c.loader.Load(ctx, c.host, input)
}

// AddModelSymbols registers synthesized symbols from an imported document.
func (c *Coordinator) AddModelSymbols(symbols []*engine.Symbol) {
	c.phase = phaseLoading
	c.host.AddModelSymbols(symbols)
}

// Reindex recomputes the symbol index; idempotent between loads.
func (c *Coordinator) Reindex() {
	c.host.Reindex()
	c.phase = phaseIndexed
}

func (c *Coordinator) ensureIndexed() {
	if c.phase != phaseIndexed {
		panic("workspace: query before reindex")
	}
}

// Summary returns the loaded file count and total symbol count.
func (c *Coordinator) Summary() (fileCount, symbolCount int) {
	c.ensureIndexed()
	return c.host.FileCount(), c.host.Index().SymbolCount()
}

// Index exposes the post-index symbol table.
func (c *Coordinator) Index() *engine.SymbolIndex {
	c.ensureIndexed()
	return c.host.Index()
}

// Files returns loaded paths in load order.
func (c *Coordinator) Files() []string {
	return c.host.Files()
}
