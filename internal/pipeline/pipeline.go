// Package pipeline composes the workspace, report and interchange layers
// into the operations exposed by the CLI: analyze, export, import,
// import-workspace, roundtrip and decompile.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/viant/afs"

	"github.com/sysmlkit/sysmlkit/internal/interchange"
	"github.com/sysmlkit/sysmlkit/internal/report"
	"github.com/sysmlkit/sysmlkit/internal/workspace"
)

// Options configure a single run.
type Options struct {
	Verbose       bool
	LoadStdlib    bool
	StdlibPath    string
	SelfContained bool
	Logger        *slog.Logger
	Status        io.Writer
}

func (o Options) coordinator() *workspace.Coordinator {
	return workspace.New(&workspace.Config{
		Verbose:       o.Verbose,
		LoadStdlib:    o.LoadStdlib,
		StdlibPath:    o.StdlibPath,
		SelfContained: o.SelfContained,
		Logger:        o.Logger,
		Status:        o.Status,
	})
}

// prepare runs the load phase for a source input and leaves the coordinator
// indexed.
func prepare(ctx context.Context, input string, opts Options) (*workspace.Coordinator, error) {
	c := opts.coordinator()
	if err := c.LoadStdlib(ctx); err != nil {
		return nil, err
	}
	if err := c.LoadPath(ctx, input); err != nil {
		return nil, err
	}
	c.Reindex()
	return c, nil
}

// Analyze loads the input and produces the ordered diagnostic result.
func Analyze(ctx context.Context, input string, opts Options) (*report.Result, error) {
	c, err := prepare(ctx, input, opts)
	if err != nil {
		return nil, err
	}
	return report.Collect(c), nil
}

// ExportAST loads the input and serializes the per-file symbol table.
func ExportAST(ctx context.Context, input string, opts Options) ([]byte, error) {
	c, err := prepare(ctx, input, opts)
	if err != nil {
		return nil, err
	}
	return report.CollectAST(c).JSON()
}

// Export loads the input, builds the interchange document and serializes it
// in the requested format. Companion decompile metadata next to the input,
// when present, restores previously assigned element identifiers.
func Export(ctx context.Context, input, format string, opts Options) ([]byte, error) {
	target, err := interchange.ByName(format)
	if err != nil {
		return nil, err
	}
	c, err := prepare(ctx, input, opts)
	if err != nil {
		return nil, err
	}
	restoreMetadataIDs(ctx, input, c, opts)
	model := buildModel(c, opts)
	return target.Write(model)
}

// ExportFrom serializes the post-index state of an existing coordinator.
// Identifiers already carried by symbols are reused, never reminted.
func ExportFrom(c *workspace.Coordinator, format string, opts Options) ([]byte, error) {
	target, err := interchange.ByName(format)
	if err != nil {
		return nil, err
	}
	return target.Write(buildModel(c, opts))
}

func buildModel(c *workspace.Coordinator, opts Options) *interchange.Model {
	return interchange.FromSymbols(c.Index(), interchange.BuildOptions{
		SelfContained: opts.SelfContained,
		IsStdlib:      c.IsStdlibFile,
	})
}

// ImportResult summarizes a deserialized document.
type ImportResult struct {
	ElementCount      int
	RelationshipCount int
	Issues            []string
}

func readModel(ctx context.Context, input string) (*interchange.Model, interchange.Format, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", input, err)
	}
	format := interchange.Detect(input, data)
	model, err := format.Read(data)
	if err != nil {
		return nil, nil, err
	}
	return model, format, nil
}

// Import deserializes and validates a document without building workspace
// state. Dangling references are reported as issues, not as a read error.
func Import(ctx context.Context, input string) (*ImportResult, error) {
	model, _, err := readModel(ctx, input)
	if err != nil {
		return nil, err
	}
	return &ImportResult{
		ElementCount:      len(model.Elements),
		RelationshipCount: len(model.Relationships),
		Issues:            model.Validate(),
	}, nil
}

// ImportWorkspace deserializes a document into live workspace state. Every
// element identifier in the document is preserved on the synthesized
// symbols. References to elements outside the document are tolerated:
// non-self-contained exports carry library reference targets without the
// library records, and those documents must import. Validate-only Import
// reports them.
func ImportWorkspace(ctx context.Context, input string, opts Options) (*workspace.Coordinator, *ImportResult, error) {
	model, _, err := readModel(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	c := opts.coordinator()
	if err := c.LoadStdlib(ctx); err != nil {
		return nil, nil, err
	}
	c.AddModelSymbols(interchange.Symbols(model))
	c.Reindex()
	return c, &ImportResult{
		ElementCount:      len(model.Elements),
		RelationshipCount: len(model.Relationships),
	}, nil
}

// Roundtrip imports a document into a workspace and immediately re-exports
// it. The exported identifier set equals the imported one.
func Roundtrip(ctx context.Context, input, format string, opts Options) ([]byte, *ImportResult, error) {
	c, result, err := ImportWorkspace(ctx, input, opts)
	if err != nil {
		return nil, nil, err
	}
	data, err := ExportFrom(c, format, opts)
	if err != nil {
		return nil, nil, err
	}
	return data, result, nil
}

// Decompile reconstructs source text plus identifier metadata from a
// document.
func Decompile(ctx context.Context, input string) (*interchange.DecompileResult, error) {
	model, format, err := readModel(ctx, input)
	if err != nil {
		return nil, err
	}
	return interchange.Decompile(model, input, format.Name()), nil
}

// restoreMetadataIDs scans the input's directory for decompile metadata and
// reattaches recorded identifiers to matching symbols, so that decompiled
// sources export with their original identifiers.
func restoreMetadataIDs(ctx context.Context, input string, c *workspace.Coordinator, opts Options) {
	fs := afs.New()
	dir := input
	if workspace.IsSourceFile(input) {
		dir = filepath.Dir(input)
	}
	objects, err := fs.List(ctx, dir)
	if err != nil {
		return
	}
	index := c.Index()
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".metadata.json") {
			continue
		}
		data, err := fs.DownloadWithURL(ctx, filepath.Join(dir, object.Name()))
		if err != nil {
			continue
		}
		metadata, err := interchange.ParseMetadata(data)
		if err != nil {
			if opts.Logger != nil {
				opts.Logger.Debug("skipping metadata", "file", object.Name(), "err", err)
			}
			continue
		}
		restored := 0
		for _, sym := range index.AllSymbols() {
			if id, ok := metadata.Elements[sym.QualifiedName]; ok && sym.ElementID == "" {
				sym.ElementID = id
				restored++
			}
		}
		if opts.Logger != nil && restored > 0 {
			opts.Logger.Debug("restored element identifiers", "file", object.Name(), "count", restored)
		}
	}
}
