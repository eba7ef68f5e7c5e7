package report

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/sysmlkit/sysmlkit/internal/engine"
	"github.com/sysmlkit/sysmlkit/internal/workspace"
)

// ASTSymbol is the per-symbol record of the AST export.
type ASTSymbol struct {
	Name          string   `json:"name"`
	QualifiedName string   `json:"qualified_name"`
	Kind          string   `json:"kind"`
	File          string   `json:"file"`
	StartLine     int      `json:"start_line"`
	StartCol      int      `json:"start_col"`
	EndLine       int      `json:"end_line"`
	EndCol        int      `json:"end_col"`
	Doc           string   `json:"doc,omitempty"`
	Supertypes    []string `json:"supertypes,omitempty"`
	Hash          uint64   `json:"hash"`
}

// FileAST lists the symbols of one source file.
type FileAST struct {
	Path    string      `json:"path"`
	Symbols []ASTSymbol `json:"symbols"`
}

// ASTExport is the whole-run AST export, files sorted by path.
type ASTExport struct {
	Files []FileAST `json:"files"`
}

// CollectAST exports the symbol table per user file. Standard-library files
// are excluded.
func CollectAST(c *workspace.Coordinator) *ASTExport {
	index := c.Index()
	export := &ASTExport{Files: []FileAST{}}
	for _, path := range c.Files() {
		if c.IsStdlibFile(path) {
			continue
		}
		file := FileAST{Path: path, Symbols: []ASTSymbol{}}
		for _, sym := range index.SymbolsInFile(path) {
			file.Symbols = append(file.Symbols, fromSymbol(sym))
		}
		export.Files = append(export.Files, file)
	}
	sort.Slice(export.Files, func(i, j int) bool {
		return export.Files[i].Path < export.Files[j].Path
	})
	return export
}

func fromSymbol(sym *engine.Symbol) ASTSymbol {
	fingerprint := strings.Join(append([]string{
		sym.QualifiedName, string(sym.Kind), sym.TypeRef}, sym.Supertypes...), "\x00")
	return ASTSymbol{
		Name:          sym.Name,
		QualifiedName: sym.QualifiedName,
		Kind:          string(sym.Kind),
		File:          sym.File,
		StartLine:     sym.Start.Line + 1,
		StartCol:      sym.Start.Col + 1,
		EndLine:       sym.End.Line + 1,
		EndCol:        sym.End.Col + 1,
		Doc:           sym.Doc,
		Supertypes:    sym.Supertypes,
		Hash:          engine.Digest([]byte(fingerprint)),
	}
}

// JSON serializes the AST export.
func (a *ASTExport) JSON() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}
