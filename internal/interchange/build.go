package interchange

import (
	"strings"

	"github.com/google/uuid"

	"github.com/sysmlkit/sysmlkit/internal/engine"
)

// BuildOptions control the symbol-to-model traversal.
type BuildOptions struct {
	// SelfContained inlines standard-library elements so the document has no
	// external reference targets.
	SelfContained bool
	// IsStdlib classifies a source path as standard library; nil means no
	// file is.
	IsStdlib func(path string) bool
}

// FromSymbols materializes one element record per indexed symbol, traversing
// in global declaration order. A symbol that already carries an element
// identifier keeps it; otherwise a fresh one is minted and attached to the
// symbol, which is what makes a later export of the same state
// identifier-stable.
func FromSymbols(index *engine.SymbolIndex, opts BuildOptions) *Model {
	isStdlib := opts.IsStdlib
	if isStdlib == nil {
		isStdlib = func(string) bool { return false }
	}
	symbols := index.AllSymbols()
	for _, sym := range symbols {
		if sym.ElementID == "" {
			sym.ElementID = uuid.NewString()
		}
	}

	model := &Model{}
	for _, sym := range symbols {
		stdlib := !sym.Synthetic && sym.File != "" && isStdlib(sym.File)
		if stdlib && !opts.SelfContained {
			// excluded from the record set; references still point at its ID
			continue
		}
		el := &Element{
			ID:            sym.ElementID,
			Kind:          string(sym.Kind),
			Name:          sym.Name,
			QualifiedName: sym.QualifiedName,
			Provenance:    ProvenanceSource,
		}
		if stdlib {
			el.Provenance = ProvenanceSelfContained
		}
		scope := parentScope(sym.QualifiedName)
		if owner := index.Lookup(scope); owner != nil {
			el.Owner = owner.ElementID
		}
		if sym.TypeRef != "" {
			if target := index.Resolve(sym.TypeRef, scope); target != nil {
				el.Type = target.ElementID
			}
		}
		for _, super := range sym.Supertypes {
			if target := index.Resolve(super, scope); target != nil {
				el.Supertypes = append(el.Supertypes, target.ElementID)
			}
		}
		model.Add(el)
	}
	model.rebuildRelationships()
	return model
}

// Symbols synthesizes engine symbols from a document for import-workspace.
// Element identifiers from the document are carried over verbatim, never
// regenerated.
func Symbols(model *Model) []*engine.Symbol {
	symbols := make([]*engine.Symbol, 0, len(model.Elements))
	for _, el := range model.Elements {
		sym := &engine.Symbol{
			Name:          el.Name,
			QualifiedName: el.QualifiedName,
			Kind:          engine.SymbolKind(el.Kind),
			ElementID:     el.ID,
		}
		if el.Type != "" {
			if target := model.Element(el.Type); target != nil {
				sym.TypeRef = target.QualifiedName
			}
		}
		for _, super := range el.Supertypes {
			if target := model.Element(super); target != nil {
				sym.Supertypes = append(sym.Supertypes, target.QualifiedName)
			}
		}
		symbols = append(symbols, sym)
	}
	return symbols
}

func parentScope(qualified string) string {
	if i := strings.LastIndex(qualified, "::"); i >= 0 {
		return qualified[:i]
	}
	return ""
}
