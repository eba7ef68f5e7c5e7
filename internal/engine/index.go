package engine

import (
	"fmt"
	"strings"
)

// SymbolIndex is the queryable table of named elements built by Reindex.
type SymbolIndex struct {
	all         []*Symbol
	byQualified map[string][]*Symbol
	bySimple    map[string][]*Symbol
	byFile      map[string][]*Symbol
	refsByFile  map[string][]Reference
}

func (x *SymbolIndex) add(sym *Symbol) {
	x.all = append(x.all, sym)
	x.byQualified[sym.QualifiedName] = append(x.byQualified[sym.QualifiedName], sym)
	x.bySimple[sym.Name] = append(x.bySimple[sym.Name], sym)
	if sym.File != "" {
		x.byFile[sym.File] = append(x.byFile[sym.File], sym)
	}
}

// AllSymbols returns every indexed symbol in global declaration order:
// files in load order, declarations in source order, synthesized symbols last.
func (x *SymbolIndex) AllSymbols() []*Symbol {
	return x.all
}

func (x *SymbolIndex) SymbolCount() int {
	return len(x.all)
}

// SymbolsInFile returns the symbols declared in one file, in source order.
func (x *SymbolIndex) SymbolsInFile(path string) []*Symbol {
	return x.byFile[path]
}

// Lookup resolves an exact qualified name.
func (x *SymbolIndex) Lookup(qualifiedName string) *Symbol {
	if syms := x.byQualified[qualifiedName]; len(syms) > 0 {
		return syms[0]
	}
	return nil
}

func parentScope(scope string) string {
	if i := strings.LastIndex(scope, "::"); i >= 0 {
		return scope[:i]
	}
	return ""
}

// Resolve looks a name up from the given scope outwards, then absolutely,
// then falls back to an unqualified global match so root library packages
// resolve by simple name without an import.
func (x *SymbolIndex) Resolve(name, scope string) *Symbol {
	for s := scope; ; s = parentScope(s) {
		qualified := name
		if s != "" {
			qualified = s + "::" + name
		}
		if syms := x.byQualified[qualified]; len(syms) > 0 {
			return syms[0]
		}
		if s == "" {
			break
		}
	}
	if !strings.Contains(name, "::") {
		if syms := x.bySimple[name]; len(syms) > 0 {
			return syms[0]
		}
	}
	return nil
}

// CheckFile computes the analysis diagnostics for one file: duplicate
// qualified names and unresolved references. Positions stay zero-based.
func (x *SymbolIndex) CheckFile(path string) []Diagnostic {
	var diags []Diagnostic
	for _, sym := range x.byFile[path] {
		owners := x.byQualified[sym.QualifiedName]
		if len(owners) > 1 && owners[0] != sym {
			diags = append(diags, Diagnostic{
				File:     path,
				Start:    sym.Start,
				End:      sym.End,
				Message:  fmt.Sprintf("duplicate definition of '%s'", sym.QualifiedName),
				Severity: SeverityWarning,
				Code:     CodeDuplicateDefinition,
			})
		}
	}
	for _, ref := range x.refsByFile[path] {
		if x.Resolve(ref.Name, ref.Scope) != nil {
			continue
		}
		end := Position{Line: ref.Pos.Line, Col: ref.Pos.Col + len(ref.Name)}
		if ref.Context == RefImport {
			diags = append(diags, Diagnostic{
				File:     path,
				Start:    ref.Pos,
				End:      end,
				Message:  fmt.Sprintf("unresolved import '%s'", ref.Name),
				Severity: SeverityError,
				Code:     CodeUnresolvedImport,
			})
			continue
		}
		diags = append(diags, Diagnostic{
			File:     path,
			Start:    ref.Pos,
			End:      end,
			Message:  fmt.Sprintf("unresolved reference '%s'", ref.Name),
			Severity: SeverityError,
			Code:     CodeUnresolvedReference,
		})
	}
	return diags
}
