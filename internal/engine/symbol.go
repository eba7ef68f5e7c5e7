package engine

// Position is a zero-based location in a source file. Reporting layers are
// responsible for converting to one-based coordinates.
type Position struct {
	Line int
	Col  int
}

// Less orders positions by line then column.
func (p Position) Less(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Col < o.Col
}

// SymbolKind classifies a named model element.
type SymbolKind string

const (
	KindPackage        SymbolKind = "Package"
	KindPartDef        SymbolKind = "PartDefinition"
	KindItemDef        SymbolKind = "ItemDefinition"
	KindPortDef        SymbolKind = "PortDefinition"
	KindActionDef      SymbolKind = "ActionDefinition"
	KindAttributeDef   SymbolKind = "AttributeDefinition"
	KindPartUsage      SymbolKind = "PartUsage"
	KindItemUsage      SymbolKind = "ItemUsage"
	KindPortUsage      SymbolKind = "PortUsage"
	KindActionUsage    SymbolKind = "ActionUsage"
	KindAttributeUsage SymbolKind = "AttributeUsage"
)

// Symbol is a named element extracted from a source file or synthesized from
// an imported model.
type Symbol struct {
	Name          string
	QualifiedName string
	Kind          SymbolKind
	File          string
	Start         Position
	End           Position
	Doc           string
	// Supertypes holds specialization targets as written in the source
	// (possibly qualified).
	Supertypes []string
	// TypeRef is the declared type of a usage, empty for definitions.
	TypeRef string
	// ElementID is an opaque stable token carried alongside the symbol.
	// It is empty until the symbol participates in an export, and is never
	// regenerated once set.
	ElementID string
	// Synthetic marks symbols created from an interchange document rather
	// than parsed from source text.
	Synthetic bool
}

// RefContext describes what kind of construct produced a name reference.
type RefContext string

const (
	RefTyping         RefContext = "typing"
	RefSpecialization RefContext = "specialization"
	RefImport         RefContext = "import"
)

// Reference is a by-name link from a source location to a model element,
// resolved against the symbol index after reindexing.
type Reference struct {
	Name    string
	Scope   string
	File    string
	Pos     Position
	Context RefContext
}

// ParseError is a non-fatal syntax problem at a source position.
type ParseError struct {
	Pos     Position
	Message string
}
