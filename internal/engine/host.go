package engine

// SourceFile holds one loaded source with its parse product.
type SourceFile struct {
	Path        string
	Content     string
	ParseErrors []ParseError

	syntax *fileSyntax
}

// Host owns all loaded sources and the symbol index derived from them.
// It is single-owner state: exactly one coordinator drives it for the
// lifetime of a run.
type Host struct {
	files     map[string]*SourceFile
	order     []string
	synthetic []*Symbol
	index     *SymbolIndex
	dirty     bool
}

func NewHost() *Host {
	return &Host{files: map[string]*SourceFile{}}
}

// SetFileContent registers or overwrites a file and parses it immediately.
// Returned parse errors are non-fatal.
func (h *Host) SetFileContent(path, content string) []ParseError {
	syntax := parseFile(path, content)
	if _, seen := h.files[path]; !seen {
		h.order = append(h.order, path)
	}
	h.files[path] = &SourceFile{
		Path:        path,
		Content:     content,
		ParseErrors: syntax.errors,
		syntax:      syntax,
	}
	h.dirty = true
	return syntax.errors
}

// AddModelSymbols feeds synthesized symbols from an interchange document into
// the host. Element identifiers on the symbols are kept as-is.
func (h *Host) AddModelSymbols(symbols []*Symbol) {
	for _, sym := range symbols {
		sym.Synthetic = true
		h.synthetic = append(h.synthetic, sym)
	}
	h.dirty = true
}

func (h *Host) FileCount() int {
	return len(h.order)
}

// Files returns loaded file paths in load order.
func (h *Host) Files() []string {
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out
}

func (h *Host) File(path string) *SourceFile {
	return h.files[path]
}

// Reindex rebuilds the symbol index from the current file set. Calling it
// with no intervening load is a no-op.
func (h *Host) Reindex() {
	if !h.dirty && h.index != nil {
		return
	}
	idx := &SymbolIndex{
		byQualified: map[string][]*Symbol{},
		bySimple:    map[string][]*Symbol{},
		byFile:      map[string][]*Symbol{},
		refsByFile:  map[string][]Reference{},
	}
	for _, path := range h.order {
		file := h.files[path]
		for _, sym := range file.syntax.symbols {
			idx.add(sym)
		}
		idx.refsByFile[path] = file.syntax.refs
	}
	for _, sym := range h.synthetic {
		idx.add(sym)
	}
	h.index = idx
	h.dirty = false
}

// Index returns the current symbol index. Querying before Reindex is a
// programming error.
func (h *Host) Index() *SymbolIndex {
	if h.index == nil || h.dirty {
		panic("engine: symbol index queried before reindex")
	}
	return h.index
}
