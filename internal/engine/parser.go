package engine

import (
	"fmt"
	"strings"
)

// fileSyntax is the parse product for one source file: the flattened symbol
// list in declaration order, every by-name reference, and non-fatal errors.
type fileSyntax struct {
	symbols []*Symbol
	refs    []Reference
	errors  []ParseError
}

type parser struct {
	file           string
	toks           []token
	i              int
	lastEnd        Position
	lastComment    string
	lastCommentIdx int
	out            *fileSyntax
}

func parseFile(path, src string) *fileSyntax {
	p := &parser{
		file:           path,
		toks:           scan(src),
		lastCommentIdx: -1,
		out:            &fileSyntax{},
	}
	p.parseMembers("", nil, true)
	return p.out
}

// tok returns the current token, skipping over comments and remembering the
// most recent one for doc attachment.
func (p *parser) tok() token {
	for p.toks[p.i].kind == tokenComment {
		p.lastComment = p.toks[p.i].text
		p.lastCommentIdx = p.i
		p.i++
	}
	return p.toks[p.i]
}

func (p *parser) advance() token {
	t := p.tok()
	if t.kind != tokenEOF {
		p.lastEnd = t.end()
		p.i++
	}
	return t
}

func (p *parser) errorf(pos Position, format string, args ...interface{}) {
	p.out.errors = append(p.out.errors, ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// sync skips ahead to the next member boundary after a syntax error.
func (p *parser) sync() {
	for {
		switch p.tok().kind {
		case tokenSemi:
			p.advance()
			return
		case tokenRBrace, tokenEOF:
			return
		default:
			p.advance()
		}
	}
}

func (p *parser) expectIdent() (token, bool) {
	t := p.tok()
	if t.kind != tokenIdent {
		p.errorf(t.pos, "expected name, found %q", t.text)
		return t, false
	}
	return p.advance(), true
}

// parseQName consumes a possibly qualified name (A::B::C), returning the
// joined text and the position of its first segment. A trailing ::* wildcard
// is folded away.
func (p *parser) parseQName() (string, Position, bool) {
	first, ok := p.expectIdent()
	if !ok {
		return "", first.pos, false
	}
	parts := []string{first.text}
	for p.tok().kind == tokenQSep {
		p.advance()
		if p.tok().kind == tokenStar {
			p.advance()
			break
		}
		seg, ok := p.expectIdent()
		if !ok {
			return strings.Join(parts, "::"), first.pos, false
		}
		parts = append(parts, seg.text)
	}
	return strings.Join(parts, "::"), first.pos, true
}

var defKinds = map[string]SymbolKind{
	"part":      KindPartDef,
	"item":      KindItemDef,
	"port":      KindPortDef,
	"action":    KindActionDef,
	"attribute": KindAttributeDef,
}

var usageKinds = map[string]SymbolKind{
	"part":      KindPartUsage,
	"item":      KindItemUsage,
	"port":      KindPortUsage,
	"action":    KindActionUsage,
	"attribute": KindAttributeUsage,
}

// parseMembers parses the body of owner until the matching closing brace, or
// the whole file when topLevel is set.
func (p *parser) parseMembers(owner string, ownerSym *Symbol, topLevel bool) {
	for {
		t := p.tok()
		switch t.kind {
		case tokenEOF:
			if !topLevel {
				p.errorf(t.pos, "unexpected end of file, expected %q", "}")
			}
			return
		case tokenRBrace:
			if topLevel {
				p.errorf(t.pos, "unexpected %q", "}")
				p.advance()
				continue
			}
			p.advance()
			return
		case tokenIdent:
			switch t.text {
			case "package":
				p.parsePackage(owner)
			case "import":
				p.parseImport(owner)
			case "doc":
				p.parseDoc(ownerSym)
			case "part", "item", "port", "action", "attribute":
				p.parseTypedMember(owner, t.text)
			default:
				p.errorf(t.pos, "unexpected %q", t.text)
				p.advance()
				p.sync()
			}
		default:
			p.errorf(t.pos, "unexpected %q", t.text)
			p.advance()
			p.sync()
		}
	}
}

func (p *parser) parsePackage(owner string) {
	kw := p.advance()
	name, ok := p.expectIdent()
	if !ok {
		p.sync()
		return
	}
	sym := p.addSymbol(KindPackage, owner, name.text, kw)
	switch p.tok().kind {
	case tokenLBrace:
		p.advance()
		p.parseMembers(sym.QualifiedName, sym, false)
	case tokenSemi:
		p.advance()
	default:
		p.errorf(p.tok().pos, "expected %q or %q after package name", "{", ";")
		p.sync()
	}
	sym.End = p.lastEnd
}

func (p *parser) parseImport(owner string) {
	p.advance()
	name, pos, ok := p.parseQName()
	if !ok {
		p.sync()
		return
	}
	p.out.refs = append(p.out.refs, Reference{
		Name:    name,
		Scope:   owner,
		File:    p.file,
		Pos:     pos,
		Context: RefImport,
	})
	if p.tok().kind == tokenSemi {
		p.advance()
	} else {
		p.errorf(p.tok().pos, "expected %q after import", ";")
		p.sync()
	}
}

// parseDoc attaches a doc body to the enclosing symbol.
func (p *parser) parseDoc(ownerSym *Symbol) {
	p.advance()
	if p.toks[p.i].kind == tokenComment {
		if ownerSym != nil {
			ownerSym.Doc = p.toks[p.i].text
		}
		p.i++
		return
	}
	p.errorf(p.tok().pos, "expected comment body after %q", "doc")
	p.sync()
}

// parseTypedMember handles both definitions (part def X) and usages
// (part p : X) for the element keywords.
func (p *parser) parseTypedMember(owner, keyword string) {
	kw := p.advance()
	isDef := false
	if t := p.tok(); t.kind == tokenIdent && t.text == "def" {
		p.advance()
		isDef = true
	}
	name, ok := p.expectIdent()
	if !ok {
		p.sync()
		return
	}
	kind := usageKinds[keyword]
	if isDef {
		kind = defKinds[keyword]
	}
	sym := p.addSymbol(kind, owner, name.text, kw)

	// usage typing: part p : Engine
	if !isDef && p.tok().kind == tokenColon {
		p.advance()
		ref, pos, ok := p.parseQName()
		if !ok {
			p.sync()
			return
		}
		sym.TypeRef = ref
		p.out.refs = append(p.out.refs, Reference{
			Name: ref, Scope: owner, File: p.file, Pos: pos, Context: RefTyping,
		})
	}

	// specialization: :> General or "specializes General"
	t := p.tok()
	if t.kind == tokenSpecializes || (t.kind == tokenIdent && t.text == "specializes") {
		p.advance()
		for {
			ref, pos, ok := p.parseQName()
			if !ok {
				p.sync()
				return
			}
			sym.Supertypes = append(sym.Supertypes, ref)
			p.out.refs = append(p.out.refs, Reference{
				Name: ref, Scope: owner, File: p.file, Pos: pos, Context: RefSpecialization,
			})
			if p.tok().kind != tokenComma {
				break
			}
			p.advance()
		}
	}

	switch p.tok().kind {
	case tokenLBrace:
		p.advance()
		p.parseMembers(sym.QualifiedName, sym, false)
	case tokenSemi:
		p.advance()
	default:
		p.errorf(p.tok().pos, "expected %q or %q after %s", "{", ";", keyword)
		p.sync()
	}
	sym.End = p.lastEnd
}

func (p *parser) addSymbol(kind SymbolKind, owner, name string, kw token) *Symbol {
	qualified := name
	if owner != "" {
		qualified = owner + "::" + name
	}
	sym := &Symbol{
		Name:          name,
		QualifiedName: qualified,
		Kind:          kind,
		File:          p.file,
		Start:         kw.pos,
		End:           p.lastEnd,
	}
	// a block comment directly before the keyword documents the symbol
	if p.lastCommentIdx >= 0 && p.lastCommentIdx == kw.index-1 && p.lastComment != "" {
		sym.Doc = p.lastComment
		p.lastComment = ""
		p.lastCommentIdx = -1
	}
	p.out.symbols = append(p.out.symbols, sym)
	return sym
}
