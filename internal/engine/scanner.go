package engine

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenLBrace
	tokenRBrace
	tokenSemi
	tokenColon
	tokenSpecializes // :>
	tokenQSep        // ::
	tokenComma
	tokenStar
	tokenComment // block comment, kept for doc attachment
	tokenIllegal
)

type token struct {
	kind  tokenKind
	text  string
	pos   Position
	index int
}

// end returns the position just past the token text on its starting line.
func (t token) end() Position {
	return Position{Line: t.pos.Line, Col: t.pos.Col + utf8.RuneCountInString(t.text)}
}

// scan tokenizes the whole source. Line comments are dropped, block comments
// are kept as tokens so the parser can attach doc bodies.
func scan(src string) []token {
	var tokens []token
	line, col := 0, 0
	i := 0
	n := len(src)

	advance := func(r rune, size int) {
		if r == '\n' {
			line++
			col = 0
		} else {
			col++
		}
		i += size
	}

	for i < n {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			advance(r, size)
		case r == '/' && i+1 < n && src[i+1] == '/':
			for i < n && src[i] != '\n' {
				c, cs := utf8.DecodeRuneInString(src[i:])
				advance(c, cs)
			}
		case r == '/' && i+1 < n && src[i+1] == '*':
			start := Position{Line: line, Col: col}
			var body strings.Builder
			advance('/', 1)
			advance('*', 1)
			for i < n {
				if src[i] == '*' && i+1 < n && src[i+1] == '/' {
					advance('*', 1)
					advance('/', 1)
					break
				}
				c, cs := utf8.DecodeRuneInString(src[i:])
				body.WriteRune(c)
				advance(c, cs)
			}
			tokens = append(tokens, token{kind: tokenComment, text: strings.TrimSpace(body.String()), pos: start})
		case r == '{':
			tokens = append(tokens, token{kind: tokenLBrace, text: "{", pos: Position{line, col}})
			advance(r, size)
		case r == '}':
			tokens = append(tokens, token{kind: tokenRBrace, text: "}", pos: Position{line, col}})
			advance(r, size)
		case r == ';':
			tokens = append(tokens, token{kind: tokenSemi, text: ";", pos: Position{line, col}})
			advance(r, size)
		case r == ',':
			tokens = append(tokens, token{kind: tokenComma, text: ",", pos: Position{line, col}})
			advance(r, size)
		case r == '*':
			tokens = append(tokens, token{kind: tokenStar, text: "*", pos: Position{line, col}})
			advance(r, size)
		case r == ':':
			pos := Position{line, col}
			advance(r, size)
			if i < n && src[i] == ':' {
				advance(':', 1)
				tokens = append(tokens, token{kind: tokenQSep, text: "::", pos: pos})
			} else if i < n && src[i] == '>' {
				advance('>', 1)
				tokens = append(tokens, token{kind: tokenSpecializes, text: ":>", pos: pos})
			} else {
				tokens = append(tokens, token{kind: tokenColon, text: ":", pos: pos})
			}
		case isIdentStart(r):
			pos := Position{line, col}
			var ident strings.Builder
			for i < n {
				c, cs := utf8.DecodeRuneInString(src[i:])
				if !isIdentPart(c) {
					break
				}
				ident.WriteRune(c)
				advance(c, cs)
			}
			tokens = append(tokens, token{kind: tokenIdent, text: ident.String(), pos: pos})
		default:
			tokens = append(tokens, token{kind: tokenIllegal, text: string(r), pos: Position{line, col}})
			advance(r, size)
		}
	}
	tokens = append(tokens, token{kind: tokenEOF, pos: Position{Line: line, Col: col}})
	for i := range tokens {
		tokens[i].index = i
	}
	return tokens
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
