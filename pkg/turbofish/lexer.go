package turbofish

type tokenKind int

const (
	tokIllegal tokenKind = iota
	tokEOF
	tokIdent
	tokPath // ::
	tokLAngle
	tokRAngle
	tokComma
)

var tokenKindNames = map[tokenKind]string{
	tokIllegal: "illegal character",
	tokEOF:     "end of input",
	tokIdent:   "type name",
	tokPath:    "'::'",
	tokLAngle:  "'<'",
	tokRAngle:  "'>'",
	tokComma:   "','",
}

func (k tokenKind) String() string {
	return tokenKindNames[k]
}

type lexToken struct {
	kind   tokenKind
	text   string
	offset int
}

// lexer splits turbofish text into tokens. It works on bytes; any non-ASCII
// byte is illegal.
type lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
}

func newLexer(input string) *lexer {
	l := &lexer{input: input}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *lexer) next() lexToken {
	l.skipWhitespace()

	tok := lexToken{offset: l.pos}
	if l.pos >= len(l.input) {
		tok.kind = tokEOF
		return tok
	}

	switch {
	case l.ch == ':':
		if l.peekChar() != ':' {
			tok.kind, tok.text = tokIllegal, ":"
			l.readChar()
			return tok
		}
		l.readChar()
		tok.kind, tok.text = tokPath, "::"
	case l.ch == '<':
		tok.kind, tok.text = tokLAngle, "<"
	case l.ch == '>':
		tok.kind, tok.text = tokRAngle, ">"
	case l.ch == ',':
		tok.kind, tok.text = tokComma, ","
	case isIdentStart(l.ch):
		tok.kind, tok.text = tokIdent, l.readIdent()
		return tok
	default:
		tok.kind, tok.text = tokIllegal, string(l.ch)
	}
	l.readChar()
	return tok
}

func (l *lexer) readIdent() string {
	start := l.pos
	for isIdentStart(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func isIdentStart(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// IsIdent reports whether name is a type name Parse accepts: a letter or
// underscore followed by letters, digits or underscores.
func IsIdent(name string) bool {
	if name == "" || !isIdentStart(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isIdentStart(name[i]) && !isDigit(name[i]) {
			return false
		}
	}
	return true
}
