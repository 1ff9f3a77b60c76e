package quil

import "fmt"

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokIdent
	TokInt
	TokReal
	TokImaginary
	TokVariable // %name
	TokLabel    // @name
	TokString
	TokLParen
	TokRParen
	TokLBracket
	TokRBracket
	TokComma
	TokColon
	TokOperator // + - * / ^
)

var tokenNames = [...]string{
	TokEOF:       "end of line",
	TokIdent:     "identifier",
	TokInt:       "integer",
	TokReal:      "real",
	TokImaginary: "imaginary",
	TokVariable:  "variable",
	TokLabel:     "label",
	TokString:    "string",
	TokLParen:    "'('",
	TokRParen:    "')'",
	TokLBracket:  "'['",
	TokRBracket:  "']'",
	TokComma:     "','",
	TokColon:     "':'",
	TokOperator:  "operator",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is one lexeme with its 1-based source position.
type Token struct {
	Kind TokenKind
	Text string
	Line int
	Col  int
}

// cursor walks the bytes of a single source line.
type cursor struct {
	src string
	off int
}

func (c *cursor) eof() bool { return c.off >= len(c.src) }

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.src[c.off]
}

func (c *cursor) peekAt(n int) byte {
	if c.off+n >= len(c.src) {
		return 0
	}
	return c.src[c.off+n]
}

func (c *cursor) bump() byte {
	b := c.peek()
	c.off++
	return b
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_'
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentChar(b byte) bool { return isLetter(b) || isDigit(b) }

// lexLine tokenizes one line of source. Comments run from '#' to the end of the line.
func lexLine(src string, line int) ([]Token, error) {
	c := cursor{src: src}
	var toks []Token

	for !c.eof() {
		b := c.peek()
		start := c.off
		tok := Token{Line: line, Col: start + 1}

		switch {
		case b == ' ' || b == '\t' || b == '\r':
			c.bump()
			continue
		case b == '#':
			return toks, nil
		case isLetter(b):
			scanIdent(&c)
			tok.Kind = TokIdent
		case isDigit(b) || b == '.' && isDigit(c.peekAt(1)):
			tok.Kind = scanNumber(&c)
		case b == '%' || b == '@':
			c.bump()
			if !isLetter(c.peek()) {
				return nil, &ParseError{Line: line, Column: start + 1, Message: fmt.Sprintf("expected a name after %q", b)}
			}
			scanIdent(&c)
			tok.Kind = TokVariable
			if b == '@' {
				tok.Kind = TokLabel
			}
			tok.Text = src[start+1 : c.off]
			toks = append(toks, tok)
			continue
		case b == '"':
			text, err := scanString(&c, line)
			if err != nil {
				return nil, err
			}
			tok.Kind = TokString
			tok.Text = text
			toks = append(toks, tok)
			continue
		default:
			kind, ok := punctuation[b]
			if !ok {
				return nil, &ParseError{Line: line, Column: start + 1, Message: fmt.Sprintf("unexpected character %q", b)}
			}
			c.bump()
			tok.Kind = kind
		}

		tok.Text = src[start:c.off]
		toks = append(toks, tok)
	}
	return toks, nil
}

var punctuation = map[byte]TokenKind{
	'(': TokLParen,
	')': TokRParen,
	'[': TokLBracket,
	']': TokRBracket,
	',': TokComma,
	':': TokColon,
	'+': TokOperator,
	'-': TokOperator,
	'*': TokOperator,
	'/': TokOperator,
	'^': TokOperator,
}

// scanIdent consumes an identifier. A '-' belongs to the identifier only when
// a letter follows it, so JUMP-WHEN is one token and theta-1 is three.
func scanIdent(c *cursor) {
	for !c.eof() {
		b := c.peek()
		if isIdentChar(b) || b == '-' && isLetter(c.peekAt(1)) {
			c.bump()
			continue
		}
		break
	}
}

func scanNumber(c *cursor) TokenKind {
	kind := TokInt
	for isDigit(c.peek()) {
		c.bump()
	}
	if c.peek() == '.' {
		kind = TokReal
		c.bump()
		for isDigit(c.peek()) {
			c.bump()
		}
	}
	if b := c.peek(); b == 'e' || b == 'E' {
		next := c.peekAt(1)
		if isDigit(next) || (next == '+' || next == '-') && isDigit(c.peekAt(2)) {
			kind = TokReal
			c.bump()
			if next == '+' || next == '-' {
				c.bump()
			}
			for isDigit(c.peek()) {
				c.bump()
			}
		}
	}
	if c.peek() == 'i' && !isIdentChar(c.peekAt(1)) {
		c.bump()
		kind = TokImaginary
	}
	return kind
}

func scanString(c *cursor, line int) (string, error) {
	start := c.off
	c.bump()
	var out []byte
	for !c.eof() {
		b := c.bump()
		switch b {
		case '"':
			return string(out), nil
		case '\\':
			if c.eof() {
				break
			}
			out = append(out, c.bump())
		default:
			out = append(out, b)
		}
	}
	return "", &ParseError{Line: line, Column: start + 1, Message: "unterminated string"}
}
