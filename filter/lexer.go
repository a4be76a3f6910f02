package filter

import (
	"github.com/SierraSoftworks/ghbackup/cmnerr"
)

// Lexer tokenises a filter expression source string, tracking 1-based
// line/column positions. It is finite and non-restartable.
type Lexer struct {
	src    []rune
	pos    int
	line   int
	column int
}

// NewLexer constructs a Lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1, column: 1}
}

func (l *Lexer) peekRune() (rune, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos], true
}

func (l *Lexer) peekAt(offset int) (rune, bool) {
	if l.pos+offset >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos+offset], true
}

func (l *Lexer) advance() (rune, bool) {
	r, ok := l.peekRune()
	if !ok {
		return 0, false
	}
	l.pos++
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r, true
}

func (l *Lexer) here() Location {
	return Location{Line: l.line, Column: l.column}
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9') || r == '.' || r == '-'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Next returns the next token, or a user-kind *cmnerr.Error on a
// lexical error (unterminated string, stray operator character).
func (l *Lexer) Next() (Token, error) {
	for {
		r, ok := l.peekRune()
		if !ok {
			return Token{Kind: TokEOF, At: l.here()}, nil
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			l.advance()
			continue
		}
		break
	}

	at := l.here()
	r, _ := l.peekRune()

	switch {
	case r == '(':
		l.advance()
		return Token{Kind: TokLParen, At: at}, nil
	case r == ')':
		l.advance()
		return Token{Kind: TokRParen, At: at}, nil
	case r == '[':
		l.advance()
		return Token{Kind: TokLBracket, At: at}, nil
	case r == ']':
		l.advance()
		return Token{Kind: TokRBracket, At: at}, nil
	case r == ',':
		l.advance()
		return Token{Kind: TokComma, At: at}, nil
	case r == '"':
		return l.lexString(at)
	case isDigit(r):
		return l.lexNumber(at)
	case isIdentStart(r):
		return l.lexIdent(at)
	case r == '=':
		if n, ok := l.peekAt(1); ok && n == '=' {
			l.advance()
			l.advance()
			return Token{Kind: TokEqEq, At: at}, nil
		}
		l.advance()
		return Token{}, cmnerr.User("unexpected character '='", at.String()).
			WithSuggestions("did you mean '=='?")
	case r == '!':
		if n, ok := l.peekAt(1); ok && n == '=' {
			l.advance()
			l.advance()
			return Token{Kind: TokNotEq, At: at}, nil
		}
		l.advance()
		return Token{Kind: TokBang, At: at}, nil
	case r == '&':
		if n, ok := l.peekAt(1); ok && n == '&' {
			l.advance()
			l.advance()
			return Token{Kind: TokAndAnd, At: at}, nil
		}
		l.advance()
		return Token{}, cmnerr.User("unexpected character '&'", at.String()).
			WithSuggestions("did you mean '&&'?")
	case r == '|':
		if n, ok := l.peekAt(1); ok && n == '|' {
			l.advance()
			l.advance()
			return Token{Kind: TokOrOr, At: at}, nil
		}
		l.advance()
		return Token{}, cmnerr.User("unexpected character '|'", at.String()).
			WithSuggestions("did you mean '||'?")
	case r == '>':
		if n, ok := l.peekAt(1); ok && n == '=' {
			l.advance()
			l.advance()
			return Token{Kind: TokGtEq, At: at}, nil
		}
		l.advance()
		return Token{Kind: TokGt, At: at}, nil
	case r == '<':
		if n, ok := l.peekAt(1); ok && n == '=' {
			l.advance()
			l.advance()
			return Token{Kind: TokLtEq, At: at}, nil
		}
		l.advance()
		return Token{Kind: TokLt, At: at}, nil
	default:
		l.advance()
		return Token{}, cmnerr.User("unexpected character", at.String()).
			WithSuggestions("remove or escape the offending character")
	}
}

func (l *Lexer) lexString(at Location) (Token, error) {
	l.advance() // opening quote
	var buf []rune
	for {
		r, ok := l.peekRune()
		if !ok {
			return Token{}, cmnerr.User("unterminated string literal", at.String()).
				WithSuggestions("add a closing '\"'")
		}
		if r == '"' {
			l.advance()
			return Token{Kind: TokString, Text: string(buf), At: at}, nil
		}
		if r == '\\' {
			l.advance()
			esc, ok := l.peekRune()
			if !ok {
				return Token{}, cmnerr.User("unterminated string literal", at.String()).
					WithSuggestions("add a closing '\"'")
			}
			switch esc {
			case '"':
				buf = append(buf, '"')
			case '\\':
				buf = append(buf, '\\')
			default:
				buf = append(buf, '\\', esc)
			}
			l.advance()
			continue
		}
		buf = append(buf, r)
		l.advance()
	}
}

func (l *Lexer) lexNumber(at Location) (Token, error) {
	var buf []rune
	for {
		r, ok := l.peekRune()
		if !ok || !isDigit(r) {
			break
		}
		buf = append(buf, r)
		l.advance()
	}
	if r, ok := l.peekRune(); ok && r == '.' {
		if n, ok2 := l.peekAt(1); ok2 && isDigit(n) {
			buf = append(buf, r)
			l.advance()
			for {
				r, ok := l.peekRune()
				if !ok || !isDigit(r) {
					break
				}
				buf = append(buf, r)
				l.advance()
			}
		}
	}
	return Token{Kind: TokNumber, Text: string(buf), At: at}, nil
}

func (l *Lexer) lexIdent(at Location) (Token, error) {
	var buf []rune
	for {
		r, ok := l.peekRune()
		if !ok || !isIdentCont(r) {
			break
		}
		buf = append(buf, r)
		l.advance()
	}
	text := string(buf)
	if kind, ok := keywords[text]; ok {
		return Token{Kind: kind, Text: text, At: at}, nil
	}
	return Token{Kind: TokProperty, Text: text, At: at}, nil
}
