package filter

import (
	"strconv"

	"github.com/SierraSoftworks/ghbackup/cmnerr"
)

// Parser is a precedence-climbing recursive-descent parser over the
// filter grammar. It consumes the full token stream produced by
// a Lexer and is not restartable.
type Parser struct {
	lex      *Lexer
	lookhead *Token
}

// NewParser constructs a Parser reading tokens from lex.
func NewParser(lex *Lexer) *Parser {
	return &Parser{lex: lex}
}

func (p *Parser) peek() (Token, error) {
	if p.lookhead != nil {
		return *p.lookhead, nil
	}
	t, err := p.lex.Next()
	if err != nil {
		return Token{}, err
	}
	p.lookhead = &t
	return t, nil
}

func (p *Parser) pop() (Token, error) {
	t, err := p.peek()
	if err != nil {
		return Token{}, err
	}
	p.lookhead = nil
	return t, nil
}

// Parse parses the whole token stream into an Expr. Trailing tokens
// after a complete expression are a user error.
func Parse(src string) (*Expr, error) {
	p := NewParser(NewLexer(src))
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	last, err := p.peek()
	if err != nil {
		return nil, err
	}
	if last.Kind != TokEOF {
		return nil, cmnerr.User("unexpected trailing token '"+last.Lexeme()+"'", last.At.String())
	}
	return expr, nil
}

func (p *Parser) parseOr() (*Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		if t.Kind != TokOrOr {
			return left, nil
		}
		p.pop()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = logExpr(left, OpOr, right)
	}
}

func (p *Parser) parseAnd() (*Expr, error) {
	left, err := p.parseEqual()
	if err != nil {
		return nil, err
	}
	for {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		if t.Kind != TokAndAnd {
			return left, nil
		}
		p.pop()
		right, err := p.parseEqual()
		if err != nil {
			return nil, err
		}
		left = logExpr(left, OpAnd, right)
	}
}

func (p *Parser) parseEqual() (*Expr, error) {
	left, err := p.parseCmp()
	if err != nil {
		return nil, err
	}
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	var op BinOp
	switch t.Kind {
	case TokEqEq:
		op = OpEq
	case TokNotEq:
		op = OpNotEq
	default:
		return left, nil
	}
	p.pop()
	right, err := p.parseCmp()
	if err != nil {
		return nil, err
	}
	return binExpr(left, op, right), nil
}

func (p *Parser) parseCmp() (*Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	var op BinOp
	switch t.Kind {
	case TokContains:
		op = OpContains
	case TokIn:
		op = OpIn
	case TokStartsWith:
		op = OpStartsWith
	case TokEndsWith:
		op = OpEndsWith
	case TokGt:
		op = OpGt
	case TokGtEq:
		op = OpGtEq
	case TokLt:
		op = OpLt
	case TokLtEq:
		op = OpLtEq
	default:
		return left, nil
	}
	p.pop()
	right, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return binExpr(left, op, right), nil
}

func (p *Parser) parseUnary() (*Expr, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.Kind == TokBang {
		p.pop()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryExpr(OpNot, operand), nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (*Expr, error) {
	t, err := p.pop()
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case TokTrue:
		return litExpr(Bool(true)), nil
	case TokFalse:
		return litExpr(Bool(false)), nil
	case TokNull:
		return litExpr(Null), nil
	case TokString:
		return litExpr(String(t.Text)), nil
	case TokNumber:
		n, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			return nil, cmnerr.User("invalid number literal '"+t.Text+"'", t.At.String()).WithCause(err)
		}
		return litExpr(Number(n)), nil
	case TokProperty:
		return propExpr(t.Text), nil
	case TokLParen:
		openAt := t.At
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		closing, err := p.pop()
		if err != nil {
			return nil, err
		}
		if closing.Kind != TokRParen {
			return nil, cmnerr.User("missing closing ')'", openAt.String())
		}
		return inner, nil
	case TokLBracket:
		openAt := t.At
		var elems []Value
		n, err := p.peek()
		if err != nil {
			return nil, err
		}
		if n.Kind != TokRBracket {
			for {
				elemExpr, err := p.parsePrimary()
				if err != nil {
					return nil, err
				}
				if elemExpr.Kind != NodeLiteral {
					return nil, cmnerr.User("list literals may only contain literal values", t.At.String())
				}
				elems = append(elems, elemExpr.Literal)
				sep, err := p.peek()
				if err != nil {
					return nil, err
				}
				if sep.Kind == TokComma {
					p.pop()
					after, err := p.peek()
					if err != nil {
						return nil, err
					}
					if after.Kind == TokRBracket {
						break
					}
					continue
				}
				break
			}
		}
		closing, err := p.pop()
		if err != nil {
			return nil, err
		}
		if closing.Kind != TokRBracket {
			return nil, cmnerr.User("missing closing ']'", openAt.String())
		}
		return litExpr(Tuple(elems...)), nil
	case TokEOF:
		return nil, cmnerr.User("unexpected end of input, expected an expression", t.At.String())
	default:
		return nil, cmnerr.User("unexpected token '"+t.Lexeme()+"', expected an expression", t.At.String())
	}
}
