package filter

// NodeKind tags the variant of an Expr.
type NodeKind int

const (
	NodeLiteral NodeKind = iota
	NodeProperty
	NodeUnary
	NodeBinary
	NodeLogical
)

// BinOp enumerates the binary comparison/membership operators.
type BinOp int

const (
	OpEq BinOp = iota
	OpNotEq
	OpContains
	OpIn
	OpStartsWith
	OpEndsWith
	OpGt
	OpGtEq
	OpLt
	OpLtEq
)

// LogicalOp enumerates the short-circuiting logical operators.
type LogicalOp int

const (
	OpAnd LogicalOp = iota
	OpOr
)

// UnaryOp enumerates unary operators. Only negation exists today.
type UnaryOp int

const (
	OpNot UnaryOp = iota
)

// Expr is the filter expression AST: grouping parentheses are folded
// away during parsing, so Expr has no Group variant.
type Expr struct {
	Kind NodeKind

	Literal Value

	Property string

	UnaryOp UnaryOp
	Operand *Expr

	BinOp BinOp
	Left  *Expr
	Right *Expr

	LogicalOp LogicalOp
}

func litExpr(v Value) *Expr      { return &Expr{Kind: NodeLiteral, Literal: v} }
func propExpr(name string) *Expr { return &Expr{Kind: NodeProperty, Property: name} }
func unaryExpr(op UnaryOp, e *Expr) *Expr {
	return &Expr{Kind: NodeUnary, UnaryOp: op, Operand: e}
}
func binExpr(l *Expr, op BinOp, r *Expr) *Expr {
	return &Expr{Kind: NodeBinary, Left: l, BinOp: op, Right: r}
}
func logExpr(l *Expr, op LogicalOp, r *Expr) *Expr {
	return &Expr{Kind: NodeLogical, Left: l, LogicalOp: op, Right: r}
}
