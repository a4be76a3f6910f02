package filter

// Filterable supplies metadata values by property name to the
// evaluator. Missing keys must yield Null, never an error.
type Filterable interface {
	Get(name string) Value
}

// Eval tree-walks expr against provider, returning the resulting
// Value. Evaluation is infallible by contract: it never returns an
// error, only values, whose truthiness the caller interprets.
func Eval(expr *Expr, provider Filterable) Value {
	switch expr.Kind {
	case NodeLiteral:
		return expr.Literal
	case NodeProperty:
		return provider.Get(expr.Property)
	case NodeUnary:
		operand := Eval(expr.Operand, provider)
		switch expr.UnaryOp {
		case OpNot:
			return Bool(!operand.IsTruthy())
		default:
			return Null
		}
	case NodeBinary:
		left := Eval(expr.Left, provider)
		right := Eval(expr.Right, provider)
		return evalBinary(left, expr.BinOp, right)
	case NodeLogical:
		left := Eval(expr.Left, provider)
		switch expr.LogicalOp {
		case OpAnd:
			if !left.IsTruthy() {
				return left
			}
			return Eval(expr.Right, provider)
		case OpOr:
			if left.IsTruthy() {
				return left
			}
			return Eval(expr.Right, provider)
		default:
			return Null
		}
	default:
		return Null
	}
}

func evalBinary(left Value, op BinOp, right Value) Value {
	switch op {
	case OpEq:
		return Bool(left.Equal(right))
	case OpNotEq:
		return Bool(!left.Equal(right))
	case OpContains:
		return Bool(left.Contains(right))
	case OpIn:
		return Bool(right.Contains(left))
	case OpStartsWith:
		return Bool(left.StartsWith(right))
	case OpEndsWith:
		return Bool(left.EndsWith(right))
	case OpGt, OpGtEq, OpLt, OpLtEq:
		less, ok := left.Less(right)
		if !ok {
			if eq := left.Equal(right); eq && (op == OpGtEq || op == OpLtEq) {
				return Bool(true)
			}
			return Bool(false)
		}
		eq := left.Equal(right)
		switch op {
		case OpGt:
			return Bool(!less && !eq)
		case OpGtEq:
			return Bool(!less || eq)
		case OpLt:
			return Bool(less)
		case OpLtEq:
			return Bool(less || eq)
		}
		return Bool(false)
	default:
		return Bool(false)
	}
}
