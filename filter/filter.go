package filter

import "gopkg.in/yaml.v3"

// Filter is an immutable compiled boolean expression together with
// its raw source text (kept for display/diagnostics).
type Filter struct {
	source string
	expr   *Expr
}

// Compile parses src into a Filter. A parse error is returned
// unmodified (already a *cmnerr.Error with location context).
func Compile(src string) (*Filter, error) {
	expr, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return &Filter{source: src, expr: expr}, nil
}

// MustCompile is Compile but panics on error; useful for literal
// filters known to be valid at compile time (e.g. Default()).
func MustCompile(src string) *Filter {
	f, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return f
}

// Default returns the default filter, the literal `true`.
func Default() *Filter {
	return MustCompile("true")
}

// Source returns the filter's original text.
func (f *Filter) Source() string { return f.source }

// Evaluate runs the filter against provider and returns the carrier
// Value, for callers that want more than a bool; its truthiness is the
// match result (see Matches).
func (f *Filter) Evaluate(provider Filterable) Value {
	return Eval(f.expr, provider)
}

// Matches is a convenience wrapper returning only the truthiness.
func (f *Filter) Matches(provider Filterable) bool {
	return f.Evaluate(provider).IsTruthy()
}

// UnmarshalYAML implements yaml.Unmarshaler so a Filter can be
// declared directly as a policy's `filter:` scalar.
func (f *Filter) UnmarshalYAML(value *yaml.Node) error {
	var src string
	if err := value.Decode(&src); err != nil {
		return err
	}
	compiled, err := Compile(src)
	if err != nil {
		return err
	}
	*f = *compiled
	return nil
}

// MarshalYAML implements yaml.Marshaler, round-tripping the raw source.
func (f *Filter) MarshalYAML() (interface{}, error) {
	return f.source, nil
}
