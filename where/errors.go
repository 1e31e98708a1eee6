package where

import "fmt"

// UnsupportedOperatorError reports an operator that the strategy selected
// for a field's declared type does not implement.
type UnsupportedOperatorError struct {
	Operator string
	Type     DeclaredType
}

func (e *UnsupportedOperatorError) Error() string {
	if e.Type == TypeGeneric {
		return fmt.Sprintf("unsupported operator %q", e.Operator)
	}
	return fmt.Sprintf("unsupported operator %q for type %q", e.Operator, e.Type)
}

// InvalidOperatorArgumentError reports an operator argument whose shape or
// content is not acceptable for the operator.
type InvalidOperatorArgumentError struct {
	Operator string
	Reason   string
}

func (e *InvalidOperatorArgumentError) Error() string {
	return fmt.Sprintf("invalid argument for operator %q: %s", e.Operator, e.Reason)
}

// UnsupportedValueTypeError reports a filter value of a Go type that cannot
// be rendered as a SQL literal.
type UnsupportedValueTypeError struct {
	Value any
}

func (e *UnsupportedValueTypeError) Error() string {
	return fmt.Sprintf("unsupported filter value of type %T", e.Value)
}
