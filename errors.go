package algebra

import (
	"errors"
	"fmt"
)

var (
	// ErrUnboundVariable matches any *UnboundVariableError.
	ErrUnboundVariable = errors.New("unbound variable")
	// ErrDivisionByZero matches any *DivisionByZeroError.
	ErrDivisionByZero = errors.New("division by zero")
)

// UnboundVariableError reports a free symbol with no binding.
type UnboundVariableError struct {
	Symbol *Symbol
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("unbound variable %s", e.Symbol.Name())
}

func (e *UnboundVariableError) Is(target error) bool { return target == ErrUnboundVariable }

// DivisionByZeroError carries the denominator that was, or evaluated to, zero.
type DivisionByZeroError struct {
	Denominator Expr
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("division by zero: denominator %s", e.Denominator)
}

func (e *DivisionByZeroError) Is(target error) bool { return target == ErrDivisionByZero }

// ParseError is returned by Parse. Pos is the byte offset of the failure.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Pos, e.Msg)
}
