package fastdiag

import (
	"fmt"
)

// OperatorShapeError reports a per-axis operator that is not square.
type OperatorShapeError struct {
	Axis       int
	Rows, Cols int
}

func (e *OperatorShapeError) Error() string {
	return fmt.Sprintf("fastdiag: operator for axis %d is not square: %dx%d", e.Axis, e.Rows, e.Cols)
}

// ImplementationMismatchError reports that the requested or inferred
// strategy's preconditions are not satisfied by the operator set.
type ImplementationMismatchError struct {
	Strategy Strategy
	Reason   string
}

func (e *ImplementationMismatchError) Error() string {
	return fmt.Sprintf("fastdiag: %v strategy unavailable: %s", e.Strategy, e.Reason)
}

// ShapeMismatchError reports a right-hand side whose shape differs from the
// shape the solver was built for.
type ShapeMismatchError struct {
	Got, Want []int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("fastdiag: rhs shape %v does not match solver shape %v", e.Got, e.Want)
}

// DtypeMismatchError reports a right-hand side dtype that differs from the
// dtype declared when the solver was built.
type DtypeMismatchError struct {
	Got, Want Dtype
}

func (e *DtypeMismatchError) Error() string {
	return fmt.Sprintf("fastdiag: rhs dtype %v does not match solver dtype %v", e.Got, e.Want)
}
