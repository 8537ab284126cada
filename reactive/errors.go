package reactive

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNotFound is returned when a handle refers to a disposed or never
	// created node. Treat it as a no-op.
	ErrNotFound = errors.New("reactive: node not found")

	// ErrTypeMismatch is matched by every *TypeMismatchError.
	ErrTypeMismatch = errors.New("reactive: type mismatch")

	// ErrCycle is returned when a derived value is read while it is still
	// computing.
	ErrCycle = errors.New("reactive: dependency cycle")

	// ErrFlushBudgetExceeded is reported when a flush stops after the
	// configured number of passes.
	ErrFlushBudgetExceeded = errors.New("reactive: flush budget exceeded")
)

// TypeMismatchError reports a handle used with a type parameter that does
// not match the stored value.
type TypeMismatchError struct {
	Node string
	Want reflect.Type
	Have reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("reactive: %s holds %v, accessed as %v", e.Node, e.Have, e.Want)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

func checkType[T any](kind string, k key, have reflect.Type) error {
	want := reflect.TypeFor[T]()
	if want != have {
		return &TypeMismatchError{Node: kind + " " + k.String(), Want: want, Have: have}
	}
	return nil
}

// as unboxes a stored value. A nil interface holds the zero value of T.
func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}
