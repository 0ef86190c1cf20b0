package rtti

import "fmt"

// Value is a type-erased value container. It carries any registered type
// and is checked at the point of use: retrieving the content as a concrete
// type fails with TypeMismatchError when the dynamic type disagrees,
// instead of panicking.
type Value struct {
	v     any
	valid bool
}

// ValueOf wraps v in a Value.
func ValueOf(v any) Value {
	return Value{v: v, valid: true}
}

// Empty returns the empty Value. Decoders return it to signal that a value
// was applied in place or resolved by reference rather than produced for
// direct assignment.
func Empty() Value {
	return Value{}
}

// IsEmpty reports whether the container holds no value.
func (v Value) IsEmpty() bool {
	return !v.valid
}

// Interface returns the contained value as an interface, or nil when empty.
func (v Value) Interface() any {
	return v.v
}

// TypeName returns the dynamic type name of the contained value, or the
// empty string when the container is empty.
func (v Value) TypeName() string {
	if !v.valid {
		return ""
	}
	return dynamicName(v.v)
}

// As retrieves the contained value as type T. The downcast is checked: a
// dynamic type other than T yields a TypeMismatchError.
func As[T any](v Value) (T, error) {
	var zero T
	if !v.valid {
		return zero, &TypeMismatchError{Expected: fmt.Sprintf("%T", zero), Actual: "empty value"}
	}
	t, ok := v.v.(T)
	if !ok {
		return zero, &TypeMismatchError{Expected: fmt.Sprintf("%T", zero), Actual: dynamicName(v.v)}
	}
	return t, nil
}

func dynamicName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
