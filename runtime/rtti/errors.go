package rtti

import "fmt"

// NotDeclaredError is returned when a type name is looked up in a registry
// that has no metatype registered under that name, or when a property whose
// value type is still pending resolution is accessed.
type NotDeclaredError struct {
	// TypeName is the canonical name that failed to resolve.
	TypeName string
	// Property is the property that referenced the type, if the failure
	// happened through a property access rather than a direct lookup.
	Property string
}

// Error implements the error interface.
func (e *NotDeclaredError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("rtti: type %q referenced by property %q is not declared", e.TypeName, e.Property)
	}
	return fmt.Sprintf("rtti: type %q is not declared", e.TypeName)
}

// TypeMismatchError is returned when an erased value's dynamic type
// disagrees with the declared type at the point of a typed get, set, or
// downcast.
type TypeMismatchError struct {
	// Expected is the declared type name.
	Expected string
	// Actual is the dynamic type name of the value that was supplied.
	Actual string
	// Property is the property involved, if any.
	Property string
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("rtti: property %q expects %s, got %s", e.Property, e.Expected, e.Actual)
	}
	return fmt.Sprintf("rtti: expected %s, got %s", e.Expected, e.Actual)
}

// AbstractTypeError is returned by Metatype.Create for types declared
// abstract. Construction must be satisfied by a concrete derived type,
// chosen at decode time from the type name carried in the stream.
type AbstractTypeError struct {
	TypeName string
}

// Error implements the error interface.
func (e *AbstractTypeError) Error() string {
	return fmt.Sprintf("rtti: type %q is abstract and cannot be instantiated", e.TypeName)
}

// MalformedStreamError is returned when a reader cannot make forward
// progress on ill-formed input. Every scan loop in a conforming reader is
// bounded: reaching end of input inside an unterminated object, collection,
// or string reports this error instead of scanning forever, and nesting
// deeper than the configured maximum is rejected.
type MalformedStreamError struct {
	// Offset is the byte offset in the input stream where the error was
	// detected.
	Offset int64
	// Expected describes what the reader was looking for.
	Expected string
	// Found describes what was found instead, if known.
	Found string
}

// Error implements the error interface.
func (e *MalformedStreamError) Error() string {
	if e.Found != "" {
		return fmt.Sprintf("rtti: malformed stream at offset %d: expected %s, found %s", e.Offset, e.Expected, e.Found)
	}
	return fmt.Sprintf("rtti: malformed stream at offset %d: expected %s", e.Offset, e.Expected)
}
