// Package rtti provides runtime type reflection and generic object-graph
// serialization for applications that register the shape of their types
// explicitly instead of relying on language-level introspection.
//
// Application code declares each type once into a Registry, describing its
// properties, base types, and collection semantics. The engine then
// serializes and deserializes arbitrary, possibly cyclic, object graphs
// through the registered metatypes without any per-type generated code.
//
// The package is organized around four abstractions:
//
//   - Registry: the process-wide table of declared metatypes, with forward
//     reference resolution for properties whose value type is declared later.
//   - Metatype: a descriptor for one registered type, carrying its canonical
//     name and its text encode/decode behavior.
//   - Property: a named, type-erased accessor pair over an instance's field
//     or computed value, bound either to a field pointer or to a
//     getter/setter function pair.
//   - Writer/Reader: the capability interfaces a concrete text codec
//     implements. The JSON-flavored implementation lives in
//     runtime/jsontext.
//
// Shared and self-referential instances are detected per traversal and
// written as identity/reference markers, so cyclic graphs round-trip to a
// single reconstructed instance rather than duplicates or infinite output.
//
// Thread Safety: Registry declaration is not safe for concurrent use.
// Declare all types during startup, or serialize declaration externally.
// Encoding and decoding against a fully declared registry is read-only with
// respect to the registry and may run concurrently, one Encoder or Decoder
// per goroutine.
package rtti
