package rtti

import "reflect"

// Metatype describes one registered type: its canonical name, structural
// attributes, and its text encode/decode behavior. Metatypes are created
// once at declare time and live until the owning registry is reset.
//
// The set of implementations is closed: class, collection, pointer, and
// primitive metatypes, all selected at declare time. Each carries the
// capability closures (construct, access, iterate) synthesized from the
// concrete Go type when it was declared.
type Metatype interface {
	// Name returns the canonical type name, the unique registry key and
	// the name written to the stream.
	Name() string
	// GoType returns the Go type this metatype describes.
	GoType() reflect.Type
	// IsCollection reports whether the metatype serializes elementwise.
	IsCollection() bool
	// IsAbstract reports whether the type cannot be instantiated directly.
	IsAbstract() bool
	// IsPointer reports whether the metatype is the pointer counterpart of
	// another metatype.
	IsPointer() bool
	// PointerMetatype returns the paired pointer metatype, or nil if this
	// metatype is itself a pointer metatype.
	PointerMetatype() Metatype
	// Annotations returns the annotation set attached at declare time.
	Annotations() *Annotations
	// Create constructs a default instance. It fails with
	// AbstractTypeError for types declared abstract.
	Create() (any, error)

	// codec contract, driven by Encoder and Decoder
	encodeValue(e *Encoder, v any) error
	decodeValue(d *Decoder, into any) (Value, error)
	scanValue(s *refScan, v any) error
}

// baseMetatype carries the attributes shared by every metatype kind.
type baseMetatype struct {
	name        string
	goType      reflect.Type
	reg         *Registry
	annotations *Annotations
	ptrMt       Metatype
}

func (b *baseMetatype) Name() string              { return b.name }
func (b *baseMetatype) GoType() reflect.Type      { return b.goType }
func (b *baseMetatype) IsCollection() bool        { return false }
func (b *baseMetatype) IsAbstract() bool          { return false }
func (b *baseMetatype) IsPointer() bool           { return false }
func (b *baseMetatype) PointerMetatype() Metatype { return b.ptrMt }

func (b *baseMetatype) Annotations() *Annotations {
	if b.annotations == nil {
		b.annotations = &Annotations{}
	}
	return b.annotations
}
