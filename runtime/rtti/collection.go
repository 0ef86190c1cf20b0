package rtti

import (
	"iter"
	"reflect"
)

// Collection is the capability set a custom sequence type exposes to be
// declared as a collection: ordered element traversal, insertion at the
// end, and clearing. Slices need no adapter; declare them with
// DeclareSliceOf.
type Collection[E any] interface {
	// Elements yields the elements in collection order.
	Elements() iter.Seq[E]
	// Insert appends an element.
	Insert(e E)
	// Clear discards all elements.
	Clear()
}

// CollectionMetatype describes a declared collection type. Encoding emits
// elements in iteration order, one metatype-encoded element at a time;
// decoding clears the target and inserts parsed elements in arrival order,
// so element order is preserved end to end.
type CollectionMetatype struct {
	baseMetatype
	elemName  string
	construct func() any
	toHandle  func(v any) (any, error)
	iterate   func(h any, yield func(elem any) error) error
	clear     func(h any) error
	insert    func(h any, elem any) error
}

// IsCollection reports true.
func (m *CollectionMetatype) IsCollection() bool { return true }

// ElementTypeName returns the canonical name of the element type.
func (m *CollectionMetatype) ElementTypeName() string { return m.elemName }

// ElementMetatype resolves the element metatype, failing with
// NotDeclaredError when the element type is not declared.
func (m *CollectionMetatype) ElementMetatype() (Metatype, error) {
	return m.reg.Lookup(m.elemName)
}

// Annotate appends annotations to the metatype and returns it to chain
// declare-time calls.
func (m *CollectionMetatype) Annotate(items ...Annotation) *CollectionMetatype {
	m.Annotations().Add(items...)
	return m
}

// Create constructs an empty collection instance.
func (m *CollectionMetatype) Create() (any, error) {
	return m.construct(), nil
}

func (m *CollectionMetatype) encodeValue(e *Encoder, v any) error {
	elemMt, err := m.ElementMetatype()
	if err != nil {
		return err
	}
	h, err := m.toHandle(v)
	if err != nil {
		return err
	}
	if err := e.w.CollectionBegin(); err != nil {
		return err
	}
	err = m.iterate(h, func(elem any) error {
		if err := e.w.ElementBegin(); err != nil {
			return err
		}
		if err := elemMt.encodeValue(e, elem); err != nil {
			return err
		}
		return e.w.ElementEnd()
	})
	if err != nil {
		return err
	}
	return e.w.CollectionEnd()
}

// decodeValue fills the target collection in place when one is supplied
// (field-bound properties), returning the empty Value to signal the value
// was applied by reference. Without a target it builds a fresh collection
// and returns it for assignment.
func (m *CollectionMetatype) decodeValue(d *Decoder, into any) (Value, error) {
	elemMt, err := m.ElementMetatype()
	if err != nil {
		return Empty(), err
	}
	inPlace := into != nil
	if into == nil {
		into = m.construct()
	}
	if err := d.enter(); err != nil {
		return Empty(), err
	}
	defer d.leave()
	if err := d.r.CollectionBegin(); err != nil {
		return Empty(), err
	}
	if err := m.clear(into); err != nil {
		return Empty(), err
	}
	for {
		end, err := d.r.EndCollection()
		if err != nil {
			return Empty(), err
		}
		if end {
			break
		}
		elem, err := elemMt.decodeValue(d, nil)
		if err != nil {
			return Empty(), err
		}
		if err := m.insert(into, elem.Interface()); err != nil {
			return Empty(), err
		}
	}
	if err := d.r.CollectionEnd(); err != nil {
		return Empty(), err
	}
	if inPlace {
		return Empty(), nil
	}
	return ValueOf(into), nil
}

func (m *CollectionMetatype) scanValue(s *refScan, v any) error {
	elemMt, err := m.ElementMetatype()
	if err != nil {
		return err
	}
	h, err := m.toHandle(v)
	if err != nil {
		return err
	}
	return m.iterate(h, func(elem any) error {
		return elemMt.scanValue(s, elem)
	})
}

// DeclareSliceOf declares []E as a collection type. Idempotent: declaring
// the same slice type twice returns the existing metatype.
func DeclareSliceOf[E any](r *Registry, annotations ...Annotation) *CollectionMetatype {
	t := reflect.TypeFor[[]E]()
	name := r.canonicalName(t)
	if existing, err := r.Lookup(name); err == nil {
		return existing.(*CollectionMetatype)
	}
	mt := &CollectionMetatype{
		baseMetatype: baseMetatype{
			name:        name,
			goType:      t,
			reg:         r,
			annotations: NewAnnotations(annotations...),
		},
		elemName:  r.canonicalName(reflect.TypeFor[E]()),
		construct: func() any { return new([]E) },
		toHandle:  sliceHandle[E],
		iterate: func(h any, yield func(any) error) error {
			for _, elem := range *h.(*[]E) {
				if err := yield(elem); err != nil {
					return err
				}
			}
			return nil
		},
		clear: func(h any) error {
			s := h.(*[]E)
			*s = (*s)[:0]
			return nil
		},
		insert: func(h any, elem any) error {
			e, err := elementOf[E](name, elem)
			if err != nil {
				return err
			}
			s := h.(*[]E)
			*s = append(*s, e)
			return nil
		},
	}
	r.install(mt, t, reflect.TypeFor[*[]E]())
	return mt
}

// DeclareCollection declares a custom collection type C whose pointer
// receiver implements Collection[E]:
//
//	rtti.DeclareCollection[Ring, *Ring, int](reg)
//
// Idempotent like DeclareSliceOf.
func DeclareCollection[C any, PC interface {
	*C
	Collection[E]
}, E any](r *Registry, annotations ...Annotation) *CollectionMetatype {
	t := reflect.TypeFor[C]()
	name := r.canonicalName(t)
	if existing, err := r.Lookup(name); err == nil {
		return existing.(*CollectionMetatype)
	}
	mt := &CollectionMetatype{
		baseMetatype: baseMetatype{
			name:        name,
			goType:      t,
			reg:         r,
			annotations: NewAnnotations(annotations...),
		},
		elemName:  r.canonicalName(reflect.TypeFor[E]()),
		construct: func() any { return new(C) },
		toHandle: func(v any) (any, error) {
			if h, ok := v.(*C); ok {
				return h, nil
			}
			if vv, ok := v.(C); ok {
				return &vv, nil
			}
			return nil, &TypeMismatchError{Expected: name, Actual: dynamicName(v)}
		},
		iterate: func(h any, yield func(any) error) error {
			for elem := range PC(h.(*C)).Elements() {
				if err := yield(elem); err != nil {
					return err
				}
			}
			return nil
		},
		clear: func(h any) error {
			PC(h.(*C)).Clear()
			return nil
		},
		insert: func(h any, elem any) error {
			e, err := elementOf[E](name, elem)
			if err != nil {
				return err
			}
			PC(h.(*C)).Insert(e)
			return nil
		},
	}
	r.install(mt, t, reflect.TypeFor[*C]())
	return mt
}

func sliceHandle[E any](v any) (any, error) {
	if h, ok := v.(*[]E); ok {
		return h, nil
	}
	if vv, ok := v.([]E); ok {
		return &vv, nil
	}
	return nil, &TypeMismatchError{
		Expected: reflect.TypeFor[[]E]().String(),
		Actual:   dynamicName(v),
	}
}

// elementOf downcasts a decoded element, accepting *E from class element
// decoders and nil for pointer elements written as NULL.
func elementOf[E any](collection string, elem any) (E, error) {
	if elem == nil {
		var zero E
		return zero, nil
	}
	if e, ok := elem.(E); ok {
		return e, nil
	}
	if pe, ok := elem.(*E); ok {
		return *pe, nil
	}
	var zero E
	return zero, &TypeMismatchError{
		Expected: reflect.TypeFor[E]().String(),
		Actual:   dynamicName(elem),
		Property: collection,
	}
}
