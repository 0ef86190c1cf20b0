package rtti

import "reflect"

// pointerMetatype is the pointer counterpart paired with every declared
// class metatype. A pointer-typed value encodes as a full object body on
// first encounter, a reference marker on repeat encounters within the same
// traversal, or the null token; the object body is named after the
// instance's dynamic type, so pointers to a base type carry derived
// instances transparently.
type pointerMetatype struct {
	baseMetatype
	elem     *ClassMetatype
	isNil    func(v any) bool
	nilValue func() any
}

func (m *pointerMetatype) IsPointer() bool { return true }

// Create returns a nil pointer; pointer targets are constructed by the
// element metatype named in the stream.
func (m *pointerMetatype) Create() (any, error) {
	return m.nilValue(), nil
}

// Pointee returns the metatype this pointer metatype is paired with.
func (m *pointerMetatype) Pointee() Metatype { return m.elem }

func (m *pointerMetatype) encodeValue(e *Encoder, v any) error {
	if v == nil || m.isNil(v) {
		return e.w.WriteNull()
	}
	return e.encodeReference(v)
}

func (m *pointerMetatype) decodeValue(d *Decoder, _ any) (Value, error) {
	instance, err := d.decodeObject(nil)
	if err != nil {
		return Empty(), err
	}
	if instance == nil {
		return ValueOf(m.nilValue()), nil
	}
	return ValueOf(instance), nil
}

func (m *pointerMetatype) scanValue(s *refScan, v any) error {
	if v == nil || m.isNil(v) {
		return nil
	}
	return s.track(v)
}

func newPointerMetatype[T any](r *Registry, elem *ClassMetatype) *pointerMetatype {
	t := reflect.TypeFor[*T]()
	return &pointerMetatype{
		baseMetatype: baseMetatype{
			name:   "*" + elem.Name(),
			goType: t,
			reg:    r,
		},
		elem: elem,
		isNil: func(v any) bool {
			p, ok := v.(*T)
			return !ok || p == nil
		},
		nilValue: func() any { var p *T; return p },
	}
}
