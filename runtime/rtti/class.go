package rtti

import "reflect"

// ClassMetatype describes a declared class type: an ordered mapping from
// property name to Property, an optional base-type chain, and a factory
// for default instances. Property lookup walks the chain; a definition in
// a derived type shadows a base definition of the same name.
type ClassMetatype struct {
	baseMetatype
	abstract  bool
	construct func() (any, error)
	toHandle  func(v any) (any, error)
	nilValue  func() any       // abstract types: zero interface value
	isNil     func(v any) bool // abstract types: nil interface or nil pointer inside
	base      *ClassMetatype
	upcast    func(instance any) (any, bool)
	props     map[string]*Property
	order     []string
}

// IsAbstract reports whether the type was declared abstract.
func (m *ClassMetatype) IsAbstract() bool { return m.abstract }

// Base returns the base class metatype, or nil.
func (m *ClassMetatype) Base() *ClassMetatype { return m.base }

// DerivesFrom records base as this type's base class. Properties declared
// on the base become visible through Property and Properties unless
// shadowed by an own property of the same name. Returns the metatype to
// chain declare-time calls.
//
// DerivesFrom alone suffices when the base's accessors are bound to a
// handle every derived instance satisfies, such as an abstract base's
// interface handle. A struct base whose accessors take the base's own
// handle additionally needs the upcast recorded by Derives.
func (m *ClassMetatype) DerivesFrom(base *ClassMetatype) *ClassMetatype {
	m.base = base
	return m
}

// Derives records base as the base class of mc and binds the upcast that
// hands base-owned accessors the embedded base of a derived instance, so
// inherited properties work on derived instances end to end:
//
//	rtti.Derives(dogMt, animalMt, func(d *dog) *animal { return &d.animal })
func Derives[D any, B any](mc, base *ClassMetatype, upcast func(*D) *B) *ClassMetatype {
	mc.base = base
	mc.upcast = func(instance any) (any, bool) {
		d, ok := instance.(*D)
		if !ok {
			return nil, false
		}
		return upcast(d), true
	}
	return mc
}

// Annotate appends annotations to the metatype and returns it to chain
// declare-time calls.
func (m *ClassMetatype) Annotate(items ...Annotation) *ClassMetatype {
	m.Annotations().Add(items...)
	return m
}

// Create constructs a default instance of the described type. For types
// declared abstract it fails with AbstractTypeError: construction must be
// satisfied by a concrete derived type named in the stream at decode time.
func (m *ClassMetatype) Create() (any, error) {
	if m.abstract {
		return nil, &AbstractTypeError{TypeName: m.name}
	}
	return m.construct()
}

// Property returns the property with the given name, walking the base
// chain from most derived to base. Returns nil if no such property exists.
func (m *ClassMetatype) Property(name string) *Property {
	for mt := m; mt != nil; mt = mt.base {
		if p, ok := mt.props[name]; ok {
			return p
		}
	}
	return nil
}

// Properties returns every visible property in declaration order, base
// properties first, with shadowed base definitions omitted.
func (m *ClassMetatype) Properties() []*Property {
	var chain []*ClassMetatype
	for mt := m; mt != nil; mt = mt.base {
		chain = append(chain, mt)
	}
	var out []*Property
	for i := len(chain) - 1; i >= 0; i-- {
		mt := chain[i]
		for _, name := range mt.order {
			// the most-derived definition wins
			if m.Property(name) == mt.props[name] {
				out = append(out, mt.props[name])
			}
		}
	}
	return out
}

func (m *ClassMetatype) addProperty(p *Property) {
	if m.props == nil {
		m.props = make(map[string]*Property)
	}
	if _, exists := m.props[p.name]; !exists {
		m.order = append(m.order, p.name)
	}
	m.props[p.name] = p
}

func (m *ClassMetatype) encodeValue(e *Encoder, v any) error {
	if m.abstract {
		// abstract-typed values are reference-like: dispatch on the
		// dynamic type and participate in identity tracking
		if v == nil || m.isNil(v) {
			return e.w.WriteNull()
		}
		return e.encodeReference(v)
	}
	return m.encodeObject(e, v, "")
}

// encodeObject writes one full object body. A non-empty id emits an
// identity marker before the first property.
func (m *ClassMetatype) encodeObject(e *Encoder, v any, id string) error {
	h, err := m.toHandle(v)
	if err != nil {
		return err
	}
	if err := e.w.ObjectBegin(m); err != nil {
		return err
	}
	if id != "" {
		if err := e.w.WriteIdentity(id); err != nil {
			return err
		}
	}
	for _, p := range m.Properties() {
		if !p.IsReadable() || !p.streamable() {
			continue
		}
		pmt, err := p.Metatype()
		if err != nil {
			return err
		}
		pv, err := p.getRaw(h)
		if err != nil {
			return err
		}
		if err := e.w.PropertyBegin(p.name, pmt); err != nil {
			return err
		}
		if err := pmt.encodeValue(e, pv); err != nil {
			return err
		}
		if err := e.w.PropertyEnd(); err != nil {
			return err
		}
	}
	return e.w.ObjectEnd(m)
}

func (m *ClassMetatype) decodeValue(d *Decoder, into any) (Value, error) {
	if m.abstract {
		// the concrete type is named in the stream; an interface-typed
		// target is never a valid in-place destination
		into = nil
	}
	instance, err := d.decodeObject(into)
	if err != nil {
		return Empty(), err
	}
	if instance == nil {
		// null pointer token in object position
		if m.abstract {
			return ValueOf(m.nilValue()), nil
		}
		return Empty(), nil
	}
	return ValueOf(instance), nil
}

func (m *ClassMetatype) scanValue(s *refScan, v any) error {
	if m.abstract {
		if v == nil || m.isNil(v) {
			return nil
		}
		return s.track(v)
	}
	return m.scanProperties(s, v)
}

// scanProperties descends into readable streamable properties during the
// shared-instance pre-scan.
func (m *ClassMetatype) scanProperties(s *refScan, v any) error {
	h, err := m.toHandle(v)
	if err != nil {
		return err
	}
	for _, p := range m.Properties() {
		if !p.IsReadable() || !p.streamable() {
			continue
		}
		pmt, err := p.Metatype()
		if err != nil {
			return err
		}
		pv, err := p.getRaw(h)
		if err != nil {
			return err
		}
		if err := pmt.scanValue(s, pv); err != nil {
			return err
		}
	}
	return nil
}

func newClassMetatype[T any](r *Registry, annotations []Annotation) *ClassMetatype {
	t := reflect.TypeFor[T]()
	return &ClassMetatype{
		baseMetatype: baseMetatype{
			name:        r.canonicalName(t),
			goType:      t,
			reg:         r,
			annotations: NewAnnotations(annotations...),
		},
		construct: func() (any, error) { return new(T), nil },
		toHandle: func(v any) (any, error) {
			if h, ok := v.(*T); ok {
				return h, nil
			}
			if vv, ok := v.(T); ok {
				return &vv, nil
			}
			return nil, &TypeMismatchError{
				Expected: reflect.TypeFor[T]().String(),
				Actual:   dynamicName(v),
			}
		},
	}
}

func newAbstractMetatype[I any](r *Registry, annotations []Annotation) *ClassMetatype {
	t := reflect.TypeFor[I]()
	return &ClassMetatype{
		baseMetatype: baseMetatype{
			name:        r.canonicalName(t),
			goType:      t,
			reg:         r,
			annotations: NewAnnotations(annotations...),
		},
		abstract: true,
		nilValue: func() any { var zero I; return zero },
		isNil:    isNilInstance,
		toHandle: func(v any) (any, error) {
			if h, ok := v.(I); ok {
				return h, nil
			}
			return nil, &TypeMismatchError{
				Expected: t.String(),
				Actual:   dynamicName(v),
			}
		},
	}
}

// isNilInstance reports whether an erased instance is nil, including a
// typed nil pointer carried inside an interface value.
func isNilInstance(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
