package rtti

import "reflect"

// Mode is the access mode bitmask of a property.
type Mode uint8

const (
	// Readable marks a property whose value can be retrieved.
	Readable Mode = 1 << iota
	// Writable marks a property whose value can be set.
	Writable
)

// Property is a named, type-erased accessor pair over an instance's field
// or computed value. A property is bound either to a field pointer or to a
// getter/setter function pair; the choice is invisible to callers of Get
// and Set. Every property belongs to exactly one ClassMetatype.
//
// A property whose value type was not declared at binding time stays
// pending: Get and Set fail fast with NotDeclaredError until the value
// type is declared, which resolves the property automatically.
type Property struct {
	name        string
	typeName    string
	mode        Mode
	owner       *ClassMetatype
	annotations *Annotations
	mt          Metatype

	// erased accessors, synthesized at binding time
	get  func(instance any) (any, error)
	set  func(instance any, v any) error
	addr func(instance any) any // in-place decode target, field bindings only
}

// Name returns the property name.
func (p *Property) Name() string { return p.name }

// TypeName returns the canonical name of the property's value type.
func (p *Property) TypeName() string { return p.typeName }

// Owner returns the class metatype the property belongs to.
func (p *Property) Owner() *ClassMetatype { return p.owner }

// Mode returns the access mode bitmask.
func (p *Property) Mode() Mode { return p.mode }

// IsReadable reports whether the property value can be retrieved. A
// property with no accessor bound reports false.
func (p *Property) IsReadable() bool { return p.mode&Readable != 0 }

// IsWritable reports whether the property value can be set. A property
// with no accessor bound reports false.
func (p *Property) IsWritable() bool { return p.mode&Writable != 0 }

// IsReadWrite reports whether the property is both readable and writable.
func (p *Property) IsReadWrite() bool { return p.IsReadable() && p.IsWritable() }

// IsReadOnly reports whether the property is readable but not writable.
func (p *Property) IsReadOnly() bool { return p.IsReadable() && !p.IsWritable() }

// Annotations returns the property's annotation set.
func (p *Property) Annotations() *Annotations {
	if p.annotations == nil {
		p.annotations = &Annotations{}
	}
	return p.annotations
}

// Annotate appends annotations to the property and returns it to chain
// calls at declare time.
func (p *Property) Annotate(items ...Annotation) *Property {
	p.Annotations().Add(items...)
	return p
}

// Metatype returns the resolved metatype of the property's value type. It
// fails with NotDeclaredError while the property is still pending.
func (p *Property) Metatype() (Metatype, error) {
	if p.mt == nil {
		return nil, &NotDeclaredError{TypeName: p.typeName, Property: p.name}
	}
	return p.mt, nil
}

// resolve binds the property to its value metatype. Called by the registry
// when the value type is declared.
func (p *Property) resolve(mt Metatype) { p.mt = mt }

// streamable reports whether the property participates in encode/decode.
func (p *Property) streamable() bool {
	return !Has[NonStreamable](p.annotations)
}

// Get retrieves the property value from instance in a type-erased
// container. It fails fast with NotDeclaredError while the property's
// value type is unresolved, and with TypeMismatchError when instance is
// not of the owning type. A non-readable property yields the empty Value.
func (p *Property) Get(instance any) (Value, error) {
	if p.mt == nil {
		return Empty(), &NotDeclaredError{TypeName: p.typeName, Property: p.name}
	}
	if !p.IsReadable() {
		return Empty(), nil
	}
	v, err := p.get(p.coerce(instance))
	if err != nil {
		return Empty(), err
	}
	return ValueOf(v), nil
}

// Set assigns the property value on instance. Setting a non-writable
// property is a documented no-op, not an error. It fails fast with
// NotDeclaredError while the property's value type is unresolved, and with
// TypeMismatchError when the value's dynamic type disagrees with the
// declared type.
func (p *Property) Set(instance any, v Value) error {
	if p.mt == nil {
		return &NotDeclaredError{TypeName: p.typeName, Property: p.name}
	}
	if !p.IsWritable() {
		return nil
	}
	return p.set(p.coerce(instance), v.Interface())
}

// setRaw is the erased Set used by the decoder; it shares the mode no-op
// and resolution rules with Set.
func (p *Property) setRaw(instance any, v any) error {
	if p.mt == nil {
		return &NotDeclaredError{TypeName: p.typeName, Property: p.name}
	}
	if !p.IsWritable() {
		return nil
	}
	return p.set(p.coerce(instance), v)
}

// getRaw is the erased Get used by the encoder; it skips the Value wrapper
// but shares the handle coercion with Get.
func (p *Property) getRaw(instance any) (any, error) {
	return p.get(p.coerce(instance))
}

// addrOf resolves the in-place decode target on instance, nil for
// non-field bindings.
func (p *Property) addrOf(instance any) any {
	return p.addr(p.coerce(instance))
}

// coerce converts instance to the handle shape of the property's owning
// type when instance belongs to a derived metatype, applying the upcasts
// recorded by Derives along the base chain. Instances the chain cannot
// convert pass through unchanged and fail in the accessor's own downcast.
func (p *Property) coerce(instance any) any {
	if instance == nil {
		return nil
	}
	mt, err := p.owner.reg.metatypeFor(reflect.TypeOf(instance))
	if err != nil {
		return instance
	}
	cm, ok := mt.(*ClassMetatype)
	if !ok || cm == p.owner {
		return instance
	}
	h := instance
	for c := cm; c != nil; c = c.base {
		if c == p.owner {
			return h
		}
		if c.upcast == nil {
			return instance
		}
		uh, ok := c.upcast(h)
		if !ok {
			return instance
		}
		h = uh
	}
	return instance
}

// Member binds a read-write property to a field of T through an accessor
// returning the field's address. Field-bound properties decode in place.
//
//	rtti.Member(mt, "x", func(p *Point) *float64 { return &p.x })
func Member[T any, V any](mc *ClassMetatype, name string, access func(*T) *V, annotations ...Annotation) *Property {
	p := newProperty[V](mc, name, annotations)
	p.mode = Readable | Writable
	p.get = func(instance any) (any, error) {
		t, err := instanceOf[*T](p, instance)
		if err != nil {
			return nil, err
		}
		return *access(t), nil
	}
	p.set = func(instance any, v any) error {
		t, err := instanceOf[*T](p, instance)
		if err != nil {
			return err
		}
		vv, err := valueOfType[V](p, v)
		if err != nil {
			return err
		}
		*access(t) = vv
		return nil
	}
	p.addr = func(instance any) any {
		t, err := instanceOf[*T](p, instance)
		if err != nil {
			return nil
		}
		return access(t)
	}
	mc.addProperty(p)
	return p
}

// Accessor binds a property to a getter/setter function pair. H is the
// instance handle: *T for a struct type, the interface itself for an
// abstract type. A nil getter leaves the property non-readable, a nil
// setter leaves it non-writable; a property bound with neither reports
// not-readable and not-writable.
func Accessor[H any, V any](mc *ClassMetatype, name string, get func(H) V, set func(H, V), annotations ...Annotation) *Property {
	p := newProperty[V](mc, name, annotations)
	if get != nil {
		p.mode |= Readable
	}
	if set != nil {
		p.mode |= Writable
	}
	p.get = func(instance any) (any, error) {
		h, err := instanceOf[H](p, instance)
		if err != nil {
			return nil, err
		}
		return get(h), nil
	}
	p.set = func(instance any, v any) error {
		h, err := instanceOf[H](p, instance)
		if err != nil {
			return err
		}
		vv, err := valueOfType[V](p, v)
		if err != nil {
			return err
		}
		set(h, vv)
		return nil
	}
	mc.addProperty(p)
	return p
}

// Getter binds a read-only property to a getter function. H follows the
// same handle convention as Accessor.
func Getter[H any, V any](mc *ClassMetatype, name string, get func(H) V, annotations ...Annotation) *Property {
	return Accessor[H, V](mc, name, get, nil, annotations...)
}

func newProperty[V any](mc *ClassMetatype, name string, annotations []Annotation) *Property {
	reg := mc.reg
	typeName := reg.canonicalName(reflect.TypeFor[V]())
	p := &Property{
		name:        name,
		typeName:    typeName,
		owner:       mc,
		annotations: NewAnnotations(annotations...),
	}
	if mt, err := reg.Lookup(typeName); err == nil {
		p.mt = mt
	} else {
		reg.AddPendingProperty(typeName, p)
	}
	return p
}

// instanceOf downcasts the erased instance to the handle type, reporting
// TypeMismatchError on disagreement.
func instanceOf[H any](p *Property, instance any) (H, error) {
	h, ok := instance.(H)
	if !ok {
		var zero H
		return zero, &TypeMismatchError{
			Expected: reflect.TypeFor[H]().String(),
			Actual:   dynamicName(instance),
			Property: p.name,
		}
	}
	return h, nil
}

// valueOfType downcasts an erased property value to the declared type.
// Class and collection decoders hand back instance pointers, so a *V is
// accepted and dereferenced; a nil erased value becomes the zero V, which
// assigns nil to pointer and interface properties.
func valueOfType[V any](p *Property, v any) (V, error) {
	if v == nil {
		var zero V
		return zero, nil
	}
	if vv, ok := v.(V); ok {
		return vv, nil
	}
	if pv, ok := v.(*V); ok {
		return *pv, nil
	}
	var zero V
	return zero, &TypeMismatchError{
		Expected: p.typeName,
		Actual:   dynamicName(v),
		Property: p.name,
	}
}
