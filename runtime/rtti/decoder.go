package rtti

import (
	"reflect"

	"go.uber.org/zap"
)

// DefaultMaxDepth bounds object/collection nesting during decoding. The
// limit exists so that adversarial or truncated input fails with
// MalformedStreamError instead of exhausting the stack.
const DefaultMaxDepth = 1000

// Decoder reconstructs one object graph per call through a Reader. It
// owns the per-traversal identity table mapping serialization ids to
// reconstructed instances: a reference marker relinks to the single
// instance decoded at the identity marker, never a copy. The table never
// outlives a single Decode call.
type Decoder struct {
	r   Reader
	reg *Registry

	byID     map[string]any
	depth    int
	maxDepth int
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithMaxDepth overrides the nesting bound. Values below one are ignored.
func WithMaxDepth(depth int) DecoderOption {
	return func(d *Decoder) {
		if depth >= 1 {
			d.maxDepth = depth
		}
	}
}

// NewDecoder creates a decoder reading through r against reg.
func NewDecoder(reg *Registry, r Reader, opts ...DecoderOption) *Decoder {
	d := &Decoder{reg: reg, r: r, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode reconstructs the object graph from the stream into root, which
// must be a non-nil instance handle (*T, or a pointer to a declared
// collection type) of a declared type. The stream's root type must agree
// with root's declared type or one of its derived types.
func (d *Decoder) Decode(root any) error {
	if root == nil {
		return &TypeMismatchError{Expected: "instance handle", Actual: "nil"}
	}
	d.byID = make(map[string]any)
	mt, err := d.reg.metatypeFor(reflect.TypeOf(root))
	if err != nil {
		return err
	}
	if cm, ok := mt.(*ClassMetatype); ok && !cm.IsAbstract() {
		_, err = d.decodeObject(root)
		return err
	}
	_, err = mt.decodeValue(d, root)
	return err
}

// decodeObject reads one object: the type name, an optional identity or
// reference marker, and properties until the closing brace. A nil into
// constructs a default instance of the type named in the stream (this is
// how abstract property types receive their concrete instances). The
// returned instance is nil when the stream carried the null token, and the
// previously decoded instance when it carried a reference marker.
func (d *Decoder) decodeObject(into any) (any, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	typeName, err := d.r.ObjectBegin()
	if err != nil {
		return nil, err
	}
	if typeName == NullToken {
		return nil, nil
	}
	mt, err := d.reg.Lookup(typeName)
	if err != nil {
		return nil, err
	}
	cm, ok := mt.(*ClassMetatype)
	if !ok {
		return nil, &TypeMismatchError{Expected: "class type", Actual: typeName}
	}

	instance := into
	var resolved any
	for {
		end, err := d.r.EndObject()
		if err != nil {
			return nil, err
		}
		if end {
			break
		}
		name, err := d.r.PropertyName()
		if err != nil {
			return nil, err
		}
		switch name {
		case "$id":
			id, err := d.r.ReadString()
			if err != nil {
				return nil, err
			}
			if instance == nil {
				if instance, err = cm.Create(); err != nil {
					return nil, err
				}
			}
			d.byID[id] = instance
			d.reg.log.Debug("identity marker", zap.String("id", id), zap.String("type", typeName))
		case "$ref":
			id, err := d.r.ReadString()
			if err != nil {
				return nil, err
			}
			target, ok := d.byID[id]
			if !ok {
				return nil, &MalformedStreamError{Expected: "previously identified object", Found: "$ref " + id}
			}
			resolved = target
		default:
			if instance == nil {
				if instance, err = cm.Create(); err != nil {
					return nil, err
				}
			}
			if err := d.decodeProperty(cm, name, instance); err != nil {
				return nil, err
			}
		}
	}
	if err := d.r.ObjectEnd(); err != nil {
		return nil, err
	}
	if resolved != nil {
		// relink to the single reconstructed instance
		return resolved, nil
	}
	if instance == nil {
		// well-formed empty body
		if instance, err = cm.Create(); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// decodeProperty decodes one property value into instance. Field-bound
// properties of class or collection type decode in place; everything else
// decodes to a value assigned through the property's setter. Non-writable
// properties consume their value from the stream and discard it.
func (d *Decoder) decodeProperty(cm *ClassMetatype, name string, instance any) error {
	prop := cm.Property(name)
	if prop == nil {
		return &MalformedStreamError{
			Expected: "declared property of " + cm.Name(),
			Found:    name,
		}
	}
	mt, err := prop.Metatype()
	if err != nil {
		return err
	}
	var target any
	if prop.addr != nil && prop.IsWritable() {
		target = prop.addrOf(instance)
	}
	mod, err := mt.decodeValue(d, target)
	if err != nil {
		return err
	}
	if mod.IsEmpty() {
		// applied in place or resolved by reference; must not overwrite
		return nil
	}
	if !prop.IsWritable() {
		return nil
	}
	return prop.setRaw(instance, mod.Interface())
}

func (d *Decoder) enter() error {
	d.depth++
	if d.depth > d.maxDepth {
		return &MalformedStreamError{
			Expected: "nesting no deeper than the configured maximum",
			Found:    "deeper structure",
		}
	}
	return nil
}

func (d *Decoder) leave() { d.depth-- }
