package rtti

import "reflect"

// primitiveMetatype is a built-in descriptor for one primitive kind. All
// primitive kinds funnel through the writer's four primitive operations;
// width conversions happen in the closures synthesized at registration.
type primitiveMetatype struct {
	baseMetatype
	write     func(w Writer, v any) error
	read      func(r Reader) (any, error)
	construct func() any
}

func (m *primitiveMetatype) Create() (any, error) {
	return m.construct(), nil
}

func (m *primitiveMetatype) encodeValue(e *Encoder, v any) error {
	return m.write(e.w, v)
}

func (m *primitiveMetatype) decodeValue(d *Decoder, _ any) (Value, error) {
	v, err := m.read(d.r)
	if err != nil {
		return Empty(), err
	}
	return ValueOf(v), nil
}

func (m *primitiveMetatype) scanValue(*refScan, any) error { return nil }

func installPrimitive[T any](r *Registry, write func(Writer, T) error, read func(Reader) (T, error)) {
	t := reflect.TypeFor[T]()
	name := r.canonicalName(t)
	mt := &primitiveMetatype{
		baseMetatype: baseMetatype{name: name, goType: t, reg: r},
		construct:    func() any { var zero T; return zero },
		write: func(w Writer, v any) error {
			tv, ok := v.(T)
			if !ok {
				return &TypeMismatchError{Expected: name, Actual: dynamicName(v)}
			}
			return write(w, tv)
		},
		read: func(rd Reader) (any, error) {
			return read(rd)
		},
	}
	r.install(mt, t)
}

// registerDefaults declares the built-in primitive metatypes. It runs at
// registry construction and again after Reset.
func (r *Registry) registerDefaults() {
	installPrimitive(r, func(w Writer, v bool) error { return w.WriteBool(v) },
		func(rd Reader) (bool, error) { return rd.ReadBool() })

	installPrimitive(r, func(w Writer, v int) error { return w.WriteInt(int64(v)) },
		func(rd Reader) (int, error) { n, err := rd.ReadInt(); return int(n), err })
	installPrimitive(r, func(w Writer, v int8) error { return w.WriteInt(int64(v)) },
		func(rd Reader) (int8, error) { n, err := rd.ReadInt(); return int8(n), err })
	installPrimitive(r, func(w Writer, v int16) error { return w.WriteInt(int64(v)) },
		func(rd Reader) (int16, error) { n, err := rd.ReadInt(); return int16(n), err })
	installPrimitive(r, func(w Writer, v int32) error { return w.WriteInt(int64(v)) },
		func(rd Reader) (int32, error) { n, err := rd.ReadInt(); return int32(n), err })
	installPrimitive(r, func(w Writer, v int64) error { return w.WriteInt(v) },
		func(rd Reader) (int64, error) { return rd.ReadInt() })

	installPrimitive(r, func(w Writer, v uint) error { return w.WriteUint(uint64(v)) },
		func(rd Reader) (uint, error) { n, err := rd.ReadUint(); return uint(n), err })
	installPrimitive(r, func(w Writer, v uint8) error { return w.WriteUint(uint64(v)) },
		func(rd Reader) (uint8, error) { n, err := rd.ReadUint(); return uint8(n), err })
	installPrimitive(r, func(w Writer, v uint16) error { return w.WriteUint(uint64(v)) },
		func(rd Reader) (uint16, error) { n, err := rd.ReadUint(); return uint16(n), err })
	installPrimitive(r, func(w Writer, v uint32) error { return w.WriteUint(uint64(v)) },
		func(rd Reader) (uint32, error) { n, err := rd.ReadUint(); return uint32(n), err })
	installPrimitive(r, func(w Writer, v uint64) error { return w.WriteUint(v) },
		func(rd Reader) (uint64, error) { return rd.ReadUint() })

	installPrimitive(r, func(w Writer, v float32) error { return w.WriteFloat(float64(v)) },
		func(rd Reader) (float32, error) { f, err := rd.ReadFloat(); return float32(f), err })
	installPrimitive(r, func(w Writer, v float64) error { return w.WriteFloat(v) },
		func(rd Reader) (float64, error) { return rd.ReadFloat() })

	installPrimitive(r, func(w Writer, v string) error { return w.WriteString(v) },
		func(rd Reader) (string, error) { return rd.ReadString() })
}
