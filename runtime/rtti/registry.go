package rtti

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Registry is the process-wide table of declared metatypes. It resolves
// forward references: a property whose value type is not yet declared is
// queued and bound automatically when that type is declared.
//
// Declaration is not safe for concurrent use; declare during startup or
// serialize externally. A fully declared registry is read-only during
// encoding and decoding.
type Registry struct {
	types            map[string]Metatype
	byType           map[reflect.Type]Metatype
	pending          map[string][]*Property
	prefixDecorators []string
	log              *zap.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger attaches a logger; declaration and identity events log at
// Debug level. The default is a no-op logger.
func WithLogger(log *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRegistry creates a registry with the default primitive metatypes
// registered.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	r.Reset()
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the package-level registry, initialized on first access.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Reset atomically discards every declared metatype and pending property,
// then re-registers the default primitives. Existing Metatype and Property
// values become orphans and must not be reused.
func (r *Registry) Reset() {
	r.types = make(map[string]Metatype)
	r.byType = make(map[reflect.Type]Metatype)
	r.pending = make(map[string][]*Property)
	r.prefixDecorators = nil
	r.registerDefaults()
	r.log.Debug("registry reset")
}

// Declare registers struct type T and returns its class metatype.
// Idempotent: declaring an already-registered type returns the existing
// descriptor. The first call also registers the paired pointer metatype
// for *T and resolves any properties pending on either name.
func Declare[T any](r *Registry, annotations ...Annotation) *ClassMetatype {
	t := reflect.TypeFor[T]()
	name := r.canonicalName(t)
	if existing, ok := r.types[name]; ok {
		return existing.(*ClassMetatype)
	}
	mt := newClassMetatype[T](r, annotations)
	ptr := newPointerMetatype[T](r, mt)
	mt.ptrMt = ptr
	r.install(mt, t, reflect.TypeFor[*T]())
	r.install(ptr, nil)
	return mt
}

// DeclareAbstract registers interface type I as an abstract metatype.
// The resulting metatype cannot be instantiated; encoding dispatches on
// the dynamic type of the value, and decoding constructs the concrete type
// named in the stream. Idempotent like Declare.
func DeclareAbstract[I any](r *Registry, annotations ...Annotation) *ClassMetatype {
	t := reflect.TypeFor[I]()
	name := r.canonicalName(t)
	if existing, ok := r.types[name]; ok {
		return existing.(*ClassMetatype)
	}
	mt := newAbstractMetatype[I](r, annotations)
	r.install(mt, t)
	return mt
}

// Lookup returns the metatype registered under the canonical name, failing
// with NotDeclaredError when no such type exists.
func (r *Registry) Lookup(name string) (Metatype, error) {
	mt, ok := r.types[name]
	if !ok {
		return nil, &NotDeclaredError{TypeName: name}
	}
	return mt, nil
}

// Metatypes returns a snapshot of every declared metatype, sorted by name.
func (r *Registry) Metatypes() []Metatype {
	out := make([]Metatype, 0, len(r.types))
	for _, mt := range r.types {
		out = append(out, mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// AddPendingProperty enqueues a property whose value type is not yet
// declared. The property resolves automatically the next time that type
// name is declared; until then its Get and Set fail fast.
func (r *Registry) AddPendingProperty(typeName string, p *Property) {
	r.pending[typeName] = append(r.pending[typeName], p)
	r.log.Debug("property pending on undeclared type",
		zap.String("type", typeName), zap.String("property", p.Name()))
}

// RegisterPrefixDecorator registers a type-name prefix stripped by
// Demangle before the package qualifier is removed. Decorators apply in
// registration order.
func (r *Registry) RegisterPrefixDecorator(prefix string) {
	r.prefixDecorators = append(r.prefixDecorators, prefix)
}

// Demangle produces the canonical human-readable form of a raw type name:
// registered prefix decorators are stripped in order, then the package
// qualifier. The result is the name used as registry key and in the wire
// format.
func (r *Registry) Demangle(name string) string {
	for _, prefix := range r.prefixDecorators {
		name = strings.TrimPrefix(name, prefix)
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// canonicalName derives the canonical name for a Go type. Pointer and
// slice shapes keep their markers; the leaf name is demangled.
func (r *Registry) canonicalName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + r.canonicalName(t.Elem())
	case reflect.Slice:
		return "[]" + r.canonicalName(t.Elem())
	default:
		return r.Demangle(t.String())
	}
}

// install records a metatype under its canonical name and Go types, then
// drains the pending-property worklist for that name.
func (r *Registry) install(mt Metatype, goTypes ...reflect.Type) {
	r.types[mt.Name()] = mt
	for _, t := range goTypes {
		if t != nil {
			r.byType[t] = mt
		}
	}
	r.resolvePending(mt)
	r.log.Debug("declared type", zap.String("type", mt.Name()))
}

func (r *Registry) resolvePending(mt Metatype) {
	props, ok := r.pending[mt.Name()]
	if !ok {
		return
	}
	for _, p := range props {
		p.resolve(mt)
		r.log.Debug("resolved pending property",
			zap.String("type", mt.Name()), zap.String("property", p.Name()))
	}
	delete(r.pending, mt.Name())
}

// metatypeFor resolves a metatype from a dynamic Go type, falling back to
// the pointee for pointer types so instance handles (*T) resolve to the
// class metatype of T.
func (r *Registry) metatypeFor(t reflect.Type) (Metatype, error) {
	if mt, ok := r.byType[t]; ok {
		return mt, nil
	}
	if t != nil && t.Kind() == reflect.Pointer {
		if mt, ok := r.byType[t.Elem()]; ok {
			return mt, nil
		}
	}
	name := "<nil>"
	if t != nil {
		name = r.canonicalName(t)
	}
	return nil, &NotDeclaredError{TypeName: name}
}
