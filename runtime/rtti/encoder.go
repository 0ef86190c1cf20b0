package rtti

import (
	"reflect"
	"strconv"

	"go.uber.org/zap"
)

// Encoder serializes one object graph per call through a Writer. It owns
// the per-traversal identity table: before descending into any
// pointer-valued field it decides between emitting a full body and a
// reference marker. The table never outlives a single Encode call.
//
// Identity ids are monotonic surrogates assigned in traversal order, never
// memory addresses, so output is reproducible across runs. A cheap
// pre-scan marks the instances that are actually shared; everything else
// serializes without identity noise.
type Encoder struct {
	w   Writer
	reg *Registry

	ids     map[any]string
	written map[any]bool
}

// NewEncoder creates an encoder writing through w against reg.
func NewEncoder(reg *Registry, w Writer) *Encoder {
	return &Encoder{reg: reg, w: w}
}

// Encode serializes the object graph rooted at root, which must be an
// instance handle (*T, or a collection) of a declared type. Partial output
// already flushed on a mid-write failure is not rolled back; discard the
// destination on error.
func (e *Encoder) Encode(root any) error {
	mt, err := e.reg.metatypeFor(reflect.TypeOf(root))
	if err != nil {
		return err
	}

	s := newRefScan(e.reg)
	cm, isClass := mt.(*ClassMetatype)
	rootIsPointer := reflect.TypeOf(root).Kind() == reflect.Pointer
	if isClass && !cm.IsAbstract() {
		if rootIsPointer {
			// a pointer root is reference-shaped: it can be the target
			// of self-references from within the graph
			s.visit(root)
		}
		if err := cm.scanProperties(s, root); err != nil {
			return err
		}
	} else if err := mt.scanValue(s, root); err != nil {
		return err
	}
	e.ids, e.written = s.assign()
	if len(e.ids) > 0 {
		e.reg.log.Debug("shared instances detected", zap.Int("count", len(e.ids)))
	}

	if isClass && !cm.IsAbstract() {
		if !rootIsPointer {
			return cm.encodeObject(e, root, "")
		}
		e.written[root] = true
		return cm.encodeObject(e, root, e.ids[root])
	}
	return mt.encodeValue(e, root)
}

// encodeReference serializes a pointer-valued instance: a reference marker
// when the instance was already written in this traversal, a full body
// (named after its dynamic type) otherwise.
func (e *Encoder) encodeReference(instance any) error {
	if err := requirePointerShape(instance); err != nil {
		return err
	}
	mt, err := e.reg.metatypeFor(reflect.TypeOf(instance))
	if err != nil {
		return err
	}
	cm, ok := mt.(*ClassMetatype)
	if !ok {
		return &TypeMismatchError{Expected: "class type", Actual: dynamicName(instance)}
	}
	id := e.ids[instance]
	if id != "" && e.written[instance] {
		if err := e.w.ObjectBegin(cm); err != nil {
			return err
		}
		if err := e.w.WriteReference(id); err != nil {
			return err
		}
		return e.w.ObjectEnd(cm)
	}
	e.written[instance] = true
	return cm.encodeObject(e, instance, id)
}

// refScan is the pre-pass over pointer-reachable instances. It counts
// encounters; instances met more than once get a serialization id.
type refScan struct {
	reg    *Registry
	counts map[any]int
	order  []any
}

func newRefScan(reg *Registry) *refScan {
	return &refScan{reg: reg, counts: make(map[any]int)}
}

// visit records one encounter and reports whether the instance was seen
// before.
func (s *refScan) visit(instance any) bool {
	n := s.counts[instance]
	s.counts[instance] = n + 1
	if n == 0 {
		s.order = append(s.order, instance)
	}
	return n > 0
}

// track records a pointer-valued encounter and descends into the instance
// the first time it is seen.
func (s *refScan) track(instance any) error {
	if err := requirePointerShape(instance); err != nil {
		return err
	}
	if s.visit(instance) {
		return nil
	}
	mt, err := s.reg.metatypeFor(reflect.TypeOf(instance))
	if err != nil {
		return err
	}
	cm, ok := mt.(*ClassMetatype)
	if !ok {
		return &TypeMismatchError{Expected: "class type", Actual: dynamicName(instance)}
	}
	return cm.scanProperties(s, instance)
}

// requirePointerShape rejects instances whose dynamic type is not a
// pointer before they reach the identity maps. The maps key on the
// instance itself; a value-shaped implementation carrying a slice or map
// field is not a usable key, and identity over value copies is
// meaningless anyway.
func requirePointerShape(instance any) error {
	if t := reflect.TypeOf(instance); t == nil || t.Kind() != reflect.Pointer {
		return &TypeMismatchError{Expected: "pointer instance", Actual: dynamicName(instance)}
	}
	return nil
}

// assign hands out monotonic ids to shared instances in first-encounter
// order.
func (s *refScan) assign() (ids map[any]string, written map[any]bool) {
	ids = make(map[any]string)
	written = make(map[any]bool)
	next := 1
	for _, instance := range s.order {
		if s.counts[instance] > 1 {
			ids[instance] = strconv.Itoa(next)
			next++
		}
	}
	return ids, written
}
