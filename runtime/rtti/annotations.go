package rtti

// Annotation is a marker for metadata attached to metatypes and properties.
// Any value can serve as an annotation; consumers retrieve annotations by
// concrete type through FirstOf, AllOf, and Has.
type Annotation interface{}

// NonStreamable marks a property that must not participate in encoding or
// decoding. The codec skips such properties in both directions.
type NonStreamable struct{}

// Annotations is a heterogeneous, appendable list of annotations. The zero
// value is ready to use. Annotations are attached at declare time and are
// otherwise opaque to the engine.
type Annotations struct {
	items []Annotation
}

// NewAnnotations builds an annotation set from the given items.
func NewAnnotations(items ...Annotation) *Annotations {
	return &Annotations{items: items}
}

// Add appends annotations to the set and returns the set to chain calls.
func (a *Annotations) Add(items ...Annotation) *Annotations {
	a.items = append(a.items, items...)
	return a
}

// Len returns the number of annotations in the set.
func (a *Annotations) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// All returns the annotations in insertion order.
func (a *Annotations) All() []Annotation {
	if a == nil {
		return nil
	}
	out := make([]Annotation, len(a.items))
	copy(out, a.items)
	return out
}

// FirstOf returns the first annotation of type A in the set.
func FirstOf[A Annotation](a *Annotations) (A, bool) {
	var zero A
	if a == nil {
		return zero, false
	}
	for _, item := range a.items {
		if v, ok := item.(A); ok {
			return v, true
		}
	}
	return zero, false
}

// AllOf returns every annotation of type A, in insertion order.
func AllOf[A Annotation](a *Annotations) []A {
	if a == nil {
		return nil
	}
	var out []A
	for _, item := range a.items {
		if v, ok := item.(A); ok {
			out = append(out, v)
		}
	}
	return out
}

// Has reports whether the set contains an annotation of type A.
func Has[A Annotation](a *Annotations) bool {
	_, ok := FirstOf[A](a)
	return ok
}
