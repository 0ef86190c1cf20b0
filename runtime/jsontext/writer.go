package jsontext

import (
	"bufio"
	"io"
	"strconv"

	"github.com/reflex-lang/reflex/runtime/rtti"
)

// Writer is the JSON-flavored implementation of rtti.Writer. Formatted
// mode indents one tab per nesting level; compact mode omits all layout.
// Output is buffered; call Flush when encoding completes.
//
// Partial output flushed before a failure is not rolled back; discard the
// destination stream on error.
type Writer struct {
	w         *bufio.Writer
	formatted bool
	level     int
	stack     []frame
}

// frame tracks one open object or collection so separators land only
// between entries.
type frame struct {
	collection bool
	wrote      bool
}

var _ rtti.Writer = (*Writer)(nil)

// NewWriter creates a Writer over w. formatted selects human-readable
// multi-line output; otherwise output is compact.
func NewWriter(w io.Writer, formatted bool) *Writer {
	return &Writer{w: bufio.NewWriter(w), formatted: formatted}
}

// Flush writes any buffered output to the underlying stream.
func (w *Writer) Flush() error { return w.w.Flush() }

// WriteBool writes true or false.
func (w *Writer) WriteBool(v bool) error {
	if v {
		return w.raw("true")
	}
	return w.raw("false")
}

// WriteInt writes a signed integer in canonical decimal text.
func (w *Writer) WriteInt(v int64) error {
	return w.raw(strconv.FormatInt(v, 10))
}

// WriteUint writes an unsigned integer in canonical decimal text.
func (w *Writer) WriteUint(v uint64) error {
	return w.raw(strconv.FormatUint(v, 10))
}

// WriteFloat writes a float in the shortest canonical, locale-independent
// form that round-trips.
func (w *Writer) WriteFloat(v float64) error {
	return w.raw(strconv.FormatFloat(v, 'g', -1, 64))
}

// WriteString writes a double-quoted, escaped string.
func (w *Writer) WriteString(v string) error {
	return w.raw(`"` + Escape(v) + `"`)
}

// WriteNull writes the null-pointer token.
func (w *Writer) WriteNull() error {
	return w.raw(rtti.NullToken)
}

// WriteIdentity writes the identity marker for the enclosing object.
func (w *Writer) WriteIdentity(id string) error {
	return w.marker("$id", id)
}

// WriteReference writes a reference marker to a previously identified
// object.
func (w *Writer) WriteReference(id string) error {
	return w.marker("$ref", id)
}

// PropertyBegin starts a named property. The metatype is carried for
// codec implementations that need it; this layout does not.
func (w *Writer) PropertyBegin(name string, _ rtti.Metatype) error {
	return w.entryBegin(`"` + name + `": `)
}

// PropertyEnd closes the current property.
func (w *Writer) PropertyEnd() error { return nil }

// ObjectBegin opens an object body named after the metatype.
func (w *Writer) ObjectBegin(mt rtti.Metatype) error {
	return w.beginObject(mt.Name())
}

// ObjectEnd closes the current object body.
func (w *Writer) ObjectEnd(_ rtti.Metatype) error {
	return w.endObject()
}

// CollectionBegin opens a collection.
func (w *Writer) CollectionBegin() error {
	if err := w.raw("["); err != nil {
		return err
	}
	w.push(true)
	return nil
}

// ElementBegin starts one collection element.
func (w *Writer) ElementBegin() error {
	top := w.top()
	if top.wrote {
		if err := w.raw(","); err != nil {
			return err
		}
	}
	top.wrote = true
	return w.newlineIndent()
}

// ElementEnd closes the current element.
func (w *Writer) ElementEnd() error { return nil }

// CollectionEnd closes the current collection.
func (w *Writer) CollectionEnd() error {
	wrote := w.top().wrote
	w.pop()
	if wrote {
		if err := w.newlineIndent(); err != nil {
			return err
		}
	}
	return w.raw("]")
}

func (w *Writer) beginObject(name string) error {
	if err := w.raw(name + " {"); err != nil {
		return err
	}
	if w.formatted {
		if err := w.raw("\n"); err != nil {
			return err
		}
	}
	w.push(false)
	return nil
}

func (w *Writer) endObject() error {
	wrote := w.top().wrote
	w.pop()
	if wrote && w.formatted {
		if err := w.raw("\n"); err != nil {
			return err
		}
		if err := w.indent(); err != nil {
			return err
		}
	}
	return w.raw("}")
}

func (w *Writer) marker(name, id string) error {
	return w.entryBegin(`"` + name + `": "` + id + `"`)
}

// entryBegin writes the separator and indentation for one object entry
// followed by text.
func (w *Writer) entryBegin(text string) error {
	top := w.top()
	if top.wrote {
		sep := ","
		if w.formatted {
			sep = ",\n"
		}
		if err := w.raw(sep); err != nil {
			return err
		}
	}
	top.wrote = true
	if err := w.indent(); err != nil {
		return err
	}
	return w.raw(text)
}

func (w *Writer) newlineIndent() error {
	if !w.formatted {
		return nil
	}
	if err := w.raw("\n"); err != nil {
		return err
	}
	return w.indent()
}

func (w *Writer) indent() error {
	if !w.formatted {
		return nil
	}
	for i := 0; i < w.level; i++ {
		if err := w.w.WriteByte('\t'); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) raw(s string) error {
	_, err := w.w.WriteString(s)
	return err
}

func (w *Writer) push(collection bool) {
	w.stack = append(w.stack, frame{collection: collection})
	w.level++
}

func (w *Writer) pop() {
	if len(w.stack) > 0 {
		w.stack = w.stack[:len(w.stack)-1]
	}
	if w.level > 0 {
		w.level--
	}
}

func (w *Writer) top() *frame {
	if len(w.stack) == 0 {
		w.stack = append(w.stack, frame{})
	}
	return &w.stack[len(w.stack)-1]
}
