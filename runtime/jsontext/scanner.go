package jsontext

import (
	"io"
	"strings"

	"github.com/reflex-lang/reflex/runtime/rtti"
)

// Kind classifies a scanned node.
type Kind int

const (
	// KindPrimitive is a bare or quoted scalar token.
	KindPrimitive Kind = iota
	// KindObject is a named object body.
	KindObject
	// KindCollection is a bracketed element sequence.
	KindCollection
	// KindNull is the null-pointer token.
	KindNull
)

// Node is one value in a structurally scanned stream. The scanner parses
// the wire grammar without a registry, so tooling can reformat,
// summarize, and validate streams whose types were never declared.
type Node struct {
	Kind     Kind
	TypeName string // objects: the name before the brace
	ID       string // objects: "$id" marker, if present
	Ref      string // objects: "$ref" marker, if present

	Properties []PropertyNode // objects: remaining entries in stream order
	Elements   []*Node        // collections: elements in stream order

	Text   string // primitives: the token text, unescaped
	Quoted bool   // primitives: whether the token was quoted
}

// PropertyNode is one named entry of an object node.
type PropertyNode struct {
	Name  string
	Value *Node
}

// Scan parses one value from r into a Node tree.
func Scan(r io.Reader) (*Node, error) {
	return scanValue(NewReader(r))
}

// ScanString parses one value from the given text.
func ScanString(s string) (*Node, error) {
	return Scan(strings.NewReader(s))
}

func scanValue(r *Reader) (*Node, error) {
	r.skipSeparators()
	if r.eof {
		return nil, r.malformed("value", "end of input")
	}
	if r.cur == '[' {
		return scanCollection(r)
	}
	tok, quoted, err := scanToken(r)
	if err != nil {
		return nil, err
	}
	if !quoted {
		r.skipSeparators()
		if !r.eof && r.cur == '{' {
			r.advance()
			return scanObject(r, tok)
		}
		if tok == rtti.NullToken {
			return &Node{Kind: KindNull}, nil
		}
	}
	return &Node{Kind: KindPrimitive, Text: tok, Quoted: quoted}, nil
}

// scanToken reads one token and reports whether it was quoted. A bare
// token in value position may turn out to be an object's type name.
func scanToken(r *Reader) (string, bool, error) {
	r.skipSeparators()
	if r.eof {
		return "", false, r.malformed("token", "end of input")
	}
	if r.cur == '"' {
		s, err := r.quoted()
		return s, true, err
	}
	var buf []byte
	for !r.eof && !isSeparator(r.cur) && !isStructural(r.cur) {
		buf = append(buf, r.cur)
		r.advance()
	}
	if len(buf) == 0 {
		return "", false, r.malformed("token", r.describeCur())
	}
	return string(buf), false, nil
}

func scanObject(r *Reader, typeName string) (*Node, error) {
	n := &Node{Kind: KindObject, TypeName: typeName}
	for {
		end, err := r.EndObject()
		if err != nil {
			return nil, err
		}
		if end {
			break
		}
		name, err := r.PropertyName()
		if err != nil {
			return nil, err
		}
		value, err := scanValue(r)
		if err != nil {
			return nil, err
		}
		switch name {
		case "$id":
			n.ID = value.Text
		case "$ref":
			n.Ref = value.Text
		default:
			n.Properties = append(n.Properties, PropertyNode{Name: name, Value: value})
		}
	}
	if err := r.ObjectEnd(); err != nil {
		return nil, err
	}
	return n, nil
}

func scanCollection(r *Reader) (*Node, error) {
	if err := r.CollectionBegin(); err != nil {
		return nil, err
	}
	n := &Node{Kind: KindCollection}
	for {
		end, err := r.EndCollection()
		if err != nil {
			return nil, err
		}
		if end {
			break
		}
		elem, err := scanValue(r)
		if err != nil {
			return nil, err
		}
		n.Elements = append(n.Elements, elem)
	}
	if err := r.CollectionEnd(); err != nil {
		return nil, err
	}
	return n, nil
}

// Render re-emits the node in the wire grammar. Formatted output uses the
// same tab-per-level layout the type-driven encoder produces, so Render
// doubles as the reformatter behind the fmt tooling.
func (n *Node) Render(w io.Writer, formatted bool) error {
	jw := NewWriter(w, formatted)
	if err := n.render(jw); err != nil {
		return err
	}
	return jw.Flush()
}

// RenderString renders to a string.
func (n *Node) RenderString(formatted bool) (string, error) {
	var b strings.Builder
	if err := n.Render(&b, formatted); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (n *Node) render(w *Writer) error {
	switch n.Kind {
	case KindNull:
		return w.WriteNull()
	case KindPrimitive:
		if n.Quoted {
			return w.WriteString(n.Text)
		}
		return w.raw(n.Text)
	case KindCollection:
		if err := w.CollectionBegin(); err != nil {
			return err
		}
		for _, elem := range n.Elements {
			if err := w.ElementBegin(); err != nil {
				return err
			}
			if err := elem.render(w); err != nil {
				return err
			}
			if err := w.ElementEnd(); err != nil {
				return err
			}
		}
		return w.CollectionEnd()
	case KindObject:
		if err := w.beginObject(n.TypeName); err != nil {
			return err
		}
		if n.ID != "" {
			if err := w.WriteIdentity(n.ID); err != nil {
				return err
			}
		}
		if n.Ref != "" {
			if err := w.WriteReference(n.Ref); err != nil {
				return err
			}
		}
		for _, p := range n.Properties {
			if err := w.entryBegin(`"` + p.Name + `": `); err != nil {
				return err
			}
			if err := p.Value.render(w); err != nil {
				return err
			}
		}
		return w.endObject()
	}
	return nil
}

// Walk calls fn for n and every node below it, parents before children.
// Walking stops at the first error.
func (n *Node) Walk(fn func(*Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	for _, p := range n.Properties {
		if err := p.Value.Walk(fn); err != nil {
			return err
		}
	}
	for _, elem := range n.Elements {
		if err := elem.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}
