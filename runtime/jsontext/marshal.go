package jsontext

import (
	"strings"

	"github.com/reflex-lang/reflex/runtime/rtti"
)

// Marshal serializes the object graph rooted at root against reg and
// returns the text. root must be an instance handle of a declared type.
func Marshal(reg *rtti.Registry, root any, formatted bool) (string, error) {
	var b strings.Builder
	w := NewWriter(&b, formatted)
	if err := rtti.NewEncoder(reg, w).Encode(root); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Unmarshal reconstructs the object graph serialized in data into root,
// which must be a non-nil instance handle of a declared type.
func Unmarshal(reg *rtti.Registry, data string, root any, opts ...rtti.DecoderOption) error {
	r := NewReader(strings.NewReader(data))
	return rtti.NewDecoder(reg, r, opts...).Decode(root)
}
