package jsontext

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reflex-lang/reflex/runtime/rtti"
)

func newTestReader(s string) *Reader {
	return NewReader(strings.NewReader(s))
}

func TestReader_Primitives(t *testing.T) {
	r := newTestReader("true -7 7 2.5 \"a b\" bare")

	b, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	i, err := r.ReadInt()
	require.NoError(t, err)
	assert.Equal(t, int64(-7), i)

	u, err := r.ReadUint()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), u)

	f, err := r.ReadFloat()
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "a b", s)

	s, err = r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "bare", s)
}

func TestReader_SeparatorsIncludeCommas(t *testing.T) {
	r := newTestReader(" 1 ,\t2,\n3 ")
	for _, want := range []int64{1, 2, 3} {
		n, err := r.ReadInt()
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
}

func TestReader_ObjectFormatted(t *testing.T) {
	r := newTestReader("Point {\n\t\"x\": 1,\n\t\"y\": 2\n}")

	name, err := r.ObjectBegin()
	require.NoError(t, err)
	assert.Equal(t, "Point", name)

	end, err := r.EndObject()
	require.NoError(t, err)
	assert.False(t, end)

	pname, err := r.PropertyName()
	require.NoError(t, err)
	assert.Equal(t, "x", pname)
	n, err := r.ReadInt()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	pname, err = r.PropertyName()
	require.NoError(t, err)
	assert.Equal(t, "y", pname)
	_, err = r.ReadInt()
	require.NoError(t, err)

	end, err = r.EndObject()
	require.NoError(t, err)
	assert.True(t, end)
	require.NoError(t, r.ObjectEnd())
}

func TestReader_ObjectCompact(t *testing.T) {
	// structural characters terminate bare tokens
	r := newTestReader(`Point {"x": 23}`)

	name, err := r.ObjectBegin()
	require.NoError(t, err)
	assert.Equal(t, "Point", name)

	pname, err := r.PropertyName()
	require.NoError(t, err)
	assert.Equal(t, "x", pname)

	n, err := r.ReadInt()
	require.NoError(t, err)
	assert.Equal(t, int64(23), n)

	end, err := r.EndObject()
	require.NoError(t, err)
	assert.True(t, end)
	require.NoError(t, r.ObjectEnd())
}

func TestReader_NullToken(t *testing.T) {
	r := newTestReader("NULL")
	name, err := r.ObjectBegin()
	require.NoError(t, err)
	assert.Equal(t, rtti.NullToken, name)
}

func TestReader_Collection(t *testing.T) {
	r := newTestReader("[\n\t1,\n\t2\n]")

	require.NoError(t, r.CollectionBegin())

	end, err := r.EndCollection()
	require.NoError(t, err)
	assert.False(t, end)
	_, err = r.ReadInt()
	require.NoError(t, err)

	end, err = r.EndCollection()
	require.NoError(t, err)
	assert.False(t, end)
	_, err = r.ReadInt()
	require.NoError(t, err)

	end, err = r.EndCollection()
	require.NoError(t, err)
	assert.True(t, end)
	require.NoError(t, r.CollectionEnd())
}

func TestReader_MalformedInputs(t *testing.T) {
	cases := []struct {
		name string
		run  func(r *Reader) error
		in   string
	}{
		{"eof at token", func(r *Reader) error { _, err := r.ReadInt(); return err }, "   "},
		{"non-numeric int", func(r *Reader) error { _, err := r.ReadInt(); return err }, "abc"},
		{"non-boolean", func(r *Reader) error { _, err := r.ReadBool(); return err }, "yes"},
		{"unterminated string", func(r *Reader) error { _, err := r.ReadString(); return err }, `"never closed`},
		{"missing brace", func(r *Reader) error { _, err := r.ObjectBegin(); return err }, "Point "},
		{"unterminated object", func(r *Reader) error {
			if _, err := r.ObjectBegin(); err != nil {
				return err
			}
			_, err := r.EndObject()
			return err
		}, "Point {"},
		{"missing bracket", func(r *Reader) error { return r.CollectionBegin() }, "nope"},
		{"unterminated collection", func(r *Reader) error {
			if err := r.CollectionBegin(); err != nil {
				return err
			}
			_, err := r.EndCollection()
			return err
		}, "["},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.run(newTestReader(c.in))
			var ms *rtti.MalformedStreamError
			require.ErrorAs(t, err, &ms, "got %v", err)
		})
	}
}

func TestReader_ErrorCarriesOffset(t *testing.T) {
	r := newTestReader("  12 oops")
	_, err := r.ReadInt()
	require.NoError(t, err)

	_, err = r.ReadInt()
	var ms *rtti.MalformedStreamError
	require.True(t, errors.As(err, &ms))
	assert.Greater(t, ms.Offset, int64(0))
}

func TestReader_QuotedEscapes(t *testing.T) {
	r := newTestReader(`"line\none \"two\""`)
	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "line\none \"two\"", s)
}
