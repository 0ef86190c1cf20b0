package rtti

// NullToken is the literal token a writer emits for a nil pointer and a
// reader reports from ObjectBegin when it encounters one. The wire format
// deliberately uses a bare NULL token rather than the JSON null literal;
// the grammar is not JSON (type names are unquoted) and the token matches
// the established stream layout.
const NullToken = "NULL"

// Writer is the capability interface a concrete text codec implements for
// serialization. The encoder drives all stream output through it: the
// writer owns layout concerns (separators, indentation) while the encoder
// owns traversal and identity decisions.
type Writer interface {
	// WriteBool writes a boolean primitive.
	WriteBool(v bool) error
	// WriteInt writes a signed integer primitive of any width.
	WriteInt(v int64) error
	// WriteUint writes an unsigned integer primitive of any width.
	WriteUint(v uint64) error
	// WriteFloat writes a floating-point primitive in canonical,
	// locale-independent text form.
	WriteFloat(v float64) error
	// WriteString writes a quoted, escaped string primitive.
	WriteString(v string) error
	// WriteNull writes the null-pointer token.
	WriteNull() error

	// WriteIdentity marks the enclosing object with a serialization id so
	// later encounters can reference it. Called immediately after
	// ObjectBegin, before any property.
	WriteIdentity(id string) error
	// WriteReference writes a reference marker to a previously identified
	// object in place of a full body.
	WriteReference(id string) error

	// PropertyBegin starts a named property whose value has the given
	// metatype. PropertyEnd closes it.
	PropertyBegin(name string, mt Metatype) error
	PropertyEnd() error

	// ObjectBegin starts an object body for the given metatype.
	// ObjectEnd closes it.
	ObjectBegin(mt Metatype) error
	ObjectEnd(mt Metatype) error

	// CollectionBegin starts a collection; each element is bracketed by
	// ElementBegin and ElementEnd, and CollectionEnd closes it.
	CollectionBegin() error
	ElementBegin() error
	ElementEnd() error
	CollectionEnd() error
}

// Reader is the capability interface a concrete text codec implements for
// deserialization. The decoder drives a consume-until-end loop over these
// operations. Implementations must be bounded on malformed input: a scan
// that reaches end of input without finding its terminator reports
// MalformedStreamError instead of scanning forever.
type Reader interface {
	// ReadBool reads a boolean primitive.
	ReadBool() (bool, error)
	// ReadInt reads a signed integer primitive.
	ReadInt() (int64, error)
	// ReadUint reads an unsigned integer primitive.
	ReadUint() (uint64, error)
	// ReadFloat reads a floating-point primitive.
	ReadFloat() (float64, error)
	// ReadString reads a quoted string primitive and resolves its escape
	// sequences.
	ReadString() (string, error)

	// ObjectBegin consumes an object header and returns the type name
	// carried in the stream, with surrounding whitespace trimmed. When the
	// stream carries the null-pointer token instead of an object, it
	// returns NullToken and consumes nothing further.
	ObjectBegin() (typeName string, err error)
	// EndObject reports whether the next significant input closes the
	// current object. It consumes nothing beyond separators.
	EndObject() (bool, error)
	// ObjectEnd consumes the object terminator.
	ObjectEnd() error

	// PropertyName reads a property name token and the colon following it.
	PropertyName() (string, error)

	// CollectionBegin consumes the collection opener.
	CollectionBegin() error
	// EndCollection reports whether the next significant input closes the
	// current collection.
	EndCollection() (bool, error)
	// CollectionEnd consumes the collection terminator.
	CollectionEnd() error
}
