package jsontext

import (
	"bufio"
	"io"
	"strconv"

	"github.com/reflex-lang/reflex/runtime/rtti"
)

// Reader is the JSON-flavored implementation of rtti.Reader: a
// single-character-lookahead tokenizer where a token is the maximal run
// of non-separator characters, separators are whitespace and comma, and a
// leading quote switches to verbatim string mode terminated by the next
// unescaped quote.
//
// Every scan loop is bounded: reaching end of input inside an
// unterminated object, collection, or string fails with
// rtti.MalformedStreamError carrying the byte offset, instead of scanning
// forever.
type Reader struct {
	br     *bufio.Reader
	cur    byte
	eof    bool
	offset int64
}

var _ rtti.Reader = (*Reader)(nil)

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	rd := &Reader{br: bufio.NewReader(r), offset: -1}
	rd.advance()
	return rd
}

func (r *Reader) advance() {
	b, err := r.br.ReadByte()
	if err != nil {
		r.eof = true
		r.cur = 0
		r.offset++
		return
	}
	r.cur = b
	r.offset++
}

func isSeparator(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ','
}

// isStructural reports the characters that always terminate a bare token.
// The original tokenizer let tokens swallow braces; bounding tokens here
// is what makes compact output readable back.
func isStructural(c byte) bool {
	return c == '{' || c == '}' || c == '[' || c == ']' || c == ':'
}

func (r *Reader) skipSeparators() {
	for !r.eof && isSeparator(r.cur) {
		r.advance()
	}
}

func (r *Reader) malformed(expected, found string) error {
	return &rtti.MalformedStreamError{Offset: r.offset, Expected: expected, Found: found}
}

func (r *Reader) describeCur() string {
	if r.eof {
		return "end of input"
	}
	return strconv.QuoteRune(rune(r.cur))
}

// token reads the next token: a quoted string (unescaped) or the maximal
// run of non-separator, non-structural characters.
func (r *Reader) token() (string, error) {
	r.skipSeparators()
	if r.eof {
		return "", r.malformed("token", "end of input")
	}
	if r.cur == '"' {
		return r.quoted()
	}
	var buf []byte
	for !r.eof && !isSeparator(r.cur) && !isStructural(r.cur) {
		buf = append(buf, r.cur)
		r.advance()
	}
	if len(buf) == 0 {
		return "", r.malformed("token", r.describeCur())
	}
	return string(buf), nil
}

// quoted consumes a double-quoted string, keeping escape sequences intact
// until the terminating quote, then resolves them.
func (r *Reader) quoted() (string, error) {
	start := r.offset
	r.advance() // opening quote
	var buf []byte
	for {
		if r.eof {
			return "", &rtti.MalformedStreamError{Offset: start, Expected: "closing quote", Found: "end of input"}
		}
		if r.cur == '\\' {
			buf = append(buf, r.cur)
			r.advance()
			if r.eof {
				return "", &rtti.MalformedStreamError{Offset: start, Expected: "escaped character", Found: "end of input"}
			}
			buf = append(buf, r.cur)
			r.advance()
			continue
		}
		if r.cur == '"' {
			r.advance()
			break
		}
		buf = append(buf, r.cur)
		r.advance()
	}
	s, err := Unescape(string(buf))
	if err != nil {
		return "", &rtti.MalformedStreamError{Offset: start, Expected: "valid escape sequence", Found: err.Error()}
	}
	return s, nil
}

// ReadBool reads a boolean primitive.
func (r *Reader) ReadBool() (bool, error) {
	tok, err := r.token()
	if err != nil {
		return false, err
	}
	switch tok {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, r.malformed("boolean", tok)
}

// ReadInt reads a signed integer primitive.
func (r *Reader) ReadInt() (int64, error) {
	tok, err := r.token()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, r.malformed("integer", tok)
	}
	return n, nil
}

// ReadUint reads an unsigned integer primitive.
func (r *Reader) ReadUint() (uint64, error) {
	tok, err := r.token()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return 0, r.malformed("unsigned integer", tok)
	}
	return n, nil
}

// ReadFloat reads a floating-point primitive.
func (r *Reader) ReadFloat() (float64, error) {
	tok, err := r.token()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, r.malformed("number", tok)
	}
	return f, nil
}

// ReadString reads a string primitive. Quoted strings have their escape
// sequences resolved; a bare token is returned verbatim.
func (r *Reader) ReadString() (string, error) {
	return r.token()
}

// ObjectBegin consumes an object header and returns the type name, or
// rtti.NullToken when the stream carries the null-pointer token.
func (r *Reader) ObjectBegin() (string, error) {
	r.skipSeparators()
	if r.eof {
		return "", r.malformed("object", "end of input")
	}
	var buf []byte
	for !r.eof && r.cur != '{' && !isSeparator(r.cur) && r.cur != '}' && r.cur != ']' {
		buf = append(buf, r.cur)
		r.advance()
	}
	name := string(buf)
	if name == rtti.NullToken {
		return rtti.NullToken, nil
	}
	r.skipSeparators()
	if r.eof || r.cur != '{' {
		return "", r.malformed("'{' after type name "+strconv.Quote(name), r.describeCur())
	}
	r.advance()
	return name, nil
}

// EndObject reports whether the next significant input closes the current
// object.
func (r *Reader) EndObject() (bool, error) {
	r.skipSeparators()
	if r.eof {
		return false, r.malformed("'}'", "end of input")
	}
	return r.cur == '}', nil
}

// ObjectEnd consumes the object terminator.
func (r *Reader) ObjectEnd() error {
	r.skipSeparators()
	if r.eof || r.cur != '}' {
		return r.malformed("'}'", r.describeCur())
	}
	r.advance()
	return nil
}

// PropertyName reads a property name token and the colon following it.
func (r *Reader) PropertyName() (string, error) {
	name, err := r.token()
	if err != nil {
		return "", err
	}
	r.skipSeparators()
	for !r.eof && r.cur == ':' {
		r.advance()
	}
	return name, nil
}

// CollectionBegin consumes the collection opener.
func (r *Reader) CollectionBegin() error {
	r.skipSeparators()
	if r.eof || r.cur != '[' {
		return r.malformed("'['", r.describeCur())
	}
	r.advance()
	return nil
}

// EndCollection reports whether the next significant input closes the
// current collection.
func (r *Reader) EndCollection() (bool, error) {
	r.skipSeparators()
	if r.eof {
		return false, r.malformed("']'", "end of input")
	}
	return r.cur == ']', nil
}

// CollectionEnd consumes the collection terminator.
func (r *Reader) CollectionEnd() error {
	r.skipSeparators()
	if r.eof || r.cur != ']' {
		return r.malformed("']'", r.describeCur())
	}
	r.advance()
	return nil
}
