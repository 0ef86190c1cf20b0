package jsontext

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// Escape encodes a string for the wire format: the short escapes
// \b \f \n \r \t plus \" and \\, and \uXXXX for every other control or
// non-ASCII code point. Code points above the basic plane encode as a
// surrogate pair.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r > 0x7e {
				if r > 0xffff {
					hi, lo := utf16.EncodeRune(r)
					fmt.Fprintf(&b, `\u%04X\u%04X`, hi, lo)
				} else {
					fmt.Fprintf(&b, `\u%04X`, r)
				}
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// Unescape resolves the escape sequences produced by Escape, combining
// surrogate pairs back into single code points. Unknown escapes and
// truncated \u sequences are reported as errors.
func Unescape(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("jsontext: truncated escape sequence")
		}
		switch s[i] {
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		case '/':
			b.WriteByte('/')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			r, n, err := unescapeUnicode(s[i+1:])
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += n
		default:
			return "", fmt.Errorf("jsontext: unknown escape sequence \\%c", s[i])
		}
	}
	return b.String(), nil
}

// unescapeUnicode parses the hex digits of a \u escape starting at s,
// consuming a following low-surrogate escape when the first code unit is
// a high surrogate. It returns the rune and the number of bytes consumed
// after the 'u'.
func unescapeUnicode(s string) (rune, int, error) {
	u1, err := hex4(s)
	if err != nil {
		return 0, 0, err
	}
	if !utf16.IsSurrogate(rune(u1)) {
		return rune(u1), 4, nil
	}
	// expect \uXXXX with the low half
	if len(s) < 10 || s[4] != '\\' || s[5] != 'u' {
		return 0, 0, fmt.Errorf("jsontext: unpaired surrogate \\u%04X", u1)
	}
	u2, err := hex4(s[6:])
	if err != nil {
		return 0, 0, err
	}
	r := utf16.DecodeRune(rune(u1), rune(u2))
	if r == 0xfffd {
		return 0, 0, fmt.Errorf("jsontext: invalid surrogate pair \\u%04X\\u%04X", u1, u2)
	}
	return r, 10, nil
}

func hex4(s string) (uint32, error) {
	if len(s) < 4 {
		return 0, fmt.Errorf("jsontext: truncated \\u escape")
	}
	var v uint32
	for i := 0; i < 4; i++ {
		c := s[i]
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= uint32(c - '0')
		case c >= 'a' && c <= 'f':
			v |= uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= uint32(c-'A') + 10
		default:
			return 0, fmt.Errorf("jsontext: invalid hex digit %q in \\u escape", c)
		}
	}
	return v, nil
}
