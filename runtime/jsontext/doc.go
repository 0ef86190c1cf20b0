// Package jsontext implements the JSON-flavored text codec for the rtti
// engine: a stream-based Writer and Reader satisfying the capability
// interfaces in runtime/rtti.
//
// The grammar is JSON-like, not JSON. Object bodies open with an unquoted
// type name before the brace, nil pointers encode as the bare NULL token,
// and identity/reference markers ("$id"/"$ref") relink instances that
// occur more than once in a graph:
//
//	Sample {
//		"$id": "1",
//		"count": 23,
//		"next": Sample {
//			"$ref": "1"
//		}
//	}
//
// Formatted output indents one tab per nesting level; compact output
// omits all layout. The reader accepts both, treating whitespace and
// commas as separators.
//
// The package also provides a registry-independent structural scanner
// used by tooling to reformat, summarize, and validate streams without
// declared types.
package jsontext
