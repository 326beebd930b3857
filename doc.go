// s-expressions encoder and decoder (KiCad format)
//
// Package sexp maps Go structs to and from the parenthesized notation used by
// KiCad footprint, symbol and board files. The format is not self-describing:
// field names never appear in the output except for booleans, booleans are
// written as the bare field name when true and omitted when false, and
// optional values are omitted when absent. Decoding therefore needs the Go
// type to tell what the next token means.
//
// For instance:
//
//	(at 1.23 -4.56 -90)
//	(drill oval 0.635 0.847)
//	(pad 1 smd rect (at 0 0) (size 1.27 1.27) (layers "F.Cu"))
//
// BNF:
//
//	<expr>            :: "(" <identifier> ( <whitespace> <value> )* ")" ;
//	<value>           :: <expr> | <quoted-string> | <atom> ;
//	<identifier>      :: ( <alpha> | "_" )+ ;
//	<quoted-string>   :: "\"" ( <quoted-char> | "\\\\" | "\\\"" )* "\"" ;
//	<quoted-char>     :: <any char except "\"" and "\\"> ;
//	<atom>            :: <any char except whitespace, "(" and ")">+ ;
//	<whitespace>      :: " " | "\t" | "\n" | "\f" | "\r" ;
//
// Shapes:
//
//   - A struct is a record "(name field...)". Its head identifier comes from
//     the tag of a Name field, or the type name.
//   - With the tuple option the fields are positional and unnamed.
//   - A struct without fields is a unit record such as "(locked)".
//   - bool fields are flags: present when their name appears. Flags may be
//     written in any order relative to each other.
//   - Pointer fields are optional and omitted when nil.
//   - A slice field is written as "(name elem...)". A slice field with the
//     empty name takes all remaining elements of the enclosing record and must
//     be its last field.
//   - Named string types implementing Enum are unit variants.
//   - Interfaces registered with RegisterUntagged hold one of a closed set of
//     records, told apart by their head identifier.
//   - interface{} fields take numbers and strings as they come.
//   - Node captures any value as an untyped tree.
//
// Maps, byte slices and complex numbers are not supported.
package sexp
