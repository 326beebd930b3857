package sexp

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrEOF                   = errors.New("unexpected end of input")
	ErrExpectedSExpr         = errors.New("expected s-expr")
	ErrExpectedIdentifier    = errors.New("expected identifier")
	ErrExpectedNumber        = errors.New("expected number")
	ErrExpectedString        = errors.New("expected string")
	ErrExpectedEOE           = errors.New("expected end of expression")
	ErrExpectedStruct        = errors.New("expected a struct at root level")
	ErrTrailingTokens        = errors.New("trailing tokens")
	ErrUnsupportedOptionHere = errors.New("optional value cannot be expressed here")
	ErrNonUnitEnumVariant    = errors.New("non-unit enum variants are not supported")
	ErrNonNewtypeEnumVariant = errors.New("untagged variant must be a record, tuple or unit struct")
	ErrUnnamedBoolean        = errors.New("boolean in unnamed position")
	ErrUnnamedSequence       = errors.New("sequence in unnamed position")
)

// IdentifierError reports an s-expr whose head identifier differs from the
// one the requested shape declares.
type IdentifierError struct {
	Expected string
	Found    string
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("expected s-expr identifier %s, found %s", e.Expected, e.Found)
}

// MissingInfoError reports a nested s-expr whose type cannot be inferred
// because the caller did not declare a shape for it.
type MissingInfoError struct {
	Identifier string
}

func (e *MissingInfoError) Error() string {
	return fmt.Sprintf("missing s-expr type info for %s", e.Identifier)
}

// MessageError carries free-form detail, such as a numeric overflow.
type MessageError struct {
	Msg string
}

func (e *MessageError) Error() string {
	return e.Msg
}

func messagef(format string, args ...interface{}) error {
	return errors.WithStack(&MessageError{Msg: fmt.Sprintf(format, args...)})
}

// VariantError reports a head identifier that names none of the candidates
// of an untagged interface, or an enum value outside its variant list.
type VariantError struct {
	Found   string
	Allowed []string
}

func (e *VariantError) Error() string {
	return fmt.Sprintf("unexpected variant name %q, expected one of {%s}", e.Found, strings.Join(e.Allowed, ", "))
}

// MissingFieldError reports a required record or tuple field that the input
// does not provide.
type MissingFieldError struct {
	Record string
	Field  string
}

func (e *MissingFieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("missing positional value in %s", e.Record)
	}
	return fmt.Sprintf("missing field %s in %s", e.Field, e.Record)
}

// UnsupportedTypeError is returned for Go types the format cannot represent:
// maps, byte slices, channels, functions, complex numbers and non-registered
// interfaces.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return "sexp: unsupported type: " + e.Type.String()
}

// InvalidUnmarshalError describes an invalid argument passed to Unmarshal.
type InvalidUnmarshalError struct {
	Type reflect.Type
}

func (e *InvalidUnmarshalError) Error() string {
	if e.Type == nil {
		return "sexp: Unmarshal(nil)"
	}
	if e.Type.Kind() != reflect.Pointer {
		return "sexp: Unmarshal(non-pointer " + e.Type.String() + ")"
	}
	return "sexp: Unmarshal(nil " + e.Type.String() + ")"
}

// SyntaxError wraps a decode failure with the byte offset at which it was
// detected.
type SyntaxError struct {
	Offset int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("sexp: offset %d: %v", e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

func (e *SyntaxError) Cause() error { return e.Err }
