package sexp

import (
	"bytes"
	"io"
	"reflect"
	"strconv"

	"github.com/pkg/errors"
)

// Marshal returns the compact encoding of v. The root value must be a
// record, tuple or unit struct, a Node, or a value of a registered untagged
// interface.
func Marshal(v interface{}) ([]byte, error) {
	e := &encodeState{}
	if err := e.root(reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// MarshalIndent is like Marshal but starts every nested expression on a new
// line, indented by two spaces per level.
func MarshalIndent(v interface{}) ([]byte, error) {
	e := &encodeState{pretty: true}
	if err := e.root(reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// An Encoder writes s-expression documents to an output stream.
type Encoder struct {
	w      io.Writer
	pretty bool
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// SetIndent selects the indented output of MarshalIndent.
func (enc *Encoder) SetIndent(pretty bool) {
	enc.pretty = pretty
}

// Encode writes the encoding of v followed by a newline.
func (enc *Encoder) Encode(v interface{}) error {
	e := &encodeState{pretty: enc.pretty}
	if err := e.root(reflect.ValueOf(v)); err != nil {
		return err
	}
	e.buf.WriteByte('\n')
	_, err := enc.w.Write(e.buf.Bytes())
	return errors.Wrap(err, "sexp: write output")
}

type encodeState struct {
	buf    bytes.Buffer
	pretty bool
	lvl    int

	// set right after an opening paren without a head identifier
	bare bool
}

func (e *encodeState) root(v reflect.Value) error {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return errors.Wrap(ErrExpectedStruct, "cannot encode nil")
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return errors.Wrap(ErrExpectedStruct, "cannot encode nil")
	}

	t := v.Type()
	switch {
	case t == nodeType:
		n := v.Interface().(Node)
		return e.node(&n)
	case t.Kind() == reflect.Struct:
		return e.structValue(v)
	}
	return errors.Wrapf(ErrExpectedStruct, "cannot encode %s", t)
}

func (e *encodeState) newline() {
	e.buf.WriteByte('\n')
	for i := 0; i < e.lvl; i++ {
		e.buf.WriteString("  ")
	}
}

// separated reports whether the next item needs a separator.
func (e *encodeState) separated() bool {
	if e.bare {
		e.bare = false
		return false
	}
	return e.lvl > 0
}

func (e *encodeState) beginSExpr(name string) {
	if e.separated() {
		if e.pretty {
			e.newline()
		} else {
			e.buf.WriteByte(' ')
		}
	}
	e.lvl++
	e.buf.WriteByte('(')
	e.buf.WriteString(name)
	e.bare = name == ""
}

func (e *encodeState) endSExpr() {
	e.bare = false
	e.lvl--
	e.buf.WriteByte(')')
}

// writeAtom writes an already quoted atom preceded by its separator.
func (e *encodeState) writeAtom(s string) {
	if e.separated() {
		e.buf.WriteByte(' ')
	}
	e.buf.WriteString(s)
}

func (e *encodeState) structValue(v reflect.Value) error {
	info, err := structInfoOf(v.Type())
	if err != nil {
		return err
	}

	e.beginSExpr(info.name)
	for i := range info.fields {
		f := &info.fields[i]
		var err error
		if info.shape == shapeTuple {
			err = e.field(v.Field(f.index), "", false)
		} else {
			err = e.field(v.Field(f.index), f.name, true)
		}
		if err != nil {
			return errors.Wrapf(err, "%s.%s", info.name, f.name)
		}
	}
	e.endSExpr()
	return nil
}

func (e *encodeState) field(v reflect.Value, name string, named bool) error {
	t := v.Type()
	if t == nodeType {
		n := v.Interface().(Node)
		return e.node(&n)
	}
	if t == literalType {
		e.writeAtom(v.Interface().(Literal).encode())
		return nil
	}
	if isEnum(t) {
		e.writeAtom(quoteString(v.String(), false))
		return nil
	}

	switch t.Kind() {
	case reflect.Bool:
		if !named {
			return ErrUnnamedBoolean
		}
		if v.Bool() {
			e.writeAtom(quoteString(name, true))
		}
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.writeAtom(strconv.FormatInt(v.Int(), 10))
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.writeAtom(strconv.FormatUint(v.Uint(), 10))
		return nil

	case reflect.Float32, reflect.Float64:
		e.writeAtom(strconv.FormatFloat(v.Float(), 'f', -1, t.Bits()))
		return nil

	case reflect.String:
		e.writeAtom(quoteString(v.String(), true))
		return nil

	case reflect.Struct:
		return e.structValue(v)

	case reflect.Pointer:
		// absent optionals are not written at all
		if v.IsNil() {
			return nil
		}
		if t.Elem().Kind() == reflect.Pointer {
			return ErrUnsupportedOptionHere
		}
		return e.field(v.Elem(), name, named)

	case reflect.Slice, reflect.Array:
		if isBytes(t) {
			break
		}
		return e.sequence(v, name, named)

	case reflect.Interface:
		if t.NumMethod() == 0 || lookupUntagged(t) != nil {
			if v.IsNil() {
				return nil
			}
			return e.field(v.Elem(), name, named)
		}
	}

	return &UnsupportedTypeError{Type: t}
}

func (e *encodeState) sequence(v reflect.Value, name string, named bool) error {
	if !named {
		return ErrUnnamedSequence
	}

	if name != "" {
		e.beginSExpr(name)
	}
	for i := 0; i < v.Len(); i++ {
		if err := e.element(v.Index(i)); err != nil {
			return errors.Wrapf(err, "element %d", i)
		}
	}
	if name != "" {
		e.endSExpr()
	}
	return nil
}

func (e *encodeState) element(v reflect.Value) error {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ErrUnsupportedOptionHere
		}
		return e.element(v.Elem())
	}
	return e.field(v, "", false)
}

func (e *encodeState) node(n *Node) error {
	switch n.Kind {
	case KindAtom:
		if n.Value == "" {
			return ErrInvalidAtom
		}
		e.writeAtom(n.Value)
	case KindString:
		e.writeAtom(quote(n.Value))
	case KindList:
		rest := n.List
		if len(rest) > 0 && rest[0] != nil && rest[0].Kind == KindAtom {
			e.beginSExpr(rest[0].Value)
			rest = rest[1:]
		} else {
			e.beginSExpr("")
		}
		for _, c := range rest {
			if c == nil {
				continue
			}
			if err := e.node(c); err != nil {
				return err
			}
		}
		e.endSExpr()
	default:
		return errors.Errorf("sexp: unknown node kind %d", n.Kind)
	}
	return nil
}
