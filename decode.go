package sexp

import (
	"io"
	"reflect"

	"github.com/pkg/errors"
)

// Unmarshal decodes the s-expression in data into the value pointed to by v.
//
// The root value must be a record, tuple or unit struct, a Node, or an
// interface registered with RegisterUntagged. Input left over after the root
// expression is an error.
func Unmarshal(data []byte, v interface{}) error {
	return UnmarshalString(string(data), v)
}

// UnmarshalString is like Unmarshal but borrows s directly; decoded strings
// without escapes share its memory.
func UnmarshalString(s string, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &InvalidUnmarshalError{Type: reflect.TypeOf(v)}
	}

	d := &decodeState{cur: newCursor(s)}
	if err := d.root(rv.Elem()); err != nil {
		return &SyntaxError{Offset: d.cur.off, Err: err}
	}
	return nil
}

// A Decoder reads one s-expression document from an input stream.
type Decoder struct {
	r io.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode reads the whole stream and decodes it into v.
func (dec *Decoder) Decode(v interface{}) error {
	data, err := io.ReadAll(dec.r)
	if err != nil {
		return errors.Wrap(err, "sexp: read input")
	}
	return Unmarshal(data, v)
}

type decodeState struct {
	cur *cursor
}

func (d *decodeState) root(v reflect.Value) error {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}

	t := v.Type()
	switch {
	case t == nodeType:
		if err := d.node(v); err != nil {
			return err
		}
	case t.Kind() == reflect.Struct:
		if err := d.structValue(v); err != nil {
			return err
		}
	case t.Kind() == reflect.Interface && lookupUntagged(t) != nil:
		if err := d.untagged(v); err != nil {
			return err
		}
	default:
		return errors.Wrapf(ErrExpectedStruct, "cannot decode into %s", t)
	}

	d.cur.skipWhitespace()
	if !d.cur.empty() {
		return ErrTrailingTokens
	}
	return nil
}

// consumeBeginning consumes "(name" or fails without consuming anything.
func (d *decodeState) consumeBeginning(name string) error {
	d.cur.skipWhitespace()
	head, err := d.cur.peekHeadIdentifier()
	if err != nil {
		return err
	}
	if head != name {
		return &IdentifierError{Expected: name, Found: head}
	}
	return d.cur.consume(len(name) + 1)
}

// consumeEnd consumes the closing paren of the current expression.
func (d *decodeState) consumeEnd() error {
	d.cur.skipWhitespace()
	b, err := d.cur.nextChar()
	if err != nil {
		return err
	}
	if b != ')' {
		return ErrExpectedEOE
	}
	return nil
}

func (d *decodeState) structValue(v reflect.Value) error {
	info, err := structInfoOf(v.Type())
	if err != nil {
		return err
	}

	switch info.shape {
	case shapeUnit:
		if err := d.consumeBeginning(info.name); err != nil {
			return err
		}
		return d.consumeEnd()
	case shapeTuple:
		return d.tuple(v, info)
	default:
		return d.record(v, info)
	}
}

// field decodes one value against its declared Go type. name is the field
// name of the enclosing record; named is false in tuples and sequences.
func (d *decodeState) field(v reflect.Value, name string, named bool) error {
	d.cur.skipWhitespace()

	t := v.Type()
	if t == nodeType {
		return d.node(v)
	}
	if t == literalType {
		return d.literal(v)
	}
	if isEnum(t) {
		return d.enum(v)
	}

	switch t.Kind() {
	case reflect.Bool:
		// the name did not match at this position, so the flag is absent
		if !named {
			return ErrUnnamedBoolean
		}
		v.SetBool(false)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := d.cur.parseInt(t.Bits(), t)
		if err != nil {
			return err
		}
		v.SetInt(i)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := d.cur.parseUint(t.Bits(), t)
		if err != nil {
			return err
		}
		v.SetUint(u)
		return nil

	case reflect.Float32, reflect.Float64:
		f, err := d.cur.parseFloat(t.Bits(), t)
		if err != nil {
			return err
		}
		v.SetFloat(f)
		return nil

	case reflect.String:
		s, err := d.cur.parseString()
		if err != nil {
			return err
		}
		v.SetString(s)
		return nil

	case reflect.Struct:
		return d.structValue(v)

	case reflect.Pointer:
		return d.optional(v, name, named)

	case reflect.Slice, reflect.Array:
		if isBytes(t) {
			break
		}
		return d.sequence(v, name, named)

	case reflect.Interface:
		if t.NumMethod() == 0 {
			return d.anyValue(v, name, named)
		}
		if lookupUntagged(t) != nil {
			return d.untagged(v)
		}
	}

	return &UnsupportedTypeError{Type: t}
}

func (d *decodeState) enum(v reflect.Value) error {
	b, err := d.cur.peekChar()
	if err != nil {
		return err
	}
	if b == '(' {
		return ErrNonUnitEnumVariant
	}

	s, err := d.cur.parseString()
	if err != nil {
		return err
	}
	variants := v.Interface().(Enum).SExpVariants()
	for _, variant := range variants {
		if s == variant {
			v.SetString(s)
			return nil
		}
	}
	return &VariantError{Found: s, Allowed: variants}
}

// sequence decodes a slice or array. A named sequence is its own
// expression "(name elem...)"; the empty name takes the remaining elements
// of the enclosing expression.
func (d *decodeState) sequence(v reflect.Value, name string, named bool) error {
	if !named {
		head, err := d.cur.peekHeadIdentifier()
		if err != nil {
			return err
		}
		return &MissingInfoError{Identifier: head}
	}

	if name == "" {
		return d.elements(v)
	}

	if err := d.consumeBeginning(name); err != nil {
		return err
	}
	if err := d.elements(v); err != nil {
		return err
	}
	return d.consumeEnd()
}

// elements decodes unnamed values up to, but not including, the closing
// paren of the current expression.
func (d *decodeState) elements(v reflect.Value) error {
	t := v.Type()
	items := reflect.MakeSlice(reflect.SliceOf(t.Elem()), 0, 4)

	for {
		d.cur.skipWhitespace()
		b, err := d.cur.peekChar()
		if err != nil {
			return err
		}
		if b == ')' {
			break
		}

		items = reflect.Append(items, reflect.Zero(t.Elem()))
		if err := d.element(items.Index(items.Len() - 1)); err != nil {
			return errors.Wrapf(err, "element %d", items.Len()-1)
		}
	}

	if t.Kind() == reflect.Array {
		if items.Len() != t.Len() {
			return messagef("expected %d elements for %s, found %d", t.Len(), t, items.Len())
		}
		reflect.Copy(v, items)
		return nil
	}
	// "(layers)" reads back as the nil slice it was written from
	if items.Len() == 0 {
		v.Set(reflect.Zero(t))
		return nil
	}
	v.Set(items)
	return nil
}

// element decodes a sequence member. Pointers here are plain indirection:
// a position in a sequence cannot be absent.
func (d *decodeState) element(v reflect.Value) error {
	if v.Kind() == reflect.Pointer {
		p := reflect.New(v.Type().Elem())
		if err := d.element(p.Elem()); err != nil {
			return err
		}
		v.Set(p)
		return nil
	}
	return d.field(v, "", false)
}

// anyValue decodes a value whose shape the caller did not declare by looking at
// the token class. Nested expressions are only accepted when their head is
// the name of the field being decoded.
func (d *decodeState) anyValue(v reflect.Value, name string, named bool) error {
	tok, err := d.cur.peekToken()
	if err != nil {
		return err
	}

	var x interface{}
	switch tok {
	case tokenInt:
		if b, _ := d.cur.peekChar(); b == '-' {
			var i int64
			i, err = d.cur.parseInt(64, reflect.TypeOf(i))
			x = i
		} else {
			var u uint64
			u, err = d.cur.parseUint(64, reflect.TypeOf(u))
			x = u
		}
	case tokenFloat:
		var f float64
		f, err = d.cur.parseFloat(64, reflect.TypeOf(f))
		x = f
	case tokenString:
		x, err = d.cur.parseString()
	case tokenSExpr:
		head, herr := d.cur.peekHeadIdentifier()
		if herr != nil {
			return herr
		}
		if !named || name == "" || head != name {
			return &MissingInfoError{Identifier: head}
		}
		var items []interface{}
		err = d.sequence(reflect.ValueOf(&items).Elem(), name, true)
		x = items
	}
	if err != nil {
		return err
	}

	v.Set(reflect.ValueOf(x))
	return nil
}

func (d *decodeState) node(v reflect.Value) error {
	n, err := d.cur.parseNode()
	if err != nil {
		return err
	}
	v.Set(reflect.ValueOf(*n))
	return nil
}
