package sexp

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Name declares the head identifier of a record. The tag of the Name field
// carries the identifier and the shape options:
//
//	type Position struct {
//		sexp.Name `sexp:"at"`
//		X   float32
//		Y   float32
//		Rot *int16
//	}
//
//	type Attribute struct {
//		sexp.Name `sexp:"attr,tuple"`
//		Value string
//	}
//
// A struct without a Name field uses its Go type name.
type Name struct{}

// Enum is implemented by string types whose values form a closed set of unit
// variants, e.g. pad shapes. The variant tag is written as a bare word.
type Enum interface {
	SExpVariants() []string
}

type shapeKind int

const (
	shapeRecord shapeKind = iota
	shapeTuple
	shapeUnit
)

type fieldInfo struct {
	name  string
	index int
	typ   reflect.Type

	// keep the zero value when the input does not provide the field
	def bool
}

type structInfo struct {
	name   string
	shape  shapeKind
	fields []fieldInfo
}

// SchemaError reports a struct whose tags cannot describe a valid shape.
type SchemaError struct {
	Type reflect.Type
	Msg  string
}

func (e *SchemaError) Error() string {
	return "sexp: invalid schema for " + e.Type.String() + ": " + e.Msg
}

var (
	nameType = reflect.TypeOf(Name{})
	nodeType = reflect.TypeOf(Node{})
	enumType = reflect.TypeOf((*Enum)(nil)).Elem()
)

type structEntry struct {
	once sync.Once
	info *structInfo
	err  error
}

var structCache sync.Map // map[reflect.Type]*structEntry

func structInfoOf(t reflect.Type) (*structInfo, error) {
	e, _ := structCache.LoadOrStore(t, &structEntry{})
	entry := e.(*structEntry)
	entry.once.Do(func() {
		entry.info, entry.err = buildStructInfo(t)
	})
	return entry.info, entry.err
}

func buildStructInfo(t reflect.Type) (*structInfo, error) {
	info := &structInfo{
		name:  t.Name(),
		shape: shapeRecord,
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		if sf.Type == nameType {
			tag, ok := sf.Tag.Lookup("sexp")
			if !ok {
				continue
			}
			name, opts := parseTag(tag)
			if name != "" {
				info.name = name
			}
			if opts.has("tuple") {
				info.shape = shapeTuple
			}
			continue
		}

		if !sf.IsExported() {
			continue
		}

		tag, tagged := sf.Tag.Lookup("sexp")
		if tag == "-" {
			continue
		}
		name, opts := parseTag(tag)
		// only "" and ",rest" select the trailing capture
		if !tagged || (name == "" && opts != "" && !opts.has("rest")) {
			name = strings.ToLower(sf.Name)
		}

		info.fields = append(info.fields, fieldInfo{
			name:  name,
			index: i,
			typ:   sf.Type,
			def:   opts.has("default") || opts.has("rest"),
		})
	}

	if info.name == "" {
		return nil, &SchemaError{Type: t, Msg: "anonymous struct without a Name tag"}
	}
	if !isIdentifier(info.name) {
		return nil, &SchemaError{Type: t, Msg: fmt.Sprintf("head identifier %q is not made of letters and underscores", info.name)}
	}

	if len(info.fields) == 0 {
		info.shape = shapeUnit
		return info, nil
	}

	if info.shape == shapeRecord {
		for _, f := range info.fields {
			// a flag is written as its bare name and must read back as one
			if isFlag(f.typ) && !isIdentifier(f.name) {
				return nil, &SchemaError{Type: t, Msg: fmt.Sprintf("flag name %q is not made of letters and underscores", f.name)}
			}
		}
		for i, f := range info.fields {
			if f.name != "" {
				continue
			}
			if i != len(info.fields)-1 {
				return nil, &SchemaError{Type: t, Msg: "the field with the empty name must be the last field"}
			}
			if f.typ.Kind() != reflect.Slice {
				return nil, &SchemaError{Type: t, Msg: "the field with the empty name must be a slice"}
			}
			info.fields[i].def = true
		}
	}

	return info, nil
}

type tagOptions string

func parseTag(tag string) (string, tagOptions) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, tagOptions(opts)
}

func (o tagOptions) has(opt string) bool {
	s := string(o)
	for s != "" {
		var name string
		name, s, _ = strings.Cut(s, ",")
		if name == opt {
			return true
		}
	}
	return false
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}
	return true
}

func isFlag(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Bool
}

func isEnum(t reflect.Type) bool {
	return t.Kind() == reflect.String && t.Implements(enumType)
}

func isBytes(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}

// isSchemaError reports errors caused by the Go types rather than the input.
// The optional resolver never turns these into absence.
func isSchemaError(err error) bool {
	var ute *UnsupportedTypeError
	var se *SchemaError
	switch {
	case errors.As(err, &ute), errors.As(err, &se):
		return true
	case errors.Is(err, ErrUnsupportedOptionHere),
		errors.Is(err, ErrUnnamedBoolean),
		errors.Is(err, ErrNonNewtypeEnumVariant):
		return true
	}
	return false
}
