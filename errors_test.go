package sexp

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type BadTuple struct {
	Name `sexp:"bad,tuple"`
	Flag bool
}

type ListTuple struct {
	Name  `sexp:"list,tuple"`
	Items []int
}

type Small struct {
	Name  `sexp:"small,tuple"`
	Value uint8
}

type WithMap struct {
	Name   `sexp:"with_map"`
	Values map[string]int
}

type RestNotLast struct {
	Name  `sexp:"rest"`
	Items []int `sexp:""`
	After int
}

type RestNotSlice struct {
	Name `sexp:"rest"`
	Item int `sexp:",rest"`
}

type BadHead struct {
	Name `sexp:"bad-head"`
}

type NumberedFlag struct {
	Name   `sexp:"rest"`
	Layer2 bool
}

type NumberedFlagPtr struct {
	Name  `sexp:"rest"`
	Value int
	Hide  *bool `sexp:"hide-me"`
}

type DoubleOptional struct {
	Name  `sexp:"double"`
	Value **int
}

type Outer struct {
	Name  `sexp:"outer"`
	Drill *Drill `sexp:"drill"`
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		target  interface{}
		wantErr error
	}{
		{
			name:    "xfail: trailing tokens",
			input:   "(locked) extra",
			target:  &Locked{},
			wantErr: ErrTrailingTokens,
		},
		{
			name:    "xfail: bare atom at root",
			input:   "locked",
			target:  &Locked{},
			wantErr: ErrExpectedSExpr,
		},
		{
			name:    "xfail: missing head identifier",
			input:   "(1 2)",
			target:  &Size{},
			wantErr: ErrExpectedIdentifier,
		},
		{
			name:    "xfail: unterminated expression",
			input:   "(at 1",
			target:  &Position{},
			wantErr: ErrEOF,
		},
		{
			name:    "xfail: unterminated string",
			input:   `(descr "abc`,
			target:  &Description{},
			wantErr: ErrEOF,
		},
		{
			name:    "xfail: unit with content",
			input:   "(locked yes)",
			target:  &Locked{},
			wantErr: ErrExpectedEOE,
		},
		{
			name:    "xfail: extra tuple value",
			input:   "(attr smd virtual)",
			target:  &Attribute{},
			wantErr: ErrExpectedEOE,
		},
		{
			name:    "xfail: nested list where a string is declared",
			input:   "(attr (smd))",
			target:  &Attribute{},
			wantErr: ErrExpectedString,
		},
		{
			name:    "xfail: non-unit enum variant",
			input:   `(pad 1 smd (rect) (at 0 0) (size 1 1) (layers))`,
			target:  &Pad{},
			wantErr: ErrNonUnitEnumVariant,
		},
		{
			name:    "xfail: boolean in a tuple",
			input:   "(bad x)",
			target:  &BadTuple{},
			wantErr: ErrUnnamedBoolean,
		},
		{
			name:    "xfail: double optional",
			input:   "(double 1)",
			target:  &DoubleOptional{},
			wantErr: ErrUnsupportedOptionHere,
		},
		{
			name:    "xfail: root is not a struct",
			input:   "(x)",
			target:  new(int),
			wantErr: ErrExpectedStruct,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := UnmarshalString(tt.input, tt.target)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var serr *SyntaxError
			assert.True(t, errors.As(err, &serr))
		})
	}
}

func TestDecodeTypedErrors(t *testing.T) {
	t.Run("identifier", func(t *testing.T) {
		err := UnmarshalString("(unlocked)", &Locked{})
		var ierr *IdentifierError
		require.True(t, errors.As(err, &ierr))
		assert.Equal(t, "locked", ierr.Expected)
		assert.Equal(t, "unlocked", ierr.Found)
	})

	t.Run("missing info for a nested list", func(t *testing.T) {
		err := UnmarshalString("(loose (thing 1))", &Loose{})
		var merr *MissingInfoError
		require.True(t, errors.As(err, &merr))
		assert.Equal(t, "thing", merr.Identifier)
	})

	t.Run("missing info for a sequence in a tuple", func(t *testing.T) {
		err := UnmarshalString("(list (items 1 2))", &ListTuple{})
		var merr *MissingInfoError
		require.True(t, errors.As(err, &merr))
		assert.Equal(t, "items", merr.Identifier)
	})

	t.Run("unknown enum variant", func(t *testing.T) {
		err := UnmarshalString(`(pad 1 smd oval (at 0 0) (size 1 1) (layers))`, &Pad{})
		var verr *VariantError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "oval", verr.Found)
		assert.Equal(t, []string{"circle", "rect"}, verr.Allowed)
	})

	t.Run("overflow", func(t *testing.T) {
		err := UnmarshalString("(small 300)", &Small{})
		var merr *MessageError
		require.True(t, errors.As(err, &merr))
		assert.Contains(t, merr.Msg, "300")
	})

	t.Run("missing required field", func(t *testing.T) {
		err := UnmarshalString("(size 1.27)", &Size{})
		var ferr *MissingFieldError
		require.True(t, errors.As(err, &ferr))
		assert.Equal(t, "size", ferr.Record)
		assert.Equal(t, "height", ferr.Field)
	})

	t.Run("unsupported type", func(t *testing.T) {
		err := UnmarshalString("(with_map (values))", &WithMap{})
		var uerr *UnsupportedTypeError
		require.True(t, errors.As(err, &uerr))
	})

	t.Run("invalid unmarshal target", func(t *testing.T) {
		var ierr *InvalidUnmarshalError
		assert.True(t, errors.As(UnmarshalString("(locked)", Locked{}), &ierr))
		assert.True(t, errors.As(UnmarshalString("(locked)", nil), &ierr))
		assert.True(t, errors.As(UnmarshalString("(locked)", (*Locked)(nil)), &ierr))
	})

	t.Run("offset", func(t *testing.T) {
		err := UnmarshalString("(locked)   (locked)", &Locked{})
		var serr *SyntaxError
		require.True(t, errors.As(err, &serr))
		assert.Equal(t, 11, serr.Offset)
	})

	t.Run("field path", func(t *testing.T) {
		err := UnmarshalString("(at 1 x)", &Position{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at.y")
	})
}

func TestSchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		target interface{}
	}{
		{name: "rest capture not last", target: &RestNotLast{}},
		{name: "rest capture not a slice", target: &RestNotSlice{}},
		{name: "head is not an identifier", target: &BadHead{}},
		{name: "flag name with a digit", target: &NumberedFlag{}},
		{name: "optional flag name with a dash", target: &NumberedFlagPtr{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := UnmarshalString("(rest)", tt.target)
			var serr *SchemaError
			require.True(t, errors.As(err, &serr))

			_, err = Marshal(tt.target)
			require.True(t, errors.As(err, &serr))
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	t.Run("boolean in a tuple", func(t *testing.T) {
		_, err := Marshal(BadTuple{Flag: true})
		assert.ErrorIs(t, err, ErrUnnamedBoolean)
	})

	t.Run("sequence in a tuple", func(t *testing.T) {
		_, err := Marshal(ListTuple{Items: []int{1}})
		assert.ErrorIs(t, err, ErrUnnamedSequence)
	})

	t.Run("nil element", func(t *testing.T) {
		type ptrs struct {
			Name  `sexp:"ptrs"`
			Items []*int `sexp:"items"`
		}
		_, err := Marshal(ptrs{Items: []*int{ptr(1), nil}})
		assert.ErrorIs(t, err, ErrUnsupportedOptionHere)
	})

	t.Run("double optional", func(t *testing.T) {
		v := ptr(1)
		_, err := Marshal(DoubleOptional{Value: &v})
		assert.ErrorIs(t, err, ErrUnsupportedOptionHere)
	})

	t.Run("nil root", func(t *testing.T) {
		_, err := Marshal(nil)
		assert.ErrorIs(t, err, ErrExpectedStruct)
		_, err = Marshal((*Locked)(nil))
		assert.ErrorIs(t, err, ErrExpectedStruct)
	})

	t.Run("scalar root", func(t *testing.T) {
		_, err := Marshal(42)
		assert.ErrorIs(t, err, ErrExpectedStruct)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := Marshal(WithMap{Values: map[string]int{"a": 1}})
		var uerr *UnsupportedTypeError
		assert.True(t, errors.As(err, &uerr))
	})
}

func TestOptional(t *testing.T) {
	t.Run("absent record", func(t *testing.T) {
		var got Outer
		require.NoError(t, UnmarshalString("(outer)", &got))
		assert.Nil(t, got.Drill)
	})

	t.Run("present record", func(t *testing.T) {
		var got Outer
		require.NoError(t, UnmarshalString("(outer (drill 1))", &got))
		require.NotNil(t, got.Drill)
		assert.Equal(t, float32(1), got.Drill.Drill1)
	})

	t.Run("error after consuming input is not absence", func(t *testing.T) {
		err := UnmarshalString("(outer (drill abc))", &Outer{})
		var merr *MessageError
		require.True(t, errors.As(err, &merr))
	})

	t.Run("type error in the last field reads as absence", func(t *testing.T) {
		err := UnmarshalString("(at 1 2 abc)", &Position{})
		assert.ErrorIs(t, err, ErrExpectedEOE)
	})

	t.Run("schema errors are never absence", func(t *testing.T) {
		type wrapper struct {
			Name  `sexp:"wrapper"`
			Value *map[string]int `sexp:"value"`
		}
		err := UnmarshalString("(wrapper 1)", &wrapper{})
		var uerr *UnsupportedTypeError
		require.True(t, errors.As(err, &uerr))
	})

	t.Run("nothing consumed on absence", func(t *testing.T) {
		var got Position
		require.NoError(t, UnmarshalString("(at 1 2   )", &got))
		assert.Nil(t, got.Rot)
	})
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t,
		`unexpected variant name "baz", expected one of {foo, bar}`,
		(&VariantError{Found: "baz", Allowed: []string{"foo", "bar"}}).Error())
	assert.Equal(t,
		"expected s-expr identifier locked, found unlocked",
		(&IdentifierError{Expected: "locked", Found: "unlocked"}).Error())
	assert.True(t, strings.HasPrefix(
		(&SyntaxError{Offset: 3, Err: ErrEOF}).Error(), "sexp:"))
}
