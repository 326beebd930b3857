package sexp

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeekToken(t *testing.T) {
	tests := []struct {
		input string
		want  tokenClass
	}{
		{"12 ", tokenInt},
		{"-12", tokenInt},
		{"12)", tokenInt},
		{"-4.5)", tokenFloat},
		{"1.2.3", tokenFloat},
		{"abc", tokenString},
		{"F.Cu", tokenString},
		{"1abc", tokenString},
		{`"12"`, tokenString},
		{"(at 1 2)", tokenSExpr},
		{"12(", tokenSExpr},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := newCursor(tt.input)
			got, err := c.peekToken()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 0, c.off)
		})
	}

	_, err := newCursor("").peekToken()
	assert.ErrorIs(t, err, ErrEOF)
}

func TestPeekHeadIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "xpass: plain", input: "(pad 1)", want: "pad"},
		{name: "xpass: underscore", input: "(fp_line)", want: "fp_line"},
		{name: "xpass: stops at digits", input: "(layer2 x)", want: "layer"},
		{name: "xfail: no paren", input: "pad", wantErr: ErrExpectedSExpr},
		{name: "xfail: no identifier", input: "(1)", wantErr: ErrExpectedIdentifier},
		{name: "xfail: empty", input: "", wantErr: ErrEOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCursor(tt.input)
			got, err := c.peekHeadIdentifier()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 0, c.off)
		})
	}
}

func TestParseQuoted(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		rest    string
		wantErr error
	}{
		{name: "xpass: empty", input: `""`, want: ""},
		{name: "xpass: plain", input: `"F.Cu" x`, want: "F.Cu", rest: " x"},
		{name: "xpass: escaped quote", input: `"a\"b"`, want: `a"b`},
		{name: "xpass: escaped backslash", input: `"a\\b"`, want: `a\b`},
		{name: "xpass: trailing backslash", input: `"x\\"`, want: `x\`},
		{name: "xpass: two backslashes", input: `"\\\\"`, want: `\\`},
		{name: "xpass: backslash then quote", input: `"\\\""`, want: `\"`},
		{name: "xpass: parens inside", input: `"(a b)")`, want: "(a b)", rest: ")"},
		{name: "xpass: lone backslash kept", input: `"a\b"`, want: `a\b`},
		{name: "xfail: unterminated", input: `"abc`, wantErr: ErrEOF},
		{name: "xfail: escaped final quote", input: `"abc\"`, wantErr: ErrEOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCursor(tt.input)
			got, err := c.parseQuoted()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.rest, c.rest())
		})
	}
}

func TestParseNumbers(t *testing.T) {
	c := newCursor("-90 255 256 1.5e3 x")

	i, err := c.parseInt(16, reflect.TypeOf(int16(0)))
	require.NoError(t, err)
	assert.Equal(t, int64(-90), i)

	c.skipWhitespace()
	u, err := c.parseUint(8, reflect.TypeOf(uint8(0)))
	require.NoError(t, err)
	assert.Equal(t, uint64(255), u)

	c.skipWhitespace()
	off := c.off
	_, err = c.parseUint(8, reflect.TypeOf(uint8(0)))
	var merr *MessageError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, off, c.off, "a rejected number must not move the cursor")

	_, err = c.parseUint(16, reflect.TypeOf(uint16(0)))
	require.NoError(t, err)

	c.skipWhitespace()
	f, err := c.parseFloat(64, reflect.TypeOf(float64(0)))
	require.NoError(t, err)
	assert.Equal(t, 1500.0, f)

	c.skipWhitespace()
	_, err = c.parseFloat(64, reflect.TypeOf(float64(0)))
	require.ErrorAs(t, err, &merr)

	_, err = newCursor(")").parseInt(64, reflect.TypeOf(int64(0)))
	assert.ErrorIs(t, err, ErrExpectedNumber)
}

func TestParseString(t *testing.T) {
	c := newCursor(`F.Cu "B.Cu" (x)`)

	s, err := c.parseString()
	require.NoError(t, err)
	assert.Equal(t, "F.Cu", s)

	c.skipWhitespace()
	s, err = c.parseString()
	require.NoError(t, err)
	assert.Equal(t, "B.Cu", s)

	c.skipWhitespace()
	_, err = c.parseString()
	assert.ErrorIs(t, err, ErrExpectedString)
}

func TestQuoteString(t *testing.T) {
	tests := []struct {
		input      string
		aggressive bool
		want       string
	}{
		{"", true, `""`},
		{"smd", true, "smd"},
		{"library_link", true, "library_link"},
		{"F.Cu", true, `"F.Cu"`},
		{"R1", true, `"R1"`},
		{`say "hi"`, true, `"say \"hi\""`},
		{`a\b`, true, `"a\\b"`},
		{"thru-hole", false, "thru-hole"},
		{"F.Cu", false, "F.Cu"},
		{"a b", false, `"a b"`},
		{"(x)", false, `"(x)"`},
		{"", false, `""`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, quoteString(tt.input, tt.aggressive))

			c := newCursor(tt.want)
			got, err := c.parseString()
			require.NoError(t, err)
			assert.Equal(t, tt.input, got)
		})
	}
}

func TestMarkReset(t *testing.T) {
	c := newCursor("abc def")
	m := c.mark()
	require.NoError(t, c.consume(3))
	assert.True(t, c.touchedSince(m))
	c.reset(m)
	assert.False(t, c.touchedSince(m))
	assert.Equal(t, "abc def", c.rest())

	assert.ErrorIs(t, c.consume(100), ErrEOF)
}

func TestWhitespace(t *testing.T) {
	c := newCursor(" \t\n\f\r1\v2 x")
	c.skipWhitespace()
	assert.Equal(t, 5, c.off)
	assert.Equal(t, 3, c.atomLen())

	tok, err := c.peekToken()
	require.NoError(t, err)
	assert.Equal(t, tokenString, tok)

	_, err = c.parseInt(64, reflect.TypeOf(int64(0)))
	var merr *MessageError
	assert.ErrorAs(t, err, &merr)
}
