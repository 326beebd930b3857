package sexp

import (
	"reflect"
	"strconv"
)

// Literal is a bare value that is either a small unsigned number or text,
// as used for pad numbers: (pad 1 ...), (pad A1 ...), (pad "" ...).
// Numbers that fit in a uint16 read back as numbers, anything else as text.
type Literal struct {
	num    uint16
	text   string
	isText bool
}

var literalType = reflect.TypeOf(Literal{})

func NumberLiteral(n uint16) Literal {
	return Literal{num: n}
}

func TextLiteral(s string) Literal {
	return Literal{text: s, isText: true}
}

// Number returns the numeric value and whether the literal is a number.
func (l Literal) Number() (uint16, bool) {
	return l.num, !l.isText
}

func (l Literal) String() string {
	if l.isText {
		return l.text
	}
	return strconv.FormatUint(uint64(l.num), 10)
}

func (l Literal) encode() string {
	if l.isText {
		return quoteString(l.text, true)
	}
	return strconv.FormatUint(uint64(l.num), 10)
}

func (d *decodeState) literal(v reflect.Value) error {
	tok, err := d.cur.peekToken()
	if err != nil {
		return err
	}

	if tok == tokenInt {
		mark := d.cur.mark()
		n, err := d.cur.parseUint(16, literalType)
		if err == nil {
			v.Set(reflect.ValueOf(NumberLiteral(uint16(n))))
			return nil
		}
		d.cur.reset(mark)
	}

	s, err := d.cur.parseString()
	if err != nil {
		return err
	}
	v.Set(reflect.ValueOf(TextLiteral(s)))
	return nil
}
