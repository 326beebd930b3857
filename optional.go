package sexp

import (
	"reflect"
)

// optional decodes a pointer field. The format has no marker for absence:
// an absent value is simply not written. The value is therefore decoded as
// if it were present, and a failure that happens before any input was
// consumed is taken to mean the value is absent. A failure after input was
// consumed is a real error.
//
// This can mask a genuine type error in the last field of a record as
// absence; the record then fails on its closing paren instead.
func (d *decodeState) optional(v reflect.Value, name string, named bool) error {
	elem := v.Type().Elem()
	if elem.Kind() == reflect.Pointer {
		return ErrUnsupportedOptionHere
	}

	d.cur.skipWhitespace()
	mark := d.cur.mark()

	p := reflect.New(elem)
	if err := d.field(p.Elem(), name, named); err != nil {
		if d.cur.touchedSince(mark) || isSchemaError(err) {
			return err
		}
		d.cur.reset(mark)
		v.Set(reflect.Zero(v.Type()))
		return nil
	}
	v.Set(p)
	return nil
}
