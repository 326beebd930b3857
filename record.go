package sexp

import (
	"reflect"

	"github.com/pkg/errors"
)

// record decodes "(name field...)" against the declared field order.
//
// Boolean flags are encoded by the presence of their name and may therefore
// be missing or appear in any order. When the identifier at the cursor names
// a field further ahead, skipTo remembers that field and every field in
// between is decoded as false or absent without reading input. Reaching the
// closing paren sets skipTo past the last field so that all remaining fields
// are synthesized the same way.
type recordState struct {
	d      *decodeState
	info   *structInfo
	index  int
	skipTo int
	closed bool
}

const noSkip = -1

func (d *decodeState) record(v reflect.Value, info *structInfo) error {
	if err := d.consumeBeginning(info.name); err != nil {
		return err
	}

	r := &recordState{
		d:      d,
		info:   info,
		skipTo: noSkip,
	}
	if err := r.checkEOE(); err != nil {
		return err
	}

	for r.nextKey() {
		f := &info.fields[r.index]
		if err := r.value(v.Field(f.index), f); err != nil {
			return errors.Wrapf(err, "%s.%s", info.name, f.name)
		}
		r.index++
		if err := r.checkEOE(); err != nil {
			return err
		}
	}

	if !r.closed {
		return d.consumeEnd()
	}
	return nil
}

func (r *recordState) checkEOE() error {
	r.d.cur.skipWhitespace()
	if r.skipTo != noSkip {
		return nil
	}
	b, err := r.d.cur.peekChar()
	if err != nil {
		return err
	}
	if b == ')' {
		if err := r.d.cur.consume(1); err != nil {
			return err
		}
		r.closed = true
		r.skipTo = len(r.info.fields) + 1
	}
	return nil
}

// nextKey advances past empty-named fields that are being skipped; they keep
// whatever value they had.
func (r *recordState) nextKey() bool {
	for r.index < len(r.info.fields) {
		if r.info.fields[r.index].name != "" || r.skipTo == noSkip {
			return true
		}
		if r.skipTo == r.index {
			r.skipTo = noSkip
		}
		r.index++
	}
	return false
}

func (r *recordState) value(v reflect.Value, f *fieldInfo) error {
	if r.index >= len(r.info.fields) {
		panic("sexp: value requested without a field")
	}

	if r.skipTo != noSkip {
		if r.skipTo == r.index {
			r.skipTo = noSkip
			return r.present(v, f)
		}
		return r.missing(v, f)
	}

	if ident := r.d.cur.peekIdentifier(); ident != "" {
		if ident == f.name {
			if err := r.d.cur.consume(len(ident)); err != nil {
				return err
			}
			return r.present(v, f)
		}
		for i := r.index + 1; i < len(r.info.fields); i++ {
			if r.info.fields[i].name == ident {
				if err := r.d.cur.consume(len(ident)); err != nil {
					return err
				}
				r.skipTo = i
				return r.missing(v, f)
			}
		}
	}

	return r.d.field(v, f.name, true)
}

// present stores a flag whose name appeared in the input.
func (r *recordState) present(v reflect.Value, f *fieldInfo) error {
	switch {
	case v.Kind() == reflect.Bool:
		v.SetBool(true)
	case v.Kind() == reflect.Pointer && v.Type().Elem().Kind() == reflect.Bool:
		p := reflect.New(v.Type().Elem())
		p.Elem().SetBool(true)
		v.Set(p)
	default:
		return messagef("invalid type: flag %s for %s", f.name, v.Type())
	}
	return nil
}

// missing stores false or absent for a field that the input skipped.
func (r *recordState) missing(v reflect.Value, f *fieldInfo) error {
	switch {
	case v.Kind() == reflect.Bool:
		v.SetBool(false)
	case v.Kind() == reflect.Pointer:
		v.Set(reflect.Zero(v.Type()))
	case f.def:
		v.Set(reflect.Zero(v.Type()))
	default:
		return &MissingFieldError{Record: r.info.name, Field: f.name}
	}
	return nil
}

// tuple decodes "(name value...)" positionally. Trailing optional or
// default fields may be missing.
func (d *decodeState) tuple(v reflect.Value, info *structInfo) error {
	if err := d.consumeBeginning(info.name); err != nil {
		return err
	}

	end := false
	checkEOE := func() error {
		if end {
			return nil
		}
		d.cur.skipWhitespace()
		b, err := d.cur.peekChar()
		if err != nil {
			return err
		}
		if b == ')' {
			end = true
			return d.cur.consume(1)
		}
		return nil
	}

	if err := checkEOE(); err != nil {
		return err
	}
	for i := range info.fields {
		f := &info.fields[i]
		fv := v.Field(f.index)
		if end {
			if fv.Kind() != reflect.Pointer && !f.def {
				return &MissingFieldError{Record: info.name, Field: f.name}
			}
			fv.Set(reflect.Zero(fv.Type()))
			continue
		}
		if err := d.field(fv, "", false); err != nil {
			return errors.Wrapf(err, "%s[%d]", info.name, i)
		}
		if err := checkEOE(); err != nil {
			return err
		}
	}

	if !end {
		return ErrExpectedEOE
	}
	return nil
}
