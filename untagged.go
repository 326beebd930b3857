package sexp

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
)

// variantSet is the closed set of record types that may stand behind an
// interface. The head identifier of every candidate is extracted once, on
// first use.
type variantSet struct {
	iface      reflect.Type
	candidates []reflect.Type

	once  sync.Once
	names []string
	err   error
}

var untaggedSets sync.Map // map[reflect.Type]*variantSet

// RegisterUntagged declares the candidate types for the interface type I.
// Values of I are written as the candidate itself and read back by matching
// the head identifier of the input against the candidates' identifiers.
//
//	type Graphic interface{ isGraphic() }
//
//	func init() {
//		sexp.RegisterUntagged[Graphic](Line{}, Circle{}, &Arc{})
//	}
//
// Every candidate must be a record, tuple or unit struct, or a pointer to
// one; otherwise decoding into I fails with ErrNonNewtypeEnumVariant.
// Registering the same interface again replaces the earlier set.
func RegisterUntagged[I any](candidates ...I) {
	it := reflect.TypeOf((*I)(nil)).Elem()
	if it.Kind() != reflect.Interface {
		panic("sexp: RegisterUntagged requires an interface type, got " + it.String())
	}

	vs := &variantSet{iface: it}
	for _, c := range candidates {
		vs.candidates = append(vs.candidates, reflect.TypeOf(c))
	}
	untaggedSets.Store(it, vs)
}

func lookupUntagged(t reflect.Type) *variantSet {
	if vs, ok := untaggedSets.Load(t); ok {
		return vs.(*variantSet)
	}
	return nil
}

func (vs *variantSet) variantNames() ([]string, error) {
	vs.once.Do(func() {
		names := make([]string, 0, len(vs.candidates))
		for _, c := range vs.candidates {
			name, err := extractName(c)
			if err != nil {
				vs.err = errors.Wrapf(err, "untagged %s", vs.iface)
				return
			}
			names = append(names, name)
		}
		vs.names = names
	})
	return vs.names, vs.err
}

// extractName probes a candidate for its head identifier without decoding
// anything.
func extractName(t reflect.Type) (string, error) {
	if t == nil {
		return "", errors.Wrap(ErrNonNewtypeEnumVariant, "nil candidate")
	}
	base := t
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	if base.Kind() != reflect.Struct || base == nodeType {
		return "", errors.Wrapf(ErrNonNewtypeEnumVariant, "candidate %s", t)
	}
	info, err := structInfoOf(base)
	if err != nil {
		return "", err
	}
	return info.name, nil
}

func (d *decodeState) untagged(v reflect.Value) error {
	vs := lookupUntagged(v.Type())
	names, err := vs.variantNames()
	if err != nil {
		return err
	}

	d.cur.skipWhitespace()
	head, err := d.cur.peekHeadIdentifier()
	if err != nil {
		return err
	}

	for i, name := range names {
		if name != head {
			continue
		}
		t := vs.candidates[i]
		if t.Kind() == reflect.Pointer {
			p := reflect.New(t.Elem())
			if err := d.structValue(p.Elem()); err != nil {
				return err
			}
			v.Set(p)
			return nil
		}
		x := reflect.New(t).Elem()
		if err := d.structValue(x); err != nil {
			return err
		}
		v.Set(x)
		return nil
	}

	return &VariantError{Found: head, Allowed: names}
}
