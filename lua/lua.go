// Package lua maps s-expression trees onto Lua tables and back.
//
// A list becomes {list={...}}, an atom {token="..."} and a quoted string
// {string="..."}:
//
//	(layers "F.Cu" *.Mask)
//	{list={{token="layers"},{string="F.Cu"},{token="*.Mask"}}}
package lua

import (
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"

	sexp "github.com/alttpo/kicad-sexp"
)

const (
	keyList   = "list"
	keyToken  = "token"
	keyString = "string"
)

var ErrNotATree = errors.New("value is not an s-expression table")

func table() *lua.LTable {
	return &lua.LTable{
		Metatable: lua.LNil,
	}
}

// ToTable converts n into its table form.
func ToTable(n *sexp.Node) *lua.LTable {
	t := table()
	switch n.Kind {
	case sexp.KindList:
		list := table()
		for _, c := range n.List {
			if c == nil {
				continue
			}
			list.Append(ToTable(c))
		}
		t.RawSetString(keyList, list)
	case sexp.KindString:
		t.RawSetString(keyString, lua.LString(n.Value))
	default:
		t.RawSetString(keyToken, lua.LString(n.Value))
	}
	return t
}

// FromTable converts a table produced by ToTable, or written by hand in the
// same shape, back into a tree. Atoms are validated like DefaultProducer does.
func FromTable(v lua.LValue) (*sexp.Node, error) {
	t, ok := v.(*lua.LTable)
	if !ok {
		return nil, errors.Wrapf(ErrNotATree, "got %s", v.Type())
	}

	if list, ok := t.RawGetString(keyList).(*lua.LTable); ok {
		children := make([]*sexp.Node, 0, list.Len())
		for i := 1; i <= list.Len(); i++ {
			c, err := FromTable(list.RawGetInt(i))
			if err != nil {
				return nil, errors.Wrapf(err, "list[%d]", i)
			}
			children = append(children, c)
		}
		return sexp.DefaultProducer.List(children...)
	}
	if s, ok := t.RawGetString(keyToken).(lua.LString); ok {
		return sexp.DefaultProducer.Atom(string(s))
	}
	if s, ok := t.RawGetString(keyString).(lua.LString); ok {
		return sexp.DefaultProducer.String(string(s))
	}
	return nil, ErrNotATree
}

// Open installs sexp_parse and sexp_format as globals of l.
//
// sexp_parse(text) returns the table, the byte offset reached and nil, or
// nil, the offset of the failure and {err=message}.
// sexp_format(table) returns the compact text of a table.
func Open(l *lua.LState) {
	l.SetGlobal("sexp_parse", l.NewFunction(luaParse))
	l.SetGlobal("sexp_format", l.NewFunction(luaFormat))
}

func luaParse(l *lua.LState) int {
	text := l.CheckString(1)
	n, err := sexp.ParseString(text)
	if err != nil {
		var serr *sexp.SyntaxError
		offset := 0
		if errors.As(err, &serr) {
			offset = serr.Offset
		}
		perr := l.NewTable()
		perr.RawSetString("err", lua.LString(errors.Cause(err).Error()))
		l.Push(lua.LNil)
		l.Push(lua.LNumber(offset))
		l.Push(perr)
		return 3
	}
	l.Push(ToTable(n))
	l.Push(lua.LNumber(len(text)))
	l.Push(lua.LNil)
	return 3
}

func luaFormat(l *lua.LState) int {
	n, err := FromTable(l.CheckTable(1))
	if err != nil {
		l.RaiseError("%s", err.Error())
		return 0
	}
	l.Push(lua.LString(n.String()))
	return 1
}

// Encode writes n as a Lua chunk that returns its table form.
func Encode(w io.Writer, n *sexp.Node) error {
	var sb strings.Builder
	sb.WriteString("return ")
	writeValue(&sb, ToTable(n))
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return errors.Wrap(err, "lua: write output")
}

func writeValue(sb *strings.Builder, v lua.LValue) {
	switch v := v.(type) {
	case *lua.LTable:
		sb.WriteByte('{')
		if list, ok := v.RawGetString(keyList).(*lua.LTable); ok {
			sb.WriteString(keyList + "={")
			for i := 1; i <= list.Len(); i++ {
				if i > 1 {
					sb.WriteByte(',')
				}
				writeValue(sb, list.RawGetInt(i))
			}
			sb.WriteByte('}')
		} else if s, ok := v.RawGetString(keyToken).(lua.LString); ok {
			sb.WriteString(keyToken + "=")
			writeValue(sb, s)
		} else if s, ok := v.RawGetString(keyString).(lua.LString); ok {
			sb.WriteString(keyString + "=")
			writeValue(sb, s)
		}
		sb.WriteByte('}')
	case lua.LString:
		writeQuoted(sb, string(v))
	}
}

// writeQuoted writes s as a Lua 5.1 string literal; control bytes use
// decimal escapes since 5.1 has no \x.
func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case b == '"' || b == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(b)
		case b == '\n':
			sb.WriteString(`\n`)
		case b < 0x20 || b == 0x7f:
			sb.WriteByte('\\')
			sb.WriteString(leftPad3(strconv.Itoa(int(b))))
		default:
			sb.WriteByte(b)
		}
	}
	sb.WriteByte('"')
}

func leftPad3(s string) string {
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}

// Decode runs a Lua chunk in a state without the standard libraries and
// converts the table it returns into a tree.
func Decode(r io.Reader) (*sexp.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "lua: read input")
	}

	l := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer l.Close()

	if err := l.DoString(string(src)); err != nil {
		return nil, errors.Wrap(err, "lua: run chunk")
	}
	if l.GetTop() == 0 {
		return nil, errors.Wrap(ErrNotATree, "chunk returned nothing")
	}
	return FromTable(l.Get(-1))
}
