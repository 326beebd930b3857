package sexp

import (
	"github.com/pkg/errors"
)

type Kind int

var (
	ErrUnexpectedChar = errors.New("unexpected character")
	ErrInvalidAtom    = errors.New("invalid atom")
)

const (
	KindList Kind = iota
	KindAtom
	KindString
)

// Node is an untyped s-expression: a list, a bare atom, or a quoted string.
// Fields of type Node capture the next value of the input verbatim, whatever
// its shape.
type Node struct {
	Kind
	Value string
	List  []*Node
}

func (n *Node) String() string {
	if n == nil {
		return ""
	}

	e := &encodeState{}
	err := e.node(n)
	if err != nil {
		return "!!(" + err.Error() + ")!!"
	}

	return e.buf.String()
}

// Head returns the leading atom of a list, or "" for anything else.
func (n *Node) Head() string {
	if n == nil || n.Kind != KindList || len(n.List) == 0 {
		return ""
	}
	if h := n.List[0]; h != nil && h.Kind == KindAtom {
		return h.Value
	}
	return ""
}

// Args returns the children of a list that follow its head.
func (n *Node) Args() []*Node {
	if n.Head() == "" {
		return nil
	}
	return n.List[1:]
}

// Find returns the first child list whose head is name.
func (n *Node) Find(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.List {
		if c.Head() == name {
			return c
		}
	}
	return nil
}

// FindAll returns every child list whose head is name.
func (n *Node) FindAll(name string) (found []*Node) {
	if n == nil {
		return
	}
	for _, c := range n.List {
		if c.Head() == name {
			found = append(found, c)
		}
	}
	return
}
