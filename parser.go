package sexp

import (
	"io"

	"github.com/pkg/errors"
)

// Parse reads a single s-expression from r into an untyped tree.
func Parse(r io.Reader) (n *Node, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "sexp: read input")
	}
	return ParseString(string(data))
}

// ParseString parses s into an untyped tree. Anything after the first
// complete s-expression other than whitespace is an error.
func ParseString(s string) (n *Node, err error) {
	c := newCursor(s)
	defer func() {
		if err != nil {
			n = nil
			err = &SyntaxError{Offset: c.off, Err: err}
		}
	}()

	n, err = c.parseNode()
	if err != nil {
		return
	}
	c.skipWhitespace()
	if !c.empty() {
		err = ErrTrailingTokens
	}
	return
}

func (c *cursor) parseNode() (n *Node, err error) {
	c.skipWhitespace()

	var b byte
	b, err = c.peekChar()
	if err != nil {
		return
	}

	switch b {
	case ')':
		return nil, ErrUnexpectedChar
	case '(':
		return c.parseList()
	case '"':
		var s string
		s, err = c.parseQuoted()
		if err != nil {
			return
		}
		return &Node{Kind: KindString, Value: s}, nil
	}

	return c.parseAtom()
}

func (c *cursor) parseList() (n *Node, err error) {
	if err = c.consume(1); err != nil {
		return
	}

	n = &Node{
		Kind: KindList,
		List: make([]*Node, 0, 10),
	}

	var b byte
	for {
		c.skipWhitespace()
		b, err = c.peekChar()
		if err != nil {
			return nil, err
		}
		if b == ')' {
			c.off++
			break
		}

		var child *Node
		child, err = c.parseNode()
		if err != nil {
			return nil, err
		}
		n.List = append(n.List, child)
	}

	return
}

func isAtomTerminator(b byte) bool {
	return isSpace(b) || b == '(' || b == ')' || b == '"'
}

func (c *cursor) parseAtom() (n *Node, err error) {
	i := c.off
	for i < len(c.src) && !isAtomTerminator(c.src[i]) {
		i++
	}
	if i == c.off {
		return nil, ErrUnexpectedChar
	}

	n = &Node{
		Kind:  KindAtom,
		Value: c.src[c.off:i],
	}
	c.off = i
	return
}
