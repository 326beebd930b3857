package main

import (
	"github.com/fxamacker/cbor/v2"

	sexp "github.com/alttpo/kicad-sexp"
)

// cborNode mirrors sexp.Node as a CBOR array: [kind, value, children].
type cborNode struct {
	_     struct{} `cbor:",toarray"`
	Kind  int
	Value string
	List  []cborNode
}

func toCBORNode(n *sexp.Node) cborNode {
	c := cborNode{
		Kind:  int(n.Kind),
		Value: n.Value,
	}
	for _, child := range n.List {
		c.List = append(c.List, toCBORNode(child))
	}
	return c
}

func fromCBORNode(c cborNode) *sexp.Node {
	n := &sexp.Node{
		Kind:  sexp.Kind(c.Kind),
		Value: c.Value,
	}
	if n.Kind == sexp.KindList {
		n.List = make([]*sexp.Node, 0, len(c.List))
		for _, child := range c.List {
			n.List = append(n.List, fromCBORNode(child))
		}
	}
	return n
}

func encodeCBOR(n *sexp.Node) ([]byte, error) {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return em.Marshal(toCBORNode(n))
}

func decodeCBOR(data []byte) (*sexp.Node, error) {
	var c cborNode
	if err := cbor.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return fromCBORNode(c), nil
}
