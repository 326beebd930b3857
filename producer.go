package sexp

// Producer builds Node trees, validating atoms as it goes.
type Producer interface {
	Atom(s string) (n *Node, err error)
	String(s string) (n *Node, err error)
	List(children ...*Node) (n *Node, err error)
}

type producer struct{}

var DefaultProducer Producer = producer{}

func MustAtom(s string) (n *Node) {
	var err error
	n, err = DefaultProducer.Atom(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Atom accepts any non-empty text that would read back as a single atom.
func (e producer) Atom(s string) (n *Node, err error) {
	if s == "" {
		return nil, ErrInvalidAtom
	}
	for i := 0; i < len(s); i++ {
		if isAtomTerminator(s[i]) {
			return nil, ErrInvalidAtom
		}
	}

	return &Node{
		Kind:  KindAtom,
		Value: s,
		List:  nil,
	}, nil
}

func MustString(s string) (n *Node) {
	var err error
	n, err = DefaultProducer.String(s)
	if err != nil {
		panic(err)
	}
	return
}

func (e producer) String(s string) (n *Node, err error) {
	return &Node{
		Kind:  KindString,
		Value: s,
		List:  nil,
	}, nil
}

func MustList(children ...*Node) (n *Node) {
	var err error
	n, err = DefaultProducer.List(children...)
	if err != nil {
		panic(err)
	}
	return
}

func (e producer) List(children ...*Node) (n *Node, err error) {
	if children == nil {
		children = make([]*Node, 0)
	}
	for _, c := range children {
		if c == nil {
			return nil, ErrInvalidAtom
		}
	}
	return &Node{
		Kind:  KindList,
		Value: "",
		List:  children,
	}, nil
}
