package sexp

// cursor is a forward-only view over the input of one decode call. It never
// mutates or copies the input; every operation either peeks or advances off.
type cursor struct {
	src string
	off int
}

func newCursor(src string) *cursor {
	return &cursor{src: src}
}

func (c *cursor) rest() string {
	return c.src[c.off:]
}

func (c *cursor) empty() bool {
	return c.off >= len(c.src)
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

func isIdentChar(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '_'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func (c *cursor) skipWhitespace() {
	for c.off < len(c.src) && isSpace(c.src[c.off]) {
		c.off++
	}
}

func (c *cursor) peekChar() (byte, error) {
	if c.empty() {
		return 0, ErrEOF
	}
	return c.src[c.off], nil
}

func (c *cursor) nextChar() (byte, error) {
	b, err := c.peekChar()
	if err != nil {
		return 0, err
	}
	c.off++
	return b, nil
}

func (c *cursor) consume(n int) error {
	if len(c.src)-c.off < n {
		return ErrEOF
	}
	c.off += n
	return nil
}

// identLen returns the length of the run of identifier characters starting
// at byte offset i.
func (c *cursor) identLen(i int) int {
	n := 0
	for i+n < len(c.src) && isIdentChar(c.src[i+n]) {
		n++
	}
	return n
}

// peekIdentifier returns the bare identifier at the cursor, or "" if the
// next character cannot start one.
func (c *cursor) peekIdentifier() string {
	n := c.identLen(c.off)
	return c.src[c.off : c.off+n]
}

// peekHeadIdentifier returns the identifier following an opening paren
// without consuming anything.
func (c *cursor) peekHeadIdentifier() (string, error) {
	b, err := c.peekChar()
	if err != nil {
		return "", err
	}
	if b != '(' {
		return "", ErrExpectedSExpr
	}
	n := c.identLen(c.off + 1)
	if n == 0 {
		return "", ErrExpectedIdentifier
	}
	return c.src[c.off+1 : c.off+1+n], nil
}

// atomLen is the length of the maximal run of characters that are neither
// whitespace nor a closing paren.
func (c *cursor) atomLen() int {
	n := 0
	for c.off+n < len(c.src) {
		b := c.src[c.off+n]
		if isSpace(b) || b == ')' {
			break
		}
		n++
	}
	return n
}

// tokenClass classifies the token at the cursor with a single forward scan.
type tokenClass int

const (
	tokenString tokenClass = iota
	tokenInt
	tokenFloat
	tokenSExpr
)

func (c *cursor) peekToken() (tokenClass, error) {
	if c.empty() {
		return 0, ErrEOF
	}
	isInt := true
scan:
	for i := c.off; i < len(c.src); i++ {
		b := c.src[i]
		switch {
		case b == '(':
			return tokenSExpr, nil
		case b == '.':
			isInt = false
		case b == '-' || isDigit(b):
		case isSpace(b) || b == ')':
			break scan
		default:
			return tokenString, nil
		}
	}
	if isInt {
		return tokenInt, nil
	}
	return tokenFloat, nil
}

// mark and reset implement the dry-run cursor of the optional resolver.
func (c *cursor) mark() int {
	return c.off
}

func (c *cursor) reset(mark int) {
	c.off = mark
}

func (c *cursor) touchedSince(mark int) bool {
	return c.off > mark
}
