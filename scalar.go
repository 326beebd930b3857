package sexp

import (
	"reflect"
	"strconv"
	"strings"
)

// parseNumber hands the maximal atom at the cursor to parse.
// The cursor only advances once parse accepts the text.
func (c *cursor) parseNumber(parse func(s string) error) error {
	n := c.atomLen()
	if n == 0 {
		return ErrExpectedNumber
	}
	if err := parse(c.src[c.off : c.off+n]); err != nil {
		return err
	}
	c.off += n
	return nil
}

func (c *cursor) parseInt(bits int, t reflect.Type) (v int64, err error) {
	err = c.parseNumber(func(s string) error {
		var perr error
		v, perr = strconv.ParseInt(s, 10, bits)
		if perr != nil {
			return messagef("invalid %s %q: %v", t, s, perr.(*strconv.NumError).Err)
		}
		return nil
	})
	return
}

func (c *cursor) parseUint(bits int, t reflect.Type) (v uint64, err error) {
	err = c.parseNumber(func(s string) error {
		var perr error
		v, perr = strconv.ParseUint(s, 10, bits)
		if perr != nil {
			return messagef("invalid %s %q: %v", t, s, perr.(*strconv.NumError).Err)
		}
		return nil
	})
	return
}

func (c *cursor) parseFloat(bits int, t reflect.Type) (v float64, err error) {
	err = c.parseNumber(func(s string) error {
		var perr error
		v, perr = strconv.ParseFloat(s, bits)
		if perr != nil {
			return messagef("invalid %s %q: %v", t, s, perr.(*strconv.NumError).Err)
		}
		return nil
	})
	return
}

// parseString reads either a quoted literal or a bare atom. Quoted literals
// that contain no escapes are returned as a substring of the input.
func (c *cursor) parseString() (string, error) {
	b, err := c.peekChar()
	if err != nil {
		return "", err
	}

	switch b {
	case '(':
		return "", ErrExpectedString
	case '"':
		return c.parseQuoted()
	}

	n := c.atomLen()
	if n == 0 {
		return "", ErrEOF
	}
	s := c.src[c.off : c.off+n]
	c.off += n
	return s, nil
}

// parseQuoted un-escapes one level of \\ and \" while scanning for the
// closing quote. Each round copies up to and including the next quote, then
// collapses escaped backslashes left to right; if what remains ends in a
// backslash that was not itself produced by a collapse, the quote is
// escaped and scanning continues.
func (c *cursor) parseQuoted() (string, error) {
	if err := c.consume(1); err != nil {
		return "", err
	}

	// fast path: no backslash before the closing quote
	rest := c.rest()
	if q := strings.IndexByte(rest, '"'); q >= 0 && strings.IndexByte(rest[:q], '\\') < 0 {
		c.off += q + 1
		return rest[:q], nil
	}

	var value []byte
	for {
		rest := c.rest()
		q := strings.IndexByte(rest, '"')
		if q < 0 {
			return "", ErrEOF
		}

		start := len(value)
		value = append(value, rest[:q+1]...)
		c.off += q + 1

		for {
			i := strings.Index(string(value[start:]), `\\`)
			if i < 0 {
				break
			}
			i += start
			value = append(value[:i+1], value[i+2:]...)
			start = i + 1
		}

		n := len(value)
		if n >= 2 && value[n-2] == '\\' && start < n-1 {
			value = append(value[:n-2], '"')
			continue
		}
		return string(value[:n-1]), nil
	}
}

// quoteString renders s for output. Plain strings are quoted unless they
// consist solely of ASCII letters and underscores (aggressive); enum variant
// tags are quoted only when they contain whitespace, parens or quotes.
func quoteString(s string, aggressive bool) string {
	need := s == ""
	if !need {
		if aggressive {
			for i := 0; i < len(s); i++ {
				if !isIdentChar(s[i]) {
					need = true
					break
				}
			}
		} else {
			need = strings.ContainsAny(s, " \t\n\r()\"")
		}
	}
	if !need {
		return s
	}
	return quote(s)
}

// quote wraps s in double quotes, escaping backslashes and quotes.
func quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '"':
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	sb.WriteByte('"')
	return sb.String()
}
