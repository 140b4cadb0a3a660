// Package scan holds the lexer primitives shared by every MEOS text
// parser.  A Cursor is a mutable position into a byte slice; each
// primitive skips leading whitespace and, on success, advances the
// cursor past what it consumed.  Tokenization is punctuation-driven:
// apart from a handful of case-insensitive prefixes (SRID=, TBOX,
// STBOX, GEODSTBOX, NPOINT, Interp=Step;) there are no keywords.
package scan

import (
	"strconv"

	"github.com/pkg/errors"
)

// Cursor is a read position into an input buffer.
type Cursor struct {
	buf []byte
	pos int
}

// New returns a cursor positioned at the start of s.
func New(s string) *Cursor {
	return &Cursor{buf: []byte(s)}
}

// NewBytes returns a cursor over b.  The cursor borrows b.
func NewBytes(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Rest returns the unconsumed input.
func (c *Cursor) Rest() string { return string(c.buf[c.pos:]) }

// Pos returns the current byte offset.
func (c *Cursor) Pos() int { return c.pos }

// Seek rewinds or advances the cursor to an absolute offset previously
// obtained from Pos.
func (c *Cursor) Seek(pos int) { c.pos = pos }

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\r' || b == '\t'
}

// Whitespace consumes any run of blanks, tabs and newlines.
func (c *Cursor) Whitespace() {
	for c.pos < len(c.buf) && isSpace(c.buf[c.pos]) {
		c.pos++
	}
}

// Peek returns the first byte after whitespace without consuming it, or 0
// at end of input.
func (c *Cursor) Peek() byte {
	c.Whitespace()
	if c.pos >= len(c.buf) {
		return 0
	}
	return c.buf[c.pos]
}

// TryChar consumes ch if it is the next non-blank byte.
func (c *Cursor) TryChar(ch byte) bool {
	if c.Peek() == ch {
		c.pos++
		return true
	}
	return false
}

// ExpectChar consumes ch or fails with the caller's context string.
func (c *Cursor) ExpectChar(ch byte, what, kind string) error {
	if c.TryChar(ch) {
		return nil
	}
	return errors.Errorf("Could not parse %s value: Missing %s", kind, what)
}

// Delimiter primitives.  The Try forms return false on mismatch; the
// Expect forms build the diagnostic the text parsers emit.

func (c *Cursor) TryOBrace() bool   { return c.TryChar('{') }
func (c *Cursor) TryCBrace() bool   { return c.TryChar('}') }
func (c *Cursor) TryOBracket() bool { return c.TryChar('[') }
func (c *Cursor) TryCBracket() bool { return c.TryChar(']') }
func (c *Cursor) TryOParen() bool   { return c.TryChar('(') }
func (c *Cursor) TryCParen() bool   { return c.TryChar(')') }
func (c *Cursor) TryComma() bool    { return c.TryChar(',') }

func (c *Cursor) ExpectOBrace(kind string) error {
	return c.ExpectChar('{', "opening brace", kind)
}

func (c *Cursor) ExpectCBrace(kind string) error {
	return c.ExpectChar('}', "closing brace", kind)
}

func (c *Cursor) ExpectOParen(kind string) error {
	return c.ExpectChar('(', "opening parenthesis", kind)
}

func (c *Cursor) ExpectCParen(kind string) error {
	return c.ExpectChar(')', "closing parenthesis", kind)
}

// End verifies that only whitespace remains.
func (c *Cursor) End(kind string) error {
	c.Whitespace()
	if c.pos < len(c.buf) {
		return errors.Errorf(
			"Could not parse %s value: Extraneous characters at the end", kind)
	}
	return nil
}

// MatchPrefixFold consumes prefix if the input starts with it,
// case-insensitively.  Leading whitespace is skipped first.
func (c *Cursor) MatchPrefixFold(prefix string) bool {
	c.Whitespace()
	if len(c.buf)-c.pos < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		a, b := c.buf[c.pos+i], prefix[i]
		if a >= 'A' && a <= 'Z' {
			a += 'a' - 'A'
		}
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	c.pos += len(prefix)
	return true
}

// SRID consumes an `SRID=<digits>[,;]` prefix and returns the value.  The
// trailing delimiter is gobbled so the value body never re-encounters it.
// Returns (0, false) when no SRID prefix is present.
func (c *Cursor) SRID() (int32, bool) {
	if !c.MatchPrefixFold("SRID=") {
		return 0, false
	}
	var srid int32
	for c.pos < len(c.buf) && c.buf[c.pos] != ',' && c.buf[c.pos] != ';' {
		srid = srid*10 + int32(c.buf[c.pos]-'0')
		c.pos++
	}
	if c.pos < len(c.buf) {
		c.pos++
	}
	return srid, true
}

// Double parses a floating-point number at the cursor.
func (c *Cursor) Double() (float64, error) {
	c.Whitespace()
	start := c.pos
	if c.pos < len(c.buf) && (c.buf[c.pos] == '+' || c.buf[c.pos] == '-') {
		c.pos++
	}
	dot, exp := false, false
	for c.pos < len(c.buf) {
		b := c.buf[c.pos]
		switch {
		case b >= '0' && b <= '9':
		case b == '.' && !dot && !exp:
			dot = true
		case (b == 'e' || b == 'E') && !exp && c.pos > start:
			exp = true
			if c.pos+1 < len(c.buf) && (c.buf[c.pos+1] == '+' || c.buf[c.pos+1] == '-') {
				c.pos++
			}
		default:
			goto done
		}
		c.pos++
	}
done:
	if c.pos == start {
		return 0, errors.New("Invalid input syntax for type double")
	}
	v, err := strconv.ParseFloat(string(c.buf[start:c.pos]), 64)
	if err != nil {
		return 0, errors.Errorf("Invalid input syntax for type double: %q",
			string(c.buf[start:c.pos]))
	}
	return v, nil
}

// DelimitedText captures the input up to (not including) the first byte
// in stop, or end of input.  The cursor advances past the captured text
// but not past the stopping byte.
func (c *Cursor) DelimitedText(stop string) string {
	c.Whitespace()
	start := c.pos
	for c.pos < len(c.buf) {
		b := c.buf[c.pos]
		found := false
		for i := 0; i < len(stop); i++ {
			if b == stop[i] {
				found = true
				break
			}
		}
		if found {
			break
		}
		c.pos++
	}
	return string(c.buf[start:c.pos])
}

// TimestampText captures a timestamp token: everything up to the first
// structural terminator (`,`, `]`, `)`, `}`) or end of input.
func (c *Cursor) TimestampText() string {
	return c.DelimitedText(",])}")
}

// QuotedText consumes a double-quoted string at the cursor and returns
// its contents with escape sequences intact.  The caller must have seen
// the opening quote via Peek.
func (c *Cursor) QuotedText() (string, error) {
	c.Whitespace()
	if c.pos >= len(c.buf) || c.buf[c.pos] != '"' {
		return "", errors.New("Missing opening quote")
	}
	c.pos++
	start := c.pos
	for c.pos < len(c.buf) {
		if c.buf[c.pos] == '"' && (c.pos == start || c.buf[c.pos-1] != '\\') {
			s := string(c.buf[start:c.pos])
			c.pos++
			return s, nil
		}
		c.pos++
	}
	return "", errors.New("Missing closing quote")
}
