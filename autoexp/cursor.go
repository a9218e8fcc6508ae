package autoexp

import (
	"fmt"
	"strings"

	"github.com/nickwells/location.mod/location"
)

// cursor is a forward-only reader over an immutable text. Text that the
// reader has passed over is copied to the output unchanged unless some
// part of it is replaced with replaceSpan. Nothing behind the last
// replacement can be changed.
type cursor struct {
	src  string
	pos  int
	mark int
	out  strings.Builder
	loc  *location.L
}

// newCursor returns a cursor at the start of src. The location is advanced
// to line 1 and is then incremented for every newline the cursor passes.
func newCursor(src string, loc *location.L) *cursor {
	loc.Incr()
	return &cursor{src: src, loc: loc}
}

func (c *cursor) atEnd() bool {
	return c.pos >= len(c.src)
}

// peek returns the character at the cursor or 0 if the cursor is at the
// end of the text
func (c *cursor) peek() byte {
	if c.atEnd() {
		return 0
	}
	return c.src[c.pos]
}

// prev returns the character before the cursor or 0 at the start of the
// text
func (c *cursor) prev() byte {
	if c.pos == 0 {
		return 0
	}
	return c.src[c.pos-1]
}

// atLineStart reports whether the cursor is at the first character of a
// line
func (c *cursor) atLineStart() bool {
	return c.pos == 0 || isNewline(c.src[c.pos-1])
}

func (c *cursor) advance() {
	if c.atEnd() {
		return
	}
	if isNewline(c.src[c.pos]) {
		c.loc.Incr()
	}
	c.pos++
}

// where returns the current location as a string
func (c *cursor) where() string {
	return c.loc.String()
}

// scanWhile advances over characters satisfying f. If consume is true the
// first character failing f is also consumed. It returns true if such a
// character was found before the end of the text.
func (c *cursor) scanWhile(f func(byte) bool, consume bool) bool {
	for !c.atEnd() {
		if f(c.src[c.pos]) {
			c.advance()
			continue
		}
		if consume {
			c.advance()
		}
		return true
	}
	return false
}

// scanUntil advances over characters until one satisfies f. If consume is
// true that character is also consumed. It returns true if such a
// character was found before the end of the text.
func (c *cursor) scanUntil(f func(byte) bool, consume bool) bool {
	return c.scanWhile(func(b byte) bool { return !f(b) }, consume)
}

// skipString consumes everything up to and including the next quote
func (c *cursor) skipString() bool {
	return c.scanUntil(isQuote, true)
}

func (c *cursor) skipSpaces() bool {
	return c.scanWhile(isSpace, false)
}

// skipLine consumes the rest of the line including the newline
func (c *cursor) skipLine() bool {
	return c.scanUntil(isNewline, true)
}

// scanIdentifier consumes an identifier starting at the cursor and returns
// it. The character at the cursor must be an identifier start character.
func (c *cursor) scanIdentifier() string {
	start := c.pos
	c.mustBeAt(isIdentStart, "identifier")
	c.advance()
	c.scanWhile(isIdentChar, false)
	return c.src[start:c.pos]
}

// scanScopedIdentifier is as scanIdentifier but a "::" followed by an
// identifier start character continues the identifier
func (c *cursor) scanScopedIdentifier() string {
	start := c.pos
	c.mustBeAt(isIdentStart, "symbol")
	c.advance()
	for !c.atEnd() {
		ch := c.src[c.pos]
		if isIdentChar(ch) {
			c.advance()
			continue
		}
		if ch == ':' &&
			c.pos+2 < len(c.src) &&
			c.src[c.pos+1] == ':' &&
			isIdentStart(c.src[c.pos+2]) {
			c.pos += 2
			continue
		}
		break
	}
	return c.src[start:c.pos]
}

// scanMacroBody consumes the rest of the line, including the newline, and
// returns the text up to the first unescaped comment character with
// trailing spaces removed. An escaped comment character ("\;") is returned
// as a plain comment character.
func (c *cursor) scanMacroBody() string {
	var body strings.Builder
	inComment := false
	for !c.atEnd() {
		ch := c.src[c.pos]
		if isNewline(ch) {
			c.advance()
			break
		}
		switch {
		case inComment:
		case ch == escapeChar &&
			c.pos+1 < len(c.src) &&
			c.src[c.pos+1] == commentChar:
			body.WriteByte(commentChar)
			c.advance()
		case ch == commentChar:
			inComment = true
		default:
			body.WriteByte(ch)
		}
		c.advance()
	}

	return strings.TrimRight(body.String(), " \t")
}

// replaceSpan emits replacement in place of the text in [start,end). The
// span must lie between the end of the previous replacement and the
// cursor; anything else is a programming error and panics.
func (c *cursor) replaceSpan(start, end int, replacement string) {
	if start < c.mark || start > end || end > c.pos {
		panic(fmt.Errorf("bad span [%d,%d): must lie within [%d,%d]",
			start, end, c.mark, c.pos))
	}

	c.out.WriteString(c.src[c.mark:start])
	c.out.WriteString(replacement)
	c.mark = end
}

// deleteSpan removes the text in [start,end) from the output
func (c *cursor) deleteSpan(start, end int) {
	c.replaceSpan(start, end, "")
}

// finish copies the remaining text to the output and returns the result
func (c *cursor) finish() string {
	c.out.WriteString(c.src[c.mark:])
	c.mark = len(c.src)
	return c.out.String()
}

// mustBeAt panics if the character at the cursor does not satisfy f
func (c *cursor) mustBeAt(f func(byte) bool, what string) {
	if !f(c.peek()) {
		panic(fmt.Errorf("%s expected at offset %d", what, c.pos))
	}
}
