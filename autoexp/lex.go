package autoexp

const (
	directiveChar = '@'
	commentChar   = ';'
	quoteChar     = '"'
	escapeChar    = '\\'
	pasteChar     = '#'
)

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c byte) bool {
	return isAlpha(c) || isDigit(c)
}

// isIdentStart reports whether c can begin an identifier
func isIdentStart(c byte) bool {
	return isAlpha(c) || c == '_'
}

// isIdentChar reports whether c can continue an identifier
func isIdentChar(c byte) bool {
	return isAlnum(c) || c == '_'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isNewline(c byte) bool {
	return c == '\n'
}

func isQuote(c byte) bool {
	return c == quoteChar
}
