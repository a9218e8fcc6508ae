package autoexp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nickwells/autoexp.mod/symtab"
	"github.com/nickwells/location.mod/location"
)

// DfltMaxDepth is the default limit on how deeply definitions may nest
// (a @define whose body itself holds a @define and so on)
const DfltMaxDepth = 16

const (
	dirLibrary = "library"
	dirDefine  = "define"
)

// Expander records the settings used to expand a template
//
// You should create a new Expander with New, passing any options, and then
// call Expand on the template text. Each call to Expand is independent:
// symbols defined in one template are not seen by the next; only the
// predefined symbols are shared.
type Expander struct {
	symbols  *symtab.Table
	maxDepth int
	trace    func(s symtab.Symbol)
}

type OptFunc func(e *Expander) error

// New creates a new Expander
func New(opts ...OptFunc) (*Expander, error) {
	symbols, err := symtab.NewTable()
	if err != nil {
		return nil, err
	}

	e := &Expander{
		symbols:  symbols,
		maxDepth: DfltMaxDepth,
	}

	for _, o := range opts {
		if err := o(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// MaxDepth returns an OptFunc that sets the limit on nested definitions.
// The value must be at least 1.
func MaxDepth(n int) OptFunc {
	return func(e *Expander) error {
		if n < 1 {
			return fmt.Errorf("the maximum definition depth (%d)"+
				" must be at least 1", n)
		}
		e.maxDepth = n

		return nil
	}
}

// Predefine returns an OptFunc that defines symbols before any template is
// expanded. A template may use them but may not define them again.
func Predefine(where string, syms map[string]string) OptFunc {
	return func(e *Expander) error {
		return symtab.Predefined(where, syms)(e.symbols)
	}
}

// Trace returns an OptFunc that sets a function to be called each time a
// template defines a symbol
func Trace(f func(s symtab.Symbol)) OptFunc {
	return func(e *Expander) error {
		e.trace = f

		return nil
	}
}

// Result holds the outcome of a successful expansion
type Result struct {
	// Text is the template with every directive line removed and every
	// symbol reference substituted
	Text string
	// Library is the value of the last @library directive
	Library string
	// Symbols holds every symbol known at the end of the expansion
	Symbols *symtab.Table
}

// Marker returns the library name used to mark the expanded text in the
// target files. An error is returned if the template had no @library
// directive.
func (r *Result) Marker() (string, error) {
	if r.Library == "" {
		return "", ErrNoLibrary
	}
	return r.Library, nil
}

// pass holds the state of a single expansion of a template
type pass struct {
	symbols  *symtab.Table
	library  string
	maxDepth int
	trace    func(s symtab.Symbol)
}

// Expand expands the template text. The source is used to name the
// location of any error. Carriage returns are removed before the text is
// expanded. If the template has any errors no result is returned.
func (e *Expander) Expand(source, text string) (*Result, error) {
	p := &pass{
		symbols:  e.symbols.Clone(),
		maxDepth: e.maxDepth,
		trace:    e.trace,
	}

	c := newCursor(strings.ReplaceAll(text, "\r", ""), location.New(source))
	if err := p.expand(c, 0); err != nil {
		return nil, err
	}

	return &Result{
		Text:    c.finish(),
		Library: p.library,
		Symbols: p.symbols,
	}, nil
}

// expand makes a single pass over the text, processing directives and
// substituting symbols
func (p *pass) expand(c *cursor, depth int) error {
	for !c.atEnd() {
		ch := c.peek()

		switch {
		case ch == commentChar:
			c.skipLine()
		case isQuote(ch):
			c.advance()
			c.skipString()
		case isDigit(ch):
			c.scanWhile(isIdentChar, false)
		case ch == directiveChar && c.atLineStart():
			if err := p.directive(c, depth); err != nil {
				return err
			}
		case isIdentStart(ch) && c.prev() != pasteChar:
			start := c.pos
			if value, ok := p.symbols.Lookup(c.scanScopedIdentifier()); ok {
				c.replaceSpan(start, c.pos, value)
			}
		default:
			c.advance()
		}
	}

	return nil
}

// directive processes the directive line at the cursor and removes it
// from the output
func (p *pass) directive(c *cursor, depth int) error {
	start := c.pos
	where := c.where()

	c.advance()
	ch := c.peek()

	if c.atEnd() || isNewline(ch) {
		c.advance()
		c.deleteSpan(start, c.pos)
		return nil
	}
	if isSpace(ch) {
		c.skipLine()
		c.deleteSpan(start, c.pos)
		return nil
	}

	if !isIdentStart(ch) {
		return &Error{Kind: KindDirectiveSyntax, Token: string(ch), Where: where}
	}
	name := c.scanIdentifier()
	if !isSpace(c.peek()) {
		return &Error{Kind: KindDirectiveSyntax, Token: name, Where: where}
	}
	c.skipSpaces()

	switch name {
	case dirLibrary:
		p.library = c.scanMacroBody()
	case dirDefine:
		if !isIdentStart(c.peek()) {
			return &Error{Kind: KindDefineTarget, Token: name, Where: where}
		}
		symbol := c.scanScopedIdentifier()

		var body string
		if c.atEnd() || isNewline(c.peek()) {
			c.advance()
		} else {
			c.skipSpaces()
			body = c.scanMacroBody()
		}

		if err := p.define(symbol, body, where, depth); err != nil {
			return err
		}
	default:
		return &Error{Kind: KindUnknownDirective, Token: name, Where: where}
	}

	c.deleteSpan(start, c.pos)
	return nil
}

// define expands the body in a pass of its own, sharing only the symbol
// table, and records the trimmed result as the value of the symbol
func (p *pass) define(symbol, body, where string, depth int) error {
	if s, ok := p.symbols.Defined(symbol); ok {
		return &Error{
			Kind:  KindDuplicateSymbol,
			Token: symbol,
			Where: where,
			Err:   symtab.DuplicateError{Name: symbol, Where: where, PrevWhere: s.Where},
		}
	}
	if depth+1 > p.maxDepth {
		return &Error{Kind: KindTooDeep, Token: symbol, Where: where}
	}

	c := newCursor(body, location.New(where+" @"+dirDefine+" "+symbol))
	if err := p.expand(c, depth+1); err != nil {
		return err
	}
	value := strings.TrimSpace(c.finish())

	if err := p.symbols.Define(symbol, value, where); err != nil {
		var dup symtab.DuplicateError
		if errors.As(err, &dup) {
			return &Error{
				Kind: KindDuplicateSymbol, Token: symbol, Where: where, Err: err,
			}
		}
		return err
	}

	if p.trace != nil {
		p.trace(symtab.Symbol{Name: symbol, Value: value, Where: where})
	}
	return nil
}
