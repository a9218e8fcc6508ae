package autoexp

import (
	"errors"
	"fmt"

	"github.com/nickwells/autoexp.mod/symtab"
)

// Kind identifies the class of an expansion error
type Kind int

const (
	// KindDirectiveSyntax: the directive name is malformed or is not
	// followed by a space or tab
	KindDirectiveSyntax Kind = iota + 1
	// KindUnknownDirective: the directive name is not one we know
	KindUnknownDirective
	// KindDefineTarget: the @define directive is not followed by a symbol
	// name
	KindDefineTarget
	// KindDuplicateSymbol: the symbol has already been defined
	KindDuplicateSymbol
	// KindTooDeep: definitions are nested more deeply than allowed
	KindTooDeep
)

// String returns a short name for the Kind
func (k Kind) String() string {
	switch k {
	case KindDirectiveSyntax:
		return "directive syntax error"
	case KindUnknownDirective:
		return "unknown directive"
	case KindDefineTarget:
		return "bad define target"
	case KindDuplicateSymbol:
		return "duplicate symbol"
	case KindTooDeep:
		return "definitions nested too deeply"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ErrNoLibrary is returned by Result.Marker if the template never declared
// a library name
var ErrNoLibrary = errors.New("Library not defined, use @library directive")

// Error is returned when the template cannot be expanded. Token holds the
// offending text (the directive or symbol name) and Where the location of
// the directive line.
type Error struct {
	Kind  Kind
	Token string
	Where string
	Err   error
}

// Error returns a description of the error
func (e *Error) Error() string {
	var detail string
	switch e.Kind {
	case KindDirectiveSyntax:
		detail = fmt.Sprintf(
			"the directive '@%s' must be followed by a space", e.Token)
	case KindUnknownDirective:
		detail = fmt.Sprintf("'@%s' is not a known directive", e.Token)
	case KindDefineTarget:
		detail = "@define must be followed by a name" +
			" starting with a letter or underscore"
	case KindDuplicateSymbol:
		detail = fmt.Sprintf("the symbol '%s' is already defined", e.Token)
		var dup symtab.DuplicateError
		if errors.As(e.Err, &dup) {
			return fmt.Sprintf("Bad template at %s: %s at %s",
				e.Where, detail, dup.PrevWhere)
		}
	case KindTooDeep:
		detail = fmt.Sprintf("the definition of '%s' is nested too deeply",
			e.Token)
	default:
		detail = e.Kind.String()
	}

	if e.Err != nil {
		detail += ": " + e.Err.Error()
	}
	return fmt.Sprintf("Bad template at %s: %s", e.Where, detail)
}

// Unwrap returns the underlying error, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind. This allows
// tests such as errors.Is(err, &autoexp.Error{Kind: autoexp.KindTooDeep})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
