package symtab

import (
	"fmt"
	"sort"
)

// Symbol records a defined name together with its fully resolved expansion
// text and the place where it was defined
type Symbol struct {
	Name  string
	Value string
	Where string
}

// DuplicateError is returned by Define when the name is already in the
// table
type DuplicateError struct {
	Name      string
	Where     string
	PrevWhere string
}

// Error returns a description of the redefinition naming both sites
func (e DuplicateError) Error() string {
	return fmt.Sprintf("Symbol '%s' at %s redefined (previously defined at %s)",
		e.Name, e.Where, e.PrevWhere)
}

// Table records the symbols available for substitution
//
// You should create a new Table with NewTable, optionally seeding it with
// predefined symbols. Symbols are then added with Define as the template
// is expanded and looked up with Lookup. A name can only be defined once.
type Table struct {
	sMap  map[string]Symbol
	order []string
}

type OptFunc func(t *Table) error

// NewTable creates a new, empty, Table and applies the options
func NewTable(opts ...OptFunc) (*Table, error) {
	t := &Table{
		sMap: make(map[string]Symbol),
	}

	for _, o := range opts {
		if err := o(t); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Predefined returns an OptFunc that will define each of the symbols in the
// map. The symbols are added in name order and each is recorded as having
// been defined at where. Every name must be a valid symbol name (see
// IsName), an error is returned if not.
func Predefined(where string, syms map[string]string) OptFunc {
	return func(t *Table) error {
		names := make([]string, 0, len(syms))
		for name := range syms {
			if !IsName(name) {
				return fmt.Errorf("Bad symbol name at %s: %q"+
					" is not an identifier", where, name)
			}
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if err := t.Define(name, syms[name], where); err != nil {
				return err
			}
		}
		return nil
	}
}

// Define adds the named symbol to the table. If the name is already
// defined a DuplicateError is returned and the table is unchanged.
func (t *Table) Define(name, value, where string) error {
	if prev, ok := t.sMap[name]; ok {
		return DuplicateError{
			Name:      name,
			Where:     where,
			PrevWhere: prev.Where,
		}
	}

	t.sMap[name] = Symbol{Name: name, Value: value, Where: where}
	t.order = append(t.order, name)
	return nil
}

// Lookup returns the expansion text of the named symbol and true if it is
// defined, otherwise it returns false
func (t *Table) Lookup(name string) (string, bool) {
	s, ok := t.sMap[name]
	return s.Value, ok
}

// Defined returns the Symbol record for the name and true or false if the
// name is not in the table
func (t *Table) Defined(name string) (Symbol, bool) {
	s, ok := t.sMap[name]
	return s, ok
}

// Len returns the number of symbols in the table
func (t *Table) Len() int {
	return len(t.order)
}

// Symbols returns the symbols in the order they were defined
func (t *Table) Symbols() []Symbol {
	syms := make([]Symbol, 0, len(t.order))
	for _, name := range t.order {
		syms = append(syms, t.sMap[name])
	}
	return syms
}

// Clone returns a copy of the table. Symbols defined in the copy are not
// visible in the original.
func (t *Table) Clone() *Table {
	c := &Table{
		sMap:  make(map[string]Symbol, len(t.sMap)),
		order: append([]string(nil), t.order...),
	}
	for k, v := range t.sMap {
		c.sMap[k] = v
	}
	return c
}

// IsName reports whether the string is a valid symbol name: an identifier
// ([A-Za-z_][A-Za-z0-9_]*) optionally followed by further identifiers each
// introduced by "::"
func IsName(s string) bool {
	if s == "" {
		return false
	}

	expectStart := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case expectStart:
			if !isIdentStart(c) {
				return false
			}
			expectStart = false
		case c == ':':
			if i+1 >= len(s) || s[i+1] != ':' {
				return false
			}
			i++
			expectStart = true
		case !isIdentStart(c) && (c < '0' || c > '9'):
			return false
		}
	}
	return !expectStart
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
