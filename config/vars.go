package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/nickwells/location.mod/location"
)

// VarStart is the start string for a variable reference
// VarEnd is the end string for a variable reference
//
// They are used by Vars.Substitute to find variable names in target paths
const (
	VarStart = "${"
	VarEnd   = "}"
)

// Vars holds the values of the variables that may be used in target paths.
// A name not in the map is looked up in the environment if UseEnv is set.
type Vars struct {
	Values map[string]string
	UseEnv bool
}

// Find returns the value of the named variable. If it is not set an error
// is returned
func (v Vars) Find(name string, loc *location.L) (string, error) {
	if val, ok := v.Values[name]; ok {
		return val, nil
	}

	if v.UseEnv {
		if val, ok := os.LookupEnv(name); ok {
			return val, nil
		}
		return "", fmt.Errorf(
			"Variable '%s' at %s is not set in the config or the environment",
			name, loc)
	}

	return "", fmt.Errorf("Variable '%s' at %s is not set", name, loc)
}

// Substitute replaces every variable reference in the string with the
// variable's value. An error is returned if a reference is not terminated
// or names an unset variable. Variables do not nest and their values are
// not substituted again.
func (v Vars) Substitute(s string, loc *location.L) (string, error) {
	parts := strings.SplitN(s, VarStart, 2)
	s = parts[0]
	for len(parts) == 2 {
		parts = strings.SplitN(parts[1], VarEnd, 2)

		if len(parts) != 2 {
			err :=
				fmt.Errorf("Bad variable at %s:"+
					" a variable was started with '%s'"+
					" but not finished with '%s'",
					loc, VarStart, VarEnd)
			return "", err
		}
		val, err := v.Find(parts[0], loc)
		if err != nil {
			return "", err
		}
		s += val

		parts = strings.SplitN(parts[1], VarStart, 2)
		s += parts[0]
	}
	return s, nil
}
