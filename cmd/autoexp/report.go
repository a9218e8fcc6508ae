package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/nickwells/autoexp.mod/patch"
	"github.com/nickwells/autoexp.mod/symtab"
)

var (
	infoColor  = color.New(color.FgCyan)
	okColor    = color.New(color.FgGreen, color.Bold)
	quietColor = color.New(color.Faint)
	errColor   = color.New(color.FgRed, color.Bold)
)

// reporter writes the progress messages. Messages about success go to out,
// problems go to errOut.
type reporter struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	verbose bool
}

func newReporter(out, errOut io.Writer, verbose bool) *reporter {
	return &reporter{out: out, errOut: errOut, verbose: verbose}
}

// defined reports a definition, it is only shown in verbose mode
func (r *reporter) defined(s symtab.Symbol) {
	if !r.verbose {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	infoColor.Fprintf(r.out, "-- @define %s %s\n", s.Name, s.Value)
}

// patched reports the outcome for a target file. Missing files are only
// reported in verbose mode.
func (r *reporter) patched(res patch.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch res.Status {
	case patch.StatusMissing:
		if r.verbose {
			quietColor.Fprintf(r.out, "-- %s:\n   %s\n", res.Status, res.Path)
		}
	case patch.StatusUnaffected:
		quietColor.Fprintf(r.out, "-- %s:\n   %s\n", res.Status, res.Path)
	case patch.StatusPatched, patch.StatusInstalled:
		okColor.Fprintf(r.out, "-- %s:\n   %s\n", res.Status, res.Path)
	default:
		errColor.Fprintf(r.errOut, "!! %s:\n   %s\n", res.Status, res.Path)
		if res.Err != nil && r.verbose {
			fmt.Fprintf(r.errOut, "   %v\n", res.Err)
		}
	}
}

// fatal reports an error which stopped the run
func (r *reporter) fatal(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	errColor.Fprintf(r.errOut, "!! %v\n", err)
}
