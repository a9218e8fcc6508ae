package main

import (
	"fmt"
	"io"

	"github.com/nickwells/autoexp.mod/patch"
	"github.com/spf13/cobra"
)

func newExpandCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	var showSymbols bool

	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Print the expanded template",
		Long: `expand prints the template with the directives removed and the symbols
substituted, exactly as it would be installed in the target files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := newReporter(stderr, stderr, opts.verbose)
			c, err := loadConfig(opts)
			if err != nil {
				rep.fatal(err)
				return err
			}
			r, err := expandTemplate(c, rep)
			if err != nil {
				rep.fatal(err)
				return err
			}

			if showSymbols {
				for _, s := range r.Symbols.Symbols() {
					fmt.Fprintf(stdout, "%s = %s\t(%s)\n", s.Name, s.Value, s.Where)
				}
				return nil
			}
			fmt.Fprint(stdout, r.Text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showSymbols, "symbols", false,
		"print the symbols and their values instead of the text")

	return cmd
}

func newMarkersCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "markers",
		Short: "Print the marker lines for the template's library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := newReporter(stderr, stderr, false)
			marker, err := templateMarker(opts, rep)
			if err != nil {
				rep.fatal(err)
				return err
			}

			fmt.Fprintln(stdout, patch.BeginMarker(marker))
			fmt.Fprintln(stdout, patch.EndMarker(marker))
			return nil
		},
	}
}

// templateMarker returns the library name declared by the template
func templateMarker(opts *options, rep *reporter) (string, error) {
	c, err := loadConfig(opts)
	if err != nil {
		return "", err
	}
	r, err := expandTemplate(c, rep)
	if err != nil {
		return "", err
	}
	return r.Marker()
}
