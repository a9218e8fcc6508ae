package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/nickwells/autoexp.mod/autoexp"
	"github.com/nickwells/autoexp.mod/config"
	"github.com/nickwells/autoexp.mod/patch"
	"github.com/nickwells/autoexp.mod/symtab"
	"github.com/nickwells/check.mod/v2/check"
	"github.com/nickwells/filecheck.mod/filecheck"
	"github.com/spf13/cobra"
)

// options holds the values of the command line flags
type options struct {
	configFile string
	template   string
	targets    []string
	defines    []string
	jobs       int
	dryRun     bool
	verbose    bool
	colorMode  string
}

var errPatchFailed = errors.New("some targets could not be patched")

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "autoexp [flags]",
		Short: "Install an expanded autoexp.dat template into the debugger config files",
		Long: `autoexp expands the @library and @define directives in an autoexp.dat
template and installs the result between the ;${<library>:Begin} and
;${<library>:End} marker lines of each target file. Targets which do not
exist are skipped; targets already up to date are not rewritten.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setColorMode(opts.colorMode)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := newReporter(stdout, stderr, opts.verbose)
			err := runPatch(opts, rep)
			if err != nil && !errors.Is(err, errPatchFailed) {
				rep.fatal(err)
			}
			return err
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "",
		"read settings from this TOML file")
	pf.StringVar(&opts.template, "template", "",
		"the template file (default from the config, else "+
			config.DfltTemplate+")")
	pf.StringArrayVarP(&opts.defines, "define", "D", nil,
		"predefine a symbol (NAME=VALUE), may be repeated")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false,
		"report each definition and every target considered")
	pf.StringVar(&opts.colorMode, "color", "auto",
		"colorize output (auto|on|off)")

	f := rootCmd.Flags()
	f.StringArrayVar(&opts.targets, "target", nil,
		"a file to patch, may be repeated (replaces the configured targets)")
	f.IntVar(&opts.jobs, "jobs", 0,
		"the number of targets to patch at once (default from the config)")
	f.BoolVarP(&opts.dryRun, "dry-run", "n", false,
		"report what would change but do not write any files")

	rootCmd.AddCommand(newExpandCmd(opts, stdout, stderr))
	rootCmd.AddCommand(newMarkersCmd(opts, stdout, stderr))

	return rootCmd
}

func setColorMode(mode string) error {
	switch strings.ToLower(mode) {
	case "auto":
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("bad --color value %q: must be auto, on or off", mode)
	}
	return nil
}

// loadConfig returns the configuration given by the config file, if any,
// with the command line settings applied
func loadConfig(opts *options) (*config.Config, error) {
	c := config.Default()
	if opts.configFile != "" {
		var err error
		if c, err = config.Load(opts.configFile); err != nil {
			return nil, err
		}
	}

	if opts.template != "" {
		c.Template = opts.template
	}
	if len(opts.targets) > 0 {
		c.Targets = opts.targets
	}
	if opts.jobs > 0 {
		c.Jobs = opts.jobs
	}
	for _, d := range opts.defines {
		name, value, _ := strings.Cut(d, "=")
		if !symtab.IsName(name) {
			return nil, fmt.Errorf("bad -D value %q: %q is not a symbol name",
				d, name)
		}
		c.Define[name] = value
	}

	return c, nil
}

var templateProvisos = filecheck.Provisos{
	Checks:    []check.FileInfo{check.FileInfoIsRegular},
	Existence: filecheck.MustExist,
}

// expandTemplate reads and expands the configured template
func expandTemplate(c *config.Config, rep *reporter) (*autoexp.Result, error) {
	if err := templateProvisos.StatusCheck(c.Template); err != nil {
		return nil, fmt.Errorf("Can't read %s: %w", c.Template, err)
	}
	content, err := os.ReadFile(c.Template)
	if err != nil {
		return nil, fmt.Errorf("Can't read %s: %w", c.Template, err)
	}

	eOpts := []autoexp.OptFunc{
		autoexp.Predefine(c.Source()+" define", c.Define),
		autoexp.Trace(rep.defined),
	}
	if c.MaxDepth > 0 {
		eOpts = append(eOpts, autoexp.MaxDepth(c.MaxDepth))
	}
	e, err := autoexp.New(eOpts...)
	if err != nil {
		return nil, err
	}

	return e.Expand(c.Template, string(content))
}

func runPatch(opts *options, rep *reporter) error {
	c, err := loadConfig(opts)
	if err != nil {
		return err
	}
	paths, err := c.TargetPaths()
	if err != nil {
		return err
	}

	r, err := expandTemplate(c, rep)
	if err != nil {
		return err
	}
	marker, err := r.Marker()
	if err != nil {
		return err
	}

	p := patch.Patcher{DryRun: opts.dryRun, Jobs: c.Jobs}
	failed := 0
	for _, res := range p.ApplyAll(paths, marker, r.Text) {
		rep.patched(res)
		if res.Status.Failed() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errPatchFailed, failed, len(paths))
	}
	return nil
}
