package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nickwells/location.mod/location"
)

// DfltTemplate is the name of the template used if none is configured
const DfltTemplate = "autoexp.dat"

const debuggerDir = `Common7\Packages\Debugger\autoexp.dat`

// DfltTargets lists the autoexp.dat files of the Visual Studio versions
// (2005, 2008 and 2010) which read them
var DfltTargets = []string{
	`${ProgramFiles}\Microsoft Visual Studio 8\` + debuggerDir,
	`${ProgramFiles(x86)}\Microsoft Visual Studio 8\` + debuggerDir,
	`${ProgramFiles}\Microsoft Visual Studio 9.0\` + debuggerDir,
	`${ProgramFiles(x86)}\Microsoft Visual Studio 9.0\` + debuggerDir,
	`${ProgramFiles}\Microsoft Visual Studio 10.0\` + debuggerDir,
	`${ProgramFiles(x86)}\Microsoft Visual Studio 10.0\` + debuggerDir,
}

// DfltVars gives values for the variables used in DfltTargets
var DfltVars = map[string]string{
	"ProgramFiles":      `C:\Program Files`,
	"ProgramFiles(x86)": `C:\Program Files (x86)`,
}

// Config holds the settings for a run
type Config struct {
	// Template is the path of the template file
	Template string `toml:"template"`
	// Targets are the files to be patched, they may refer to Vars
	Targets []string `toml:"targets"`
	// Vars give values for the variables in Targets
	Vars map[string]string `toml:"vars"`
	// Define gives symbols defined before the template is expanded
	Define map[string]string `toml:"define"`
	// Jobs is the number of targets patched at once
	Jobs int `toml:"jobs"`
	// MaxDepth limits how deeply definitions may nest
	MaxDepth int `toml:"max_depth"`

	source string
}

// Default returns the configuration used when there is no config file
func Default() *Config {
	c := &Config{
		Template: DfltTemplate,
		Targets:  append([]string(nil), DfltTargets...),
		Vars:     make(map[string]string, len(DfltVars)),
		Define:   make(map[string]string),
		Jobs:     1,
		source:   "default config",
	}
	for k, v := range DfltVars {
		c.Vars[k] = v
	}
	return c
}

// Load reads the config file, which must be in TOML format. Any value not
// given in the file is taken from the Default config; variables given in
// the file are added to the default variables. A relative template path is
// taken relative to the directory of the config file. Unknown keys are
// reported as an error.
func Load(path string) (*Config, error) {
	var fc Config
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return nil, fmt.Errorf("cannot read the config file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("Bad config file %s: unknown keys: %s",
			path, strings.Join(keys, ", "))
	}

	c := Default()
	c.source = path
	if meta.IsDefined("template") {
		c.Template = fc.Template
		if !filepath.IsAbs(c.Template) {
			c.Template = filepath.Join(filepath.Dir(path), c.Template)
		}
	}
	if meta.IsDefined("targets") {
		c.Targets = fc.Targets
	}
	for k, v := range fc.Vars {
		c.Vars[k] = v
	}
	for k, v := range fc.Define {
		c.Define[k] = v
	}
	if meta.IsDefined("jobs") {
		c.Jobs = fc.Jobs
	}
	if meta.IsDefined("max_depth") {
		c.MaxDepth = fc.MaxDepth
	}

	if c.Jobs < 1 {
		return nil, fmt.Errorf("Bad config file %s: jobs (%d) must be at least 1",
			path, c.Jobs)
	}
	if meta.IsDefined("max_depth") && c.MaxDepth < 1 {
		return nil, fmt.Errorf(
			"Bad config file %s: max_depth (%d) must be at least 1",
			path, c.MaxDepth)
	}

	return c, nil
}

// Source returns the name of the config file or a description of the
// default config
func (c *Config) Source() string {
	return c.source
}

// TargetPaths returns the target paths with all the variables substituted.
// Variables not set in the config are taken from the environment.
func (c *Config) TargetPaths() ([]string, error) {
	v := Vars{Values: c.Vars, UseEnv: true}
	loc := location.New(c.source + " targets")

	paths := make([]string, 0, len(c.Targets))
	for _, t := range c.Targets {
		loc.Incr()
		p, err := v.Substitute(t, loc)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
