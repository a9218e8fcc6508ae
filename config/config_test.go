package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nickwells/autoexp.mod/config"
	"github.com/nickwells/location.mod/location"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "autoexp.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
template = "tmpl/autoexp.dat"
targets = [
	"${VSROOT}/9.0/autoexp.dat",
	"/abs/autoexp.dat",
]
jobs = 4

[vars]
VSROOT = "/opt/vs"

[define]
ARCH = "x64"
`)

	c, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(path), "tmpl", "autoexp.dat"),
		c.Template)
	assert.Equal(t, 4, c.Jobs)
	assert.Equal(t, 0, c.MaxDepth)
	assert.Equal(t, path, c.Source())
	assert.Equal(t, map[string]string{"ARCH": "x64"}, c.Define)

	paths, err := c.TargetPaths()
	require.NoError(t, err)
	exp := []string{"/opt/vs/9.0/autoexp.dat", "/abs/autoexp.dat"}
	if diff := cmp.Diff(exp, paths); diff != "" {
		t.Error("unexpected target paths (-want +got):\n", diff)
	}
}

func TestLoadDefaults(t *testing.T) {
	c, err := config.Load(writeConfig(t, "[vars]\nProgramFiles = 'D:\\PF'\n"))
	require.NoError(t, err)

	assert.Equal(t, config.DfltTemplate, c.Template)
	assert.Equal(t, 1, c.Jobs)

	paths, err := c.TargetPaths()
	require.NoError(t, err)
	require.Len(t, paths, len(config.DfltTargets))
	assert.Equal(t,
		`D:\PF\Microsoft Visual Studio 8\Common7\Packages\Debugger\autoexp.dat`,
		paths[0])
	assert.Equal(t,
		`C:\Program Files (x86)\Microsoft Visual Studio 8\Common7\Packages\Debugger\autoexp.dat`,
		paths[1])
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		expErr  string
	}{
		{name: "unknown key", content: "tagets = []\n", expErr: "unknown keys: tagets"},
		{name: "bad jobs", content: "jobs = 0\n", expErr: "jobs (0) must be at least 1"},
		{name: "bad depth", content: "max_depth = -1\n", expErr: "max_depth (-1) must be at least 1"},
		{name: "bad syntax", content: "jobs = \n", expErr: "cannot read the config file"},
	}

	for _, tc := range testCases {
		_, err := config.Load(writeConfig(t, tc.content))
		if assert.Error(t, err, tc.name) {
			assert.Contains(t, err.Error(), tc.expErr, tc.name)
		}
	}
}

func TestTargetPathsUnset(t *testing.T) {
	c := config.Default()
	c.Targets = []string{"/ok", "${AUTOEXP_TEST_SURELY_UNSET_VAR}/x"}

	_, err := c.TargetPaths()
	require.Error(t, err)
	assert.Equal(t,
		"Variable 'AUTOEXP_TEST_SURELY_UNSET_VAR' at default config targets:2"+
			" is not set in the config or the environment",
		err.Error())
}

func TestSubstitute(t *testing.T) {
	t.Setenv("AUTOEXP_TEST_HOME", "/home/me")
	v := config.Vars{
		Values: map[string]string{"A": "alpha", "B": "${A}"},
		UseEnv: true,
	}

	testCases := []struct {
		s      string
		exp    string
		expErr string
	}{
		{s: "plain", exp: "plain"},
		{s: "${A}/${A}", exp: "alpha/alpha"},
		{s: "${B}", exp: "${A}"},
		{s: "${AUTOEXP_TEST_HOME}/.vs", exp: "/home/me/.vs"},
		{s: "x${A", expErr: "Bad variable at src:1: a variable was started with '${' but not finished with '}'"},
	}

	for _, tc := range testCases {
		loc := location.New("src")
		loc.Incr()
		got, err := v.Substitute(tc.s, loc)
		if tc.expErr != "" {
			if assert.Error(t, err, tc.s) {
				assert.Equal(t, tc.expErr, err.Error(), tc.s)
			}
			continue
		}
		if assert.NoError(t, err, tc.s) {
			assert.Equal(t, tc.exp, got, tc.s)
		}
	}

	noEnv := config.Vars{}
	_, err := noEnv.Substitute("${AUTOEXP_TEST_HOME}", location.New("src"))
	if assert.Error(t, err) {
		assert.True(t, strings.HasSuffix(err.Error(), "is not set"))
	}
}
