package patch_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nickwells/autoexp.mod/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const block = "asmjit::Operand {\n  preview( #( $e._id ) )\n}\n"

func TestSplice(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		block   string
		exp     string
	}{
		{
			name:    "fresh injection",
			content: "[AutoExpand]\nfoo=bar\n",
			block:   "new\n",
			exp: "[AutoExpand]\nfoo=bar\n" +
				"\n" +
				";${Lib:Begin}\nnew\n;${Lib:End}\n",
		},
		{
			name:    "fresh injection, no final newline",
			content: "foo=bar",
			block:   "new",
			exp:     "foo=bar\n\n;${Lib:Begin}\nnew\n;${Lib:End}\n",
		},
		{
			name:    "fresh injection, empty file",
			content: "",
			block:   "new\n",
			exp:     "\n;${Lib:Begin}\nnew\n;${Lib:End}\n",
		},
		{
			name: "region replacement",
			content: "head\n" +
				";${Lib:Begin}\nold 1\nold 2\n;${Lib:End}\n" +
				"tail\n",
			block: "new\n",
			exp: "head\n" +
				";${Lib:Begin}\nnew\n;${Lib:End}\n" +
				"tail\n",
		},
		{
			name: "region replacement keeps the marker lines",
			content: "head\n" +
				";${Lib:Begin} installed by hand\r\nold\r\n  ;${Lib:End} trailer\r\n" +
				"tail",
			block: "new\n",
			exp: "head\n" +
				";${Lib:Begin} installed by hand\r\nnew\n  ;${Lib:End} trailer\r\n" +
				"tail",
		},
		{
			name:    "empty region",
			content: ";${Lib:Begin}\n;${Lib:End}\n",
			block:   "new\n",
			exp:     ";${Lib:Begin}\nnew\n;${Lib:End}\n",
		},
		{
			name:    "empty block",
			content: ";${Lib:Begin}\nold\n;${Lib:End}\n",
			block:   "",
			exp:     ";${Lib:Begin}\n;${Lib:End}\n",
		},
		{
			name: "other regions are untouched",
			content: ";${Other:Begin}\nother\n;${Other:End}\n" +
				";${Lib:Begin}\nold\n;${Lib:End}\n",
			block: "new\n",
			exp: ";${Other:Begin}\nother\n;${Other:End}\n" +
				";${Lib:Begin}\nnew\n;${Lib:End}\n",
		},
	}

	for _, tc := range testCases {
		got, err := patch.Splice(tc.content, "Lib", tc.block)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if diff := cmp.Diff(tc.exp, got); diff != "" {
			t.Errorf("%s: unexpected content (-want +got):\n%s", tc.name, diff)
		}
	}
}

func TestSpliceCorrupted(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "no end marker", content: "a\n;${Lib:Begin}\nold\n"},
		{name: "begin marker on the last line", content: "a\n;${Lib:Begin}"},
		{name: "end marker first", content: ";${Lib:End}\n;${Lib:Begin}\nold\n"},
		{name: "end marker for another region", content: ";${Lib:Begin}\nx\n;${Other:End}\n"},
	}

	for _, tc := range testCases {
		_, err := patch.Splice(tc.content, "Lib", "new\n")
		if !errors.Is(err, patch.ErrCorrupted) {
			t.Errorf("%s: expected ErrCorrupted, got: %v", tc.name, err)
		}
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestApplyIdempotent(t *testing.T) {
	path := writeFile(t, "autoexp.dat", "[AutoExpand]\n")
	var p patch.Patcher

	r := p.Apply(path, "Lib", block)
	require.NoError(t, r.Err)
	assert.Equal(t, patch.StatusInstalled, r.Status)
	first := readFile(t, path)
	assert.Equal(t,
		"[AutoExpand]\n\n;${Lib:Begin}\n"+block+";${Lib:End}\n", first)

	info, err := os.Stat(path)
	require.NoError(t, err)
	mtime := info.ModTime()

	r = p.Apply(path, "Lib", block)
	require.NoError(t, r.Err)
	assert.Equal(t, patch.StatusUnaffected, r.Status)
	assert.Equal(t, first, readFile(t, path))

	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, mtime, info.ModTime(), "the file should not be rewritten")

	r = p.Apply(path, "Lib", "changed\n")
	require.NoError(t, r.Err)
	assert.Equal(t, patch.StatusPatched, r.Status)
	assert.Equal(t,
		"[AutoExpand]\n\n;${Lib:Begin}\nchanged\n;${Lib:End}\n",
		readFile(t, path))
}

func TestApplyProblems(t *testing.T) {
	var p patch.Patcher

	r := p.Apply(filepath.Join(t.TempDir(), "nonesuch"), "Lib", block)
	assert.Equal(t, patch.StatusMissing, r.Status)
	assert.NoError(t, r.Err)
	assert.False(t, r.Status.Failed())

	r = p.Apply(t.TempDir(), "Lib", block)
	assert.Equal(t, patch.StatusReadFailed, r.Status)
	assert.Error(t, r.Err)
	assert.True(t, r.Status.Failed())

	const corrupt = "x\n;${Lib:Begin}\nold\n"
	path := writeFile(t, "corrupt.dat", corrupt)
	r = p.Apply(path, "Lib", block)
	assert.Equal(t, patch.StatusCorrupted, r.Status)
	assert.ErrorIs(t, r.Err, patch.ErrCorrupted)
	assert.Equal(t, corrupt, readFile(t, path), "the file should be unchanged")
}

func TestApplyDryRun(t *testing.T) {
	const orig = "[AutoExpand]\n"
	path := writeFile(t, "autoexp.dat", orig)

	r := patch.Patcher{DryRun: true}.Apply(path, "Lib", block)
	require.NoError(t, r.Err)
	assert.Equal(t, patch.StatusInstalled, r.Status)
	assert.Equal(t, orig, readFile(t, path))
}

func TestApplyAll(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.dat")
	bad := filepath.Join(dir, "bad.dat")
	missing := filepath.Join(dir, "missing.dat")
	require.NoError(t, os.WriteFile(good, []byte("a\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte(";${Lib:Begin}\n"), 0o644))

	for _, jobs := range []int{0, 3} {
		p := patch.Patcher{Jobs: jobs}
		results := p.ApplyAll([]string{bad, missing, good}, "Lib", block)

		require.Len(t, results, 3)
		assert.Equal(t, bad, results[0].Path)
		assert.Equal(t, patch.StatusCorrupted, results[0].Status)
		assert.Equal(t, missing, results[1].Path)
		assert.Equal(t, patch.StatusMissing, results[1].Status)
		assert.Equal(t, good, results[2].Path)
		if jobs == 0 {
			assert.Equal(t, patch.StatusInstalled, results[2].Status)
		} else {
			assert.Equal(t, patch.StatusUnaffected, results[2].Status)
		}
	}
}
