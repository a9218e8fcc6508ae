package patch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/nickwells/check.mod/v2/check"
	"github.com/nickwells/filecheck.mod/filecheck"
	"golang.org/x/sync/errgroup"
)

// ErrCorrupted is wrapped by the error returned when a file holds the
// begin marker without a following end marker
var ErrCorrupted = errors.New("begin marker without a matching end marker")

// BeginMarker returns the line that starts the named region
func BeginMarker(name string) string {
	return ";${" + name + ":Begin}"
}

// EndMarker returns the line that ends the named region
func EndMarker(name string) string {
	return ";${" + name + ":End}"
}

// Splice returns the content with the named region holding the block. If
// the region exists its interior, from the line after the begin marker to
// the start of the end marker line, is replaced; the marker lines are kept
// as they are. Otherwise a blank line and the region are appended. The
// block is given a final newline if it is not empty and has none.
//
// An error wrapping ErrCorrupted is returned if the begin marker is found
// but no end marker follows it.
func Splice(content, name, block string) (string, error) {
	if block != "" && !strings.HasSuffix(block, "\n") {
		block += "\n"
	}
	begin := BeginMarker(name)
	end := EndMarker(name)

	bIdx := strings.Index(content, begin)
	if bIdx < 0 {
		var sb strings.Builder
		sb.WriteString(content)
		if content != "" && !strings.HasSuffix(content, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
		sb.WriteString(begin + "\n")
		sb.WriteString(block)
		sb.WriteString(end + "\n")
		return sb.String(), nil
	}

	afterBegin := bIdx + len(begin)
	nl := strings.IndexByte(content[afterBegin:], '\n')
	if nl < 0 {
		return "", fmt.Errorf("%w: nothing follows %s", ErrCorrupted, begin)
	}
	interiorStart := afterBegin + nl + 1

	eIdx := strings.Index(content[interiorStart:], end)
	if eIdx < 0 {
		return "", fmt.Errorf("%w: %s is missing", ErrCorrupted, end)
	}
	eIdx += interiorStart
	interiorEnd := strings.LastIndexByte(content[:eIdx], '\n') + 1

	return content[:interiorStart] + block + content[interiorEnd:], nil
}

// Status records what happened to a target file
type Status int

const (
	// StatusMissing: the file does not exist, nothing was done
	StatusMissing Status = iota
	// StatusReadFailed: the file exists but could not be read
	StatusReadFailed
	// StatusCorrupted: the file has a begin marker but no end marker
	StatusCorrupted
	// StatusUnaffected: the file already holds the block
	StatusUnaffected
	// StatusInstalled: the region was appended to the file
	StatusInstalled
	// StatusPatched: the interior of the region was replaced
	StatusPatched
	// StatusWriteFailed: the new content could not be written
	StatusWriteFailed
)

// String returns a description of the status
func (s Status) String() string {
	switch s {
	case StatusMissing:
		return "Missing"
	case StatusReadFailed:
		return "Can't read"
	case StatusCorrupted:
		return "Corrupted File"
	case StatusUnaffected:
		return "Unaffected"
	case StatusInstalled:
		return "Installing"
	case StatusPatched:
		return "Patching"
	case StatusWriteFailed:
		return "Can't write"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Failed reports whether the status is one that should be reported as an
// error
func (s Status) Failed() bool {
	return s == StatusReadFailed ||
		s == StatusCorrupted ||
		s == StatusWriteFailed
}

// Result records the outcome of patching a single file
type Result struct {
	Path   string
	Status Status
	Err    error
}

// Patcher applies an expanded block to target files
//
// The zero value is ready for use: files are patched one after another and
// every change is written.
type Patcher struct {
	// DryRun, if set, means that the Status of each file is worked out but
	// nothing is written
	DryRun bool
	// Jobs is the number of files patched at the same time. A value less
	// than 2 means the files are patched sequentially.
	Jobs int
}

var targetProvisos = filecheck.Provisos{
	Checks:    []check.FileInfo{check.FileInfoIsRegular},
	Existence: filecheck.Optional,
}

// Apply puts the block into the named region of the file at path. Each
// problem is reported in the Result, Apply never fails as a whole.
func (p Patcher) Apply(path, name, block string) Result {
	r := Result{Path: path}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		r.Status = StatusMissing
		return r
	}
	if err == nil {
		err = targetProvisos.StatusCheck(path)
	}
	if err != nil {
		r.Status, r.Err = StatusReadFailed, err
		return r
	}

	content, err := os.ReadFile(path)
	if err != nil {
		r.Status, r.Err = StatusReadFailed, err
		return r
	}
	input := string(content)

	output, err := Splice(input, name, block)
	if err != nil {
		r.Status, r.Err = StatusCorrupted, fmt.Errorf("%s: %w", path, err)
		return r
	}

	switch {
	case output == input:
		r.Status = StatusUnaffected
		return r
	case strings.Contains(input, BeginMarker(name)):
		r.Status = StatusPatched
	default:
		r.Status = StatusInstalled
	}

	if p.DryRun {
		return r
	}
	if err := os.WriteFile(path, []byte(output), info.Mode().Perm()); err != nil {
		r.Status, r.Err = StatusWriteFailed, err
	}
	return r
}

// ApplyAll applies the block to each of the paths and returns the results
// in the same order as the paths. A failure on one file does not stop the
// others being patched.
func (p Patcher) ApplyAll(paths []string, name, block string) []Result {
	results := make([]Result, len(paths))

	var g errgroup.Group
	g.SetLimit(max(p.Jobs, 1))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = p.Apply(path, name, block)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
