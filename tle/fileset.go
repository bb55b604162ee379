package tle

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/signalsfoundry/orbitviz/internal/logging"
)

// File is one uploaded TLE file in a time-sliced set.
type File struct {
	Name    string
	Content string
	Epoch   time.Time
}

// FileSet is an epoch-ordered collection of TLE files with a cursor at the
// file covering the current simulated instant. Entries are sorted ascending
// by epoch before any cursor logic runs.
type FileSet struct {
	files     []File
	cursor    int
	activated bool
}

// FileFromContent builds a File whose epoch is the first parseable entry's
// epoch, the convention for ordering time-sliced uploads.
func FileFromContent(name, content string, log logging.Logger) (File, error) {
	entries, err := Parse(strings.NewReader(content), log)
	if err != nil {
		return File{}, fmt.Errorf("tle: %s: %w", name, err)
	}
	return File{Name: name, Content: content, Epoch: entries[0].Epoch}, nil
}

// NewFileSet builds a set from the given files, sorting them by epoch.
func NewFileSet(files []File) *FileSet {
	sorted := make([]File, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Epoch.Before(sorted[j].Epoch) })
	return &FileSet{files: sorted}
}

// Len returns the number of files in the set.
func (fs *FileSet) Len() int { return len(fs.files) }

// File returns the file at index i.
func (fs *FileSet) File(i int) File { return fs.files[i] }

// Cursor returns the currently active index.
func (fs *FileSet) Cursor() int { return fs.cursor }

// SelectActiveFile returns the index of the file whose epoch is the greatest
// one ≤ instant, clamped to 0 below the first epoch and to the last index
// above the final one. Pure: repeated calls with equal inputs return the
// same index. Works in both directions as the instant moves forward or
// backward, since time warp supports negative rates.
func SelectActiveFile(files []File, instant time.Time) int {
	idx := 0
	for i, f := range files {
		if f.Epoch.After(instant) {
			break
		}
		idx = i
	}
	return idx
}

// Activate moves the cursor for the instant and reports whether it changed.
// Idempotent: when the selected index equals the cursor nothing happens, so
// the caller never re-parses an unchanged file.
func (fs *FileSet) Activate(instant time.Time) (File, bool) {
	if len(fs.files) == 0 {
		return File{}, false
	}
	idx := SelectActiveFile(fs.files, instant)
	if fs.activated && idx == fs.cursor {
		return fs.files[fs.cursor], false
	}
	fs.cursor = idx
	fs.activated = true
	return fs.files[idx], true
}
