// Package document loads the text under check and exposes it line by line
// for location resolution.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is the immutable text of one file under check.
type Document struct {
	// Path is the name reported in output, normally the base name of the
	// file the text was loaded from.
	Path string

	// Text is the full document text.
	Text string

	lines []string
}

// Load reads a file from disk into a Document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return New(filepath.Base(path), string(data)), nil
}

// New builds a Document from in-memory text.
func New(path, text string) *Document {
	return &Document{
		Path:  path,
		Text:  text,
		lines: strings.Split(text, "\n"),
	}
}

// Lines returns the document split on newlines. Line numbers used elsewhere
// are 1-indexed into this slice.
func (d *Document) Lines() []string {
	return d.lines
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns the 1-indexed line n, and whether n is in range.
func (d *Document) Line(n int) (string, bool) {
	if n < 1 || n > len(d.lines) {
		return "", false
	}
	return d.lines[n-1], true
}
