// Package locate maps model-cited text back to concrete positions in the
// checked document. Models report confident, highly specific line numbers
// that frequently do not match the source, so content matching is the
// authoritative signal and the bare citation only a fallback.
package locate

import (
	"strings"

	"github.com/prosecheck/prosecheck/internal/document"
)

// Location is a resolved position. Line 0 means unlocated.
type Location struct {
	Line   int
	Column int
}

// Located reports whether the location was resolved.
func (l Location) Located() bool {
	return l.Line > 0
}

// Resolve finds where quoted appears in the document, preferring the cited
// line when it actually contains the snippet. Matching is exact and
// case-sensitive. Resolution is a pure function of its inputs: resolving
// the same finding twice yields the same location.
//
//  1. cited in range and quoted found on that line: trust the citation.
//  2. otherwise scan every line in order; first match wins.
//  3. no snippet but cited in range: keep the bare citation, no column.
//  4. otherwise unlocated.
func Resolve(quoted string, cited int, doc *document.Document) Location {
	citedInRange := cited >= 1 && cited <= doc.LineCount()

	if quoted != "" {
		if citedInRange {
			line, _ := doc.Line(cited)
			if idx := strings.Index(line, quoted); idx >= 0 {
				return Location{Line: cited, Column: idx + 1}
			}
		}

		for i, line := range doc.Lines() {
			if idx := strings.Index(line, quoted); idx >= 0 {
				return Location{Line: i + 1, Column: idx + 1}
			}
		}

		return Location{}
	}

	if citedInRange {
		return Location{Line: cited}
	}

	return Location{}
}
