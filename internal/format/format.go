// Package format renders a check report for consumption: compiler-style
// lines for humans and editor tooling, JSON for scripts, and a raw stream
// writer for watching the model think.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/prosecheck/prosecheck/internal/check"
)

// Format selects the output rendering.
type Format string

const (
	// Compiler renders file:line:col lines, one per issue.
	Compiler Format = "compiler"
	// JSON renders the full report as indented JSON.
	JSON Format = "json"
	// Streaming forwards raw model output as it arrives.
	Streaming Format = "streaming"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case Compiler, JSON, Streaming:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

var kindColor = color.New(color.FgYellow, color.Bold)

var whitespaceRe = regexp.MustCompile(`\s+`)

// collapse flattens a message onto one line so each issue stays a single
// grep-able line of output.
func collapse(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// sortIssues orders issues for compiler output: located issues by line,
// unlocated issues after them. The sort is stable and compares line only, so
// issues on the same line keep the order the parser produced them in.
func sortIssues(issues []check.Issue) []check.Issue {
	sorted := make([]check.Issue, len(issues))
	copy(sorted, issues)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Located() != b.Located() {
			return a.Located()
		}
		if !a.Located() {
			return false
		}
		return a.Line < b.Line
	})

	return sorted
}

// WriteCompiler renders the report in compiler style, one line per issue:
//
//	notes.md:12:8: typo: "recieve" should be "receive"
//
// Unlocated issues render with a zero line and no column and sort last.
// An empty report prints a single reassurance line.
func WriteCompiler(w io.Writer, report *check.Report) error {
	if len(report.Issues) == 0 {
		_, err := fmt.Fprintln(w, "No issues found.")
		return err
	}

	for _, issue := range sortIssues(report.Issues) {
		var pos string
		switch {
		case issue.Located() && issue.Column > 0:
			pos = fmt.Sprintf("%s:%d:%d", issue.File, issue.Line, issue.Column)
		case issue.Located():
			pos = fmt.Sprintf("%s:%d", issue.File, issue.Line)
		default:
			pos = fmt.Sprintf("%s:0", issue.File)
		}

		if _, err := fmt.Fprintf(w, "%s: %s: %s\n", pos, kindColor.Sprint(issue.Kind), collapse(issue.Message)); err != nil {
			return err
		}
	}

	return nil
}

// WriteJSON renders the full report, unparsed fragments included, as
// indented JSON.
func WriteJSON(w io.Writer, report *check.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// Write renders the report in the given format. Streaming is not a report
// format; use a Stream instead.
func Write(w io.Writer, f Format, report *check.Report) error {
	switch f {
	case JSON:
		return WriteJSON(w, report)
	case Streaming:
		return fmt.Errorf("streaming output has no report form")
	default:
		return WriteCompiler(w, report)
	}
}

// Stream writes raw model output chunks to the console, optionally mirroring
// them to a file.
type Stream struct {
	console io.Writer
	mirror  *os.File
}

// NewStream creates a stream writer. mirrorPath may be empty.
func NewStream(console io.Writer, mirrorPath string) (*Stream, error) {
	s := &Stream{console: console}

	if mirrorPath != "" {
		f, err := os.Create(mirrorPath)
		if err != nil {
			return nil, fmt.Errorf("creating stream mirror: %w", err)
		}
		s.mirror = f
	}

	return s, nil
}

// Chunk writes one chunk of model output.
func (s *Stream) Chunk(text string) error {
	if _, err := io.WriteString(s.console, text); err != nil {
		return err
	}
	if s.mirror != nil {
		if _, err := io.WriteString(s.mirror, text); err != nil {
			return err
		}
	}
	return nil
}

// Close terminates the stream with a trailing newline and closes the mirror.
func (s *Stream) Close() error {
	fmt.Fprintln(s.console)
	if s.mirror != nil {
		return s.mirror.Close()
	}
	return nil
}
