// Package check runs a profile's checks against a document: it builds the
// prompt for each check kind, invokes the configured LLM, parses the
// response into issues, and resolves their locations.
package check

// Issue is one normalized problem report derived from model output. Line is
// the resolved 1-indexed location and is always either zero (unlocated) or
// within the checked document's line count. CitedLine is whatever the model
// claimed and is untrusted.
type Issue struct {
	File       string   `json:"file"`
	Kind       Kind     `json:"check"`
	Text       string   `json:"text,omitempty"`
	CitedLine  int      `json:"cited_line,omitempty"`
	Line       int      `json:"line"`
	Column     int      `json:"column,omitempty"`
	Message    string   `json:"message"`
	Severity   string   `json:"severity"`
	Confidence *float64 `json:"confidence"`
}

// Located reports whether the issue was resolved to a document line.
func (i Issue) Located() bool {
	return i.Line > 0
}

// Fragment is a piece of raw model output no parsing strategy could map to
// an issue. Fragments are kept for diagnostic visibility, especially in
// JSON output.
type Fragment struct {
	Kind Kind   `json:"check"`
	Text string `json:"text"`
}

// Report aggregates the issues of all checks in one invocation, in check
// order with check-internal order preserved. Built fresh per run, handed to
// the formatter once, never persisted.
type Report struct {
	RunID    string     `json:"run_id"`
	File     string     `json:"file"`
	Profile  string     `json:"profile"`
	Model    string     `json:"model"`
	Issues   []Issue    `json:"issues"`
	Unparsed []Fragment `json:"unparsed"`
}
