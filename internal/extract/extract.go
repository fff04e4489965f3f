// Package extract turns raw LLM response text into structured findings.
//
// Model output is not trustworthy: the same prompt can come back as clean
// structured blocks, JSON wrapped in markdown fences, or free prose. Every
// strategy here degrades instead of failing; text that cannot be mapped to a
// finding is preserved verbatim in the unparsed list so nothing the model
// said is silently dropped.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Strategy selects how a response is parsed. It is determined by which
// prompt variant was sent, never auto-detected from the response.
type Strategy string

const (
	// Structured parses repeated TEXT:/ISSUE: label blocks.
	Structured Strategy = "structured"
	// Citation parses repeated "LINE <n>: [text]" markers.
	Citation Strategy = "citation"
	// JSONEnvelope parses a JSON array of findings, tolerating code fences
	// and surrounding prose.
	JSONEnvelope Strategy = "json"
	// Freeform treats the whole response as one finding. Used for the
	// guess checks, whose answers are prose by design.
	Freeform Strategy = "freeform"
)

// Finding is one issue as reported by the model, before any location
// resolution against the document.
type Finding struct {
	// Text is the snippet the model claims is problematic. May be empty
	// when the model cited only a line number or answered in prose.
	Text string

	// Explanation is the model's rationale.
	Explanation string

	// Line is the model-cited 1-indexed line. Untrusted: may be zero,
	// absent, or plain wrong.
	Line int

	// Confidence is the model's self-reported confidence normalized to
	// 0.0-1.0. Advisory only, nil when not reported.
	Confidence *float64

	// Severity is the model's self-reported severity. Advisory only.
	Severity string
}

// Result is the outcome of parsing one model response.
type Result struct {
	Findings []Finding
	Unparsed []string
}

// Parse parses a response with the given strategy. It never fails: malformed
// content lands in Result.Unparsed.
func Parse(strategy Strategy, response string) Result {
	if isNoIssueSentinel(response) {
		return Result{}
	}

	switch strategy {
	case Citation:
		return parseCitation(response)
	case JSONEnvelope:
		return parseJSON(response)
	case Freeform:
		return parseFreeform(response)
	default:
		return parseStructured(response)
	}
}

// Sentinel phrasings the prompts instruct the model to use when it found
// nothing. Matched case-insensitively against short responses only, so a
// real finding that merely mentions one of these is not swallowed.
var sentinelPhrases = []string{
	"no issues found",
	"no errors found",
	"no unclear or confusing sentences",
	"no accessibility issues",
	"text provides value to its readers",
	"text accomplishes its intended function",
}

const sentinelMaxLen = 200

func isNoIssueSentinel(response string) bool {
	t := strings.ToLower(strings.TrimSpace(response))
	if t == "" || len(t) > sentinelMaxLen {
		return false
	}
	for _, phrase := range sentinelPhrases {
		if strings.Contains(t, phrase) {
			return true
		}
	}
	return false
}

// Labels recognized in structured blocks. "explanation" is accepted as an
// alias for "issue" because some models rename the field on their own.
var structuredLabels = map[string]bool{
	"text":        true,
	"issue":       true,
	"explanation": true,
	"confidence":  true,
	"severity":    true,
}

var labelRe = regexp.MustCompile(`^([A-Za-z]+)\s*:\s*(.*)$`)

// parseStructured scans blank-line separated blocks of LABEL: value lines.
// A block missing the text or issue field is not turned into a partial
// finding; the whole block goes to the unparsed list.
func parseStructured(response string) Result {
	var result Result

	for _, block := range strings.Split(response, "\n\n") {
		trimmed := strings.TrimSpace(block)
		if trimmed == "" {
			continue
		}

		fields := map[string]string{}
		current := ""
		labeled := false

		for _, line := range strings.Split(trimmed, "\n") {
			if m := labelRe.FindStringSubmatch(line); m != nil && structuredLabels[strings.ToLower(m[1])] {
				current = strings.ToLower(m[1])
				if current == "explanation" {
					current = "issue"
				}
				fields[current] = strings.TrimSpace(m[2])
				labeled = true
				continue
			}
			// Continuation line: extend the open field.
			if current != "" {
				fields[current] = strings.TrimSpace(fields[current] + " " + strings.TrimSpace(line))
			}
		}

		text := strings.TrimSpace(fields["text"])
		issue := strings.TrimSpace(fields["issue"])
		if !labeled || text == "" || issue == "" {
			result.Unparsed = append(result.Unparsed, trimmed)
			continue
		}

		result.Findings = append(result.Findings, Finding{
			Text:        text,
			Explanation: issue,
			Confidence:  parseConfidence(fields["confidence"]),
			Severity:    strings.ToLower(strings.TrimSpace(fields["severity"])),
		})
	}

	return result
}

// citationRe matches a citation marker: "LINE 12: [snippet]" or
// `LINE 12: "snippet"` at the start of a line.
var citationRe = regexp.MustCompile(`(?mi)^[ \t]*line[ \t]+(\d+)[ \t]*:[ \t]*(?:\[([^\]]*)\]|"([^"]*)")[ \t]*`)

// parseCitation scans for citation markers. The explanation for each marker
// runs to the next marker or the end of input. Text before the first marker
// is preserved as unparsed.
func parseCitation(response string) Result {
	var result Result

	matches := citationRe.FindAllStringSubmatchIndex(response, -1)
	if len(matches) == 0 {
		if trimmed := strings.TrimSpace(response); trimmed != "" {
			result.Unparsed = append(result.Unparsed, trimmed)
		}
		return result
	}

	if preamble := strings.TrimSpace(response[:matches[0][0]]); preamble != "" {
		result.Unparsed = append(result.Unparsed, preamble)
	}

	for i, m := range matches {
		end := len(response)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		line, _ := strconv.Atoi(response[m[2]:m[3]])
		text := submatch(response, m, 2)
		if text == "" {
			text = submatch(response, m, 3)
		}
		explanation := strings.TrimSpace(response[m[1]:end])

		// A marker citing only whitespace is noise, not a finding.
		if strings.TrimSpace(text) == "" {
			result.Unparsed = append(result.Unparsed, strings.TrimSpace(response[m[0]:end]))
			continue
		}

		result.Findings = append(result.Findings, Finding{
			Text:        strings.TrimSpace(text),
			Explanation: explanation,
			Line:        line,
		})
	}

	return result
}

// submatch returns the n-th submatch (0 = full match) of an index set, or
// "" when that group did not participate.
func submatch(s string, idx []int, n int) string {
	if 2*n+1 >= len(idx) || idx[2*n] < 0 {
		return ""
	}
	return s[idx[2*n]:idx[2*n+1]]
}

// parseFreeform wraps the whole response into a single finding. Guess
// checks answer in prose; there is no snippet to locate.
func parseFreeform(response string) Result {
	trimmed := strings.TrimSpace(response)
	if trimmed == "" {
		return Result{}
	}
	return Result{Findings: []Finding{{Explanation: trimmed}}}
}

var numberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// parseConfidence normalizes a self-reported confidence to 0.0-1.0. Models
// report "85%", "85", or "0.85" interchangeably.
func parseConfidence(raw string) *float64 {
	m := numberRe.FindString(raw)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	if v > 1 {
		v /= 100
	}
	if v < 0 {
		return nil
	}
	if v > 1 {
		v = 1
	}
	return &v
}
