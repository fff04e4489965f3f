package extract

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// The JSON strategy runs an ordered chain of candidate extractors: the
// verbatim response, the response with a surrounding code fence stripped,
// and the first balanced [...] or {...} span. Each step is a pure function
// so the fallbacks stay independently testable. If nothing in the chain
// decodes, the whole response becomes one unparsed fragment.
func parseJSON(response string) Result {
	candidates := []func(string) (string, bool){
		verbatim,
		stripFences,
		balancedSpan,
	}

	for _, candidate := range candidates {
		payload, ok := candidate(response)
		if !ok {
			continue
		}
		if result, ok := decodeFindings(payload); ok {
			return result
		}
	}

	return Result{Unparsed: []string{strings.TrimSpace(response)}}
}

// verbatim passes the trimmed response through unchanged.
func verbatim(s string) (string, bool) {
	return strings.TrimSpace(s), true
}

var fenceRe = regexp.MustCompile("(?s)\\A\\s*```[a-zA-Z]*[ \t]*\n(.*?)\n?```\\s*\\z")

// stripFences removes one leading/trailing markdown code fence, with or
// without a language tag.
func stripFences(s string) (string, bool) {
	m := fenceRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// balancedSpan locates the first balanced [...] or {...} span in the text.
// Brackets inside JSON strings are accounted for.
func balancedSpan(s string) (string, bool) {
	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return "", false
	}

	open := s[start]
	var closing byte = ']'
	if open == '{' {
		closing = '}'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == open:
			depth++
		case !inString && c == closing:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

// jsonFinding accepts the field spellings models actually produce.
type jsonFinding struct {
	Text        string `json:"text"`
	Quote       string `json:"quote"`
	Issue       string `json:"issue"`
	Explanation string `json:"explanation"`
	Message     string `json:"message"`
	Line        any    `json:"line"`
	Confidence  any    `json:"confidence"`
	Severity    string `json:"severity"`
}

// jsonEnvelope is the object form some models wrap the array in.
type jsonEnvelope struct {
	Issues []json.RawMessage `json:"issues"`
}

// decodeFindings decodes a JSON array of findings, or an object carrying an
// "issues" array. Elements that do not decode, or that carry neither text
// nor an explanation, go to the unparsed list.
func decodeFindings(payload string) (Result, bool) {
	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &elements); err != nil {
		var envelope jsonEnvelope
		if err := json.Unmarshal([]byte(payload), &envelope); err != nil || envelope.Issues == nil {
			return Result{}, false
		}
		elements = envelope.Issues
	}

	var result Result
	for _, element := range elements {
		var f jsonFinding
		if err := json.Unmarshal(element, &f); err != nil {
			result.Unparsed = append(result.Unparsed, string(element))
			continue
		}

		finding := Finding{
			Text:        strings.TrimSpace(firstNonEmpty(f.Text, f.Quote)),
			Explanation: strings.TrimSpace(firstNonEmpty(f.Issue, f.Explanation, f.Message)),
			Line:        toLine(f.Line),
			Confidence:  toConfidence(f.Confidence),
			Severity:    strings.ToLower(strings.TrimSpace(f.Severity)),
		}

		if finding.Text == "" && finding.Explanation == "" {
			result.Unparsed = append(result.Unparsed, string(element))
			continue
		}

		result.Findings = append(result.Findings, finding)
	}

	return result, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// toLine parses a line number from the formats models use: a JSON number
// or a numeric string.
func toLine(value any) int {
	switch v := value.(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

// toConfidence normalizes a confidence value to 0.0-1.0 from a JSON number
// (0-1 or 0-100) or a string such as "85%".
func toConfidence(value any) *float64 {
	switch v := value.(type) {
	case float64:
		c := v
		if c > 1 {
			c /= 100
		}
		if c < 0 || c > 1 {
			return nil
		}
		return &c
	case string:
		return parseConfidence(v)
	}
	return nil
}
