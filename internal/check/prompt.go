package check

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// PromptSpec carries everything needed to build the system and user prompts
// for one check.
type PromptSpec struct {
	Kind               Kind
	ResponseFormat     string // structured, json, or citation
	Reader             string // reader description, required by some kinds
	Function           string // intended-function description, required by some kinds
	CustomInstructions string // appended to the system prompt verbatim

	// Prompt tuning carried over from profile configuration.
	ScopeRestriction    bool
	PrioritizePrecision bool
}

// Validate fails when the kind requires a parameter the profile did not
// supply. Called before any model call is made.
func (s PromptSpec) Validate() error {
	if s.Kind.NeedsReader() && s.Reader == "" {
		return fmt.Errorf("check %q requires a reader description in the profile", s.Kind)
	}
	if s.Kind.NeedsFunction() && s.Function == "" {
		return fmt.Errorf("check %q requires a function description in the profile", s.Kind)
	}
	return nil
}

const systemPromptTemplate = `{{.Base}}{{if .Instructions}}

{{.Instructions}}{{end}}{{if .OutputFormat}}

{{.OutputFormat}}{{end}}{{if .Custom}}

Additional user instructions: {{.Custom}}{{end}}`

var systemTmpl = template.Must(template.New("system").Parse(systemPromptTemplate))

// Role statements per kind.
var kindBase = map[Kind]string{
	KindTypo:          "You are a proofreader. Carefully review the provided text for typos, spelling mistakes, and grammatical errors.",
	KindClarity:       "You are a writing analyst. Carefully review the provided text for unclear sentences and confusing or ambiguous statements.",
	KindReader:        "You are a reading accessibility analyst. The user will describe a specific reader, and you will estimate whether that reader will struggle to understand the provided text.",
	KindValue:         "You are an editor focused on gatekeeping. The user will describe a specific reader. Review the provided text and assess whether it provides clear value to that reader.",
	KindFunction:      "You are a writing analyst. The user will specify the intended function of a text (e.g., inform, convince, challenge, entertain, impress, solve problems) and describe a specific reader. Carefully review the provided text and assess whether it accomplishes this function for the described reader.",
	KindGuessFunction: "You are a writing analyst. The user will describe a specific reader. Read the following article or introduction. What do you think the main function or purpose of this text is for that reader? Suggested categories include: inform, convince, entertain, challenge, impress, solve problems. Answer with a single word and a short explanation.",
	KindGuessValue:    "You are a critical reader. The user will describe a specific reader. Read the following article or introduction. What do you think the main value or benefit is for that reader? Suggested categories include: practical advice, new knowledge, entertainment, inspiration, or other. Answer with a short phrase and a brief explanation. If there is little or no value, say so and explain why.",
	KindGuessReader:   "You are a writing analyst. Read the following article or introduction. Who do you think the intended readers are? Suggest a likely audience or reader profile (e.g., beginners, experts, business managers, children, general public, etc.) and briefly explain your reasoning. If there are multiple plausible audiences, list each one. If the intended audience is unclear, say so and explain why.",
}

// The phrasing the model is told to use when it found nothing. The parser
// recognizes these as the empty-result sentinel.
var kindSentinel = map[Kind]string{
	KindTypo:     "There are no errors found.",
	KindClarity:  "There are no unclear or confusing sentences found.",
	KindReader:   "There are no accessibility issues found for the described reader.",
	KindValue:    "The text provides value to its readers.",
	KindFunction: "The text accomplishes its intended function.",
}

// SystemPrompt builds the system prompt for the check.
func (s PromptSpec) SystemPrompt() (string, error) {
	base, ok := kindBase[s.Kind]
	if !ok {
		return "", fmt.Errorf("unknown check kind %q", s.Kind)
	}

	data := struct {
		Base         string
		Instructions string
		OutputFormat string
		Custom       string
	}{
		Base:   base,
		Custom: s.CustomInstructions,
	}

	if !s.Kind.IsGuess() {
		data.Instructions = s.instructions()
		data.OutputFormat = s.outputFormat()
	}

	var buf bytes.Buffer
	if err := systemTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("building system prompt: %w", err)
	}
	return buf.String(), nil
}

func (s PromptSpec) instructions() string {
	var parts []string

	// Scope restriction only makes sense for the typo check.
	if s.ScopeRestriction && s.Kind == KindTypo {
		parts = append(parts, "Do not report perceived errors outside of spelling, grammar, or typos.")
	}

	if s.PrioritizePrecision {
		if s.Kind == KindTypo {
			parts = append(parts, "Aim for more than 80% of your errors being helpful. Expect users to rerun later if they need to find new errors, so prioritize precision.")
		} else {
			parts = append(parts, "Aim for more than 80% of your observations being helpful. Prioritize precision.")
		}
	}

	return strings.Join(parts, " ")
}

func (s PromptSpec) outputFormat() string {
	sentinel := kindSentinel[s.Kind]

	switch s.ResponseFormat {
	case "json":
		return `Report your findings as a JSON array. Each element must be an object with "text" (the exact problematic text copied from the source), "issue" (a brief explanation), and optionally "line" (the 1-indexed line number), "confidence" (0-100), and "severity" (low, medium, or high).

If there are no issues, respond with an empty JSON array: []`
	case "citation":
		return fmt.Sprintf(`For each issue you find, output one line in this format:

LINE <line number>: [<exact problematic text>] <brief explanation>

If there are no issues, say "%s"`, sentinel)
	default:
		return fmt.Sprintf(`For each issue you find, output in this format:

TEXT: <exact problematic text>
ISSUE: <brief explanation>

If there are no issues, say "%s"`, sentinel)
	}
}

// UserPrompt builds the user prompt carrying the document text.
func (s PromptSpec) UserPrompt(text string) string {
	switch s.Kind {
	case KindReader, KindValue:
		return fmt.Sprintf("Check the following from the perspective of %s:\n\n%s", s.Reader, text)
	case KindFunction:
		return fmt.Sprintf("Check the following for whether it would %s %s:\n\n%s", s.Function, s.Reader, text)
	case KindGuessFunction, KindGuessValue:
		return fmt.Sprintf("For %s:\n\n%s", s.Reader, text)
	case KindGuessReader:
		return text
	default:
		return fmt.Sprintf("Check the following:\n\n%s", text)
	}
}
