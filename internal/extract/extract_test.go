package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStructured(t *testing.T) {
	t.Run("well-formed blocks", func(t *testing.T) {
		input := `TEXT: recieve the package
ISSUE: "recieve" should be "receive"

TEXT: their are many
ISSUE: "their" should be "there"`

		result := Parse(Structured, input)

		require.Len(t, result.Findings, 2)
		assert.Empty(t, result.Unparsed)

		assert.Equal(t, "recieve the package", result.Findings[0].Text)
		assert.Equal(t, `"recieve" should be "receive"`, result.Findings[0].Explanation)
		assert.Equal(t, "their are many", result.Findings[1].Text)
	})

	t.Run("optional confidence and severity", func(t *testing.T) {
		input := `TEXT: very unique
ISSUE: "unique" is absolute, drop "very"
CONFIDENCE: 85%
SEVERITY: Low`

		result := Parse(Structured, input)

		require.Len(t, result.Findings, 1)
		f := result.Findings[0]
		require.NotNil(t, f.Confidence)
		assert.InDelta(t, 0.85, *f.Confidence, 1e-9)
		assert.Equal(t, "low", f.Severity)
	})

	t.Run("explanation accepted as alias for issue", func(t *testing.T) {
		input := `TEXT: teh cat
EXPLANATION: "teh" should be "the"`

		result := Parse(Structured, input)

		require.Len(t, result.Findings, 1)
		assert.Equal(t, `"teh" should be "the"`, result.Findings[0].Explanation)
	})

	t.Run("continuation lines extend the open field", func(t *testing.T) {
		input := `TEXT: a long snippet
ISSUE: this explanation
spans two lines`

		result := Parse(Structured, input)

		require.Len(t, result.Findings, 1)
		assert.Equal(t, "this explanation spans two lines", result.Findings[0].Explanation)
	})

	t.Run("block missing a required field goes to unparsed", func(t *testing.T) {
		input := `TEXT: orphaned snippet with no issue line

TEXT: valid snippet
ISSUE: a real explanation`

		result := Parse(Structured, input)

		require.Len(t, result.Findings, 1)
		assert.Equal(t, "valid snippet", result.Findings[0].Text)
		require.Len(t, result.Unparsed, 1)
		assert.Contains(t, result.Unparsed[0], "orphaned snippet")
	})

	t.Run("prose block goes to unparsed verbatim", func(t *testing.T) {
		input := "I looked very carefully and here are my thoughts about the text."

		result := Parse(Structured, input)

		assert.Empty(t, result.Findings)
		require.Len(t, result.Unparsed, 1)
		assert.Equal(t, input, result.Unparsed[0])
	})

	t.Run("duplicate findings are retained", func(t *testing.T) {
		input := `TEXT: teh
ISSUE: typo

TEXT: teh
ISSUE: typo`

		result := Parse(Structured, input)

		assert.Len(t, result.Findings, 2)
	})
}

func TestNoIssueSentinel(t *testing.T) {
	t.Run("sentinel responses yield empty results", func(t *testing.T) {
		responses := []string{
			"No issues found.",
			"There are no errors found.",
			"  no issues found  ",
			"THERE ARE NO UNCLEAR OR CONFUSING SENTENCES FOUND.",
			"The text provides value to its readers.",
			"The text accomplishes its intended function.",
		}

		for _, response := range responses {
			result := Parse(Structured, response)
			assert.Empty(t, result.Findings, "response: %q", response)
			assert.Empty(t, result.Unparsed, "response: %q", response)
		}
	})

	t.Run("long responses mentioning the phrase are not swallowed", func(t *testing.T) {
		long := "TEXT: no issues found here, he wrote\nISSUE: ironic, because this sentence has problems\n\n" +
			"TEXT: another snippet\nISSUE: and another explanation to push the response well past the sentinel length cutoff for short responses"

		result := Parse(Structured, long)

		assert.NotEmpty(t, result.Findings)
	})
}

func TestParseCitation(t *testing.T) {
	t.Run("bracketed markers", func(t *testing.T) {
		input := `LINE 3: [recieve] should be "receive"
LINE 7: [their are] should be "there are"`

		result := Parse(Citation, input)

		require.Len(t, result.Findings, 2)
		assert.Equal(t, 3, result.Findings[0].Line)
		assert.Equal(t, "recieve", result.Findings[0].Text)
		assert.Contains(t, result.Findings[0].Explanation, `should be "receive"`)
		assert.Equal(t, 7, result.Findings[1].Line)
	})

	t.Run("quoted markers", func(t *testing.T) {
		input := `Line 12: "very unique" is redundant`

		result := Parse(Citation, input)

		require.Len(t, result.Findings, 1)
		assert.Equal(t, 12, result.Findings[0].Line)
		assert.Equal(t, "very unique", result.Findings[0].Text)
	})

	t.Run("explanation runs to the next marker", func(t *testing.T) {
		input := `LINE 1: [snippet one] first explanation
which continues on a second line
LINE 2: [snippet two] second explanation`

		result := Parse(Citation, input)

		require.Len(t, result.Findings, 2)
		assert.Contains(t, result.Findings[0].Explanation, "continues on a second line")
		assert.NotContains(t, result.Findings[0].Explanation, "snippet two")
	})

	t.Run("preamble before the first marker is preserved", func(t *testing.T) {
		input := `Here is what I found:
LINE 4: [teh] typo`

		result := Parse(Citation, input)

		require.Len(t, result.Findings, 1)
		require.Len(t, result.Unparsed, 1)
		assert.Equal(t, "Here is what I found:", result.Unparsed[0])
	})

	t.Run("no markers at all", func(t *testing.T) {
		result := Parse(Citation, "just some prose with no citations")

		assert.Empty(t, result.Findings)
		require.Len(t, result.Unparsed, 1)
	})

	t.Run("marker citing only whitespace is noise", func(t *testing.T) {
		result := Parse(Citation, "LINE 5: [   ] empty citation")

		assert.Empty(t, result.Findings)
		assert.Len(t, result.Unparsed, 1)
	})
}

func TestParseFreeform(t *testing.T) {
	t.Run("whole response becomes one finding", func(t *testing.T) {
		input := "The intended audience appears to be software engineers,\nbased on the jargon used."

		result := Parse(Freeform, input)

		require.Len(t, result.Findings, 1)
		assert.Equal(t, input, result.Findings[0].Explanation)
		assert.Empty(t, result.Findings[0].Text)
		assert.Zero(t, result.Findings[0].Line)
	})

	t.Run("empty response yields nothing", func(t *testing.T) {
		result := Parse(Freeform, "   \n  ")

		assert.Empty(t, result.Findings)
		assert.Empty(t, result.Unparsed)
	})
}

func TestParseConfidence(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
		nil_ bool
	}{
		{"85%", 0.85, false},
		{"85", 0.85, false},
		{"0.85", 0.85, false},
		{"100", 1.0, false},
		{"high", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got := parseConfidence(tc.raw)
		if tc.nil_ {
			assert.Nil(t, got, "raw: %q", tc.raw)
			continue
		}
		require.NotNil(t, got, "raw: %q", tc.raw)
		assert.InDelta(t, tc.want, *got, 1e-9, "raw: %q", tc.raw)
	}
}
