package check

import (
	"fmt"

	"github.com/prosecheck/prosecheck/internal/extract"
)

// Kind is the category of check being run. The set is closed: adding a kind
// means touching the prompt table and the dispatch below, which the compiler
// and tests enforce.
type Kind string

const (
	// KindTypo looks for spelling and grammar errors
	KindTypo Kind = "typo"
	// KindClarity looks for unclear or ambiguous sentences
	KindClarity Kind = "clarity"
	// KindReader estimates whether a described reader will struggle
	KindReader Kind = "reader"
	// KindValue assesses whether the text is worth the described reader's time
	KindValue Kind = "value"
	// KindFunction assesses whether the text accomplishes its intended function
	KindFunction Kind = "function"
	// KindGuessFunction asks the model to guess the text's function
	KindGuessFunction Kind = "guess-function"
	// KindGuessValue asks the model to guess the text's value
	KindGuessValue Kind = "guess-value"
	// KindGuessReader asks the model to guess the intended audience
	KindGuessReader Kind = "guess-reader"
)

// Kinds lists every supported check kind in a stable order.
var Kinds = []Kind{
	KindTypo,
	KindClarity,
	KindReader,
	KindValue,
	KindFunction,
	KindGuessFunction,
	KindGuessValue,
	KindGuessReader,
}

// ParseKind validates a check-kind name from a profile.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown check kind %q", s)
}

// NeedsReader reports whether the kind requires a reader description.
// Checks that reason about a specific audience cannot run without one.
func (k Kind) NeedsReader() bool {
	switch k {
	case KindReader, KindValue, KindFunction, KindGuessFunction, KindGuessValue:
		return true
	case KindTypo, KindClarity, KindGuessReader:
		return false
	}
	return false
}

// NeedsFunction reports whether the kind requires an intended-function
// description.
func (k Kind) NeedsFunction() bool {
	return k == KindFunction
}

// IsGuess reports whether the kind is one of the guess variants, which
// answer in prose rather than itemized findings.
func (k Kind) IsGuess() bool {
	switch k {
	case KindGuessFunction, KindGuessValue, KindGuessReader:
		return true
	}
	return false
}

// StrategyFor returns the parse strategy for a kind given the profile's
// response format. Guess checks are always freeform; the other kinds follow
// the prompt variant the profile asked for.
func (k Kind) StrategyFor(responseFormat string) extract.Strategy {
	if k.IsGuess() {
		return extract.Freeform
	}
	switch responseFormat {
	case "json":
		return extract.JSONEnvelope
	case "citation":
		return extract.Citation
	default:
		return extract.Structured
	}
}
