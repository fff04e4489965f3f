package ulid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	id := Generate()

	assert.Len(t, id, 26, "ULID strings are 26 characters")
	assert.True(t, Validate(id))
}

func TestGenerateIsMonotonic(t *testing.T) {
	a := Generate()
	b := Generate()

	assert.NotEqual(t, a, b)
	assert.True(t, a < b, "ULIDs generated in order should sort in order")
}

func TestRunID(t *testing.T) {
	id := RunID()

	assert.True(t, strings.HasPrefix(id, PrefixRun+PrefixSeparator))
	assert.True(t, Validate(id))
}

func TestValidate(t *testing.T) {
	assert.True(t, Validate(Generate()))
	assert.True(t, Validate(RunID()))
	assert.False(t, Validate("not-a-ulid"))
	assert.False(t, Validate(""))
}
