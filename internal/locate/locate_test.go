package locate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prosecheck/prosecheck/internal/document"
)

func testDoc() *document.Document {
	return document.New("notes.md", "The first line.\nWe will recieve the package.\nThe third line.\nWe will recieve the package.")
}

func TestResolve(t *testing.T) {
	doc := testDoc()

	t.Run("cited line containing the snippet is trusted", func(t *testing.T) {
		loc := Resolve("recieve", 4, doc)

		assert.Equal(t, 4, loc.Line)
		assert.Equal(t, 9, loc.Column)
		assert.True(t, loc.Located())
	})

	t.Run("content match overrides a wrong citation", func(t *testing.T) {
		loc := Resolve("recieve", 3, doc)

		assert.Equal(t, 2, loc.Line)
		assert.Equal(t, 9, loc.Column)
	})

	t.Run("first match wins when the citation is absent", func(t *testing.T) {
		loc := Resolve("recieve", 0, doc)

		assert.Equal(t, 2, loc.Line)
	})

	t.Run("matching is case-sensitive", func(t *testing.T) {
		loc := Resolve("RECIEVE", 2, doc)

		assert.False(t, loc.Located())
	})

	t.Run("column is the byte offset plus one", func(t *testing.T) {
		loc := Resolve("The first line.", 1, doc)

		assert.Equal(t, 1, loc.Line)
		assert.Equal(t, 1, loc.Column)
	})

	t.Run("bare citation in range is kept without a column", func(t *testing.T) {
		loc := Resolve("", 3, doc)

		assert.Equal(t, 3, loc.Line)
		assert.Zero(t, loc.Column)
		assert.True(t, loc.Located())
	})

	t.Run("bare citation out of range is unlocated", func(t *testing.T) {
		loc := Resolve("", 99, doc)

		assert.False(t, loc.Located())
	})

	t.Run("snippet not in the document is unlocated", func(t *testing.T) {
		loc := Resolve("nowhere to be found", 2, doc)

		assert.False(t, loc.Located())
		assert.Zero(t, loc.Line)
		assert.Zero(t, loc.Column)
	})

	t.Run("resolution is deterministic", func(t *testing.T) {
		first := Resolve("recieve", 3, doc)
		second := Resolve("recieve", 3, doc)

		assert.Equal(t, first, second)
	})
}
