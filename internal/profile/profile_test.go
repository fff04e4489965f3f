package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `profiles:
  quick-spell:
    checks: [typo]
    model: ollama/gemma3
  deep-review:
    checks: [typo, clarity, reader]
    reader: "a college freshman"
    output_format: json
    response_format: citation
    prompt:
      scope_restriction: false
`

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Run("profiles load with defaults applied", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), sampleConfig)

		profiles, err := LoadFile(path)
		require.NoError(t, err)
		require.Len(t, profiles, 2)

		quick := profiles["quick-spell"]
		require.NotNil(t, quick)
		assert.Equal(t, "quick-spell", quick.Name)
		assert.Equal(t, []string{"typo"}, quick.Checks)
		assert.Equal(t, "ollama/gemma3", quick.Model)
		assert.Equal(t, "compiler", quick.OutputFormat)
		assert.Equal(t, "structured", quick.ResponseFormat)
		assert.True(t, quick.Prompt.ScopeRestrictionEnabled())

		deep := profiles["deep-review"]
		require.NotNil(t, deep)
		assert.Equal(t, "a college freshman", deep.Reader)
		assert.Equal(t, "json", deep.OutputFormat)
		assert.Equal(t, "citation", deep.ResponseFormat)
		assert.False(t, deep.Prompt.ScopeRestrictionEnabled())
		assert.True(t, deep.Prompt.PrioritizePrecisionEnabled())
	})

	t.Run("missing profiles section is an error", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "other: stuff\n")

		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "profiles")
	})

	t.Run("unknown output format is rejected", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "profiles:\n  bad:\n    output_format: xml\n")

		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "xml")
	})

	t.Run("unknown response format is rejected", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "profiles:\n  bad:\n    response_format: freeform\n")

		_, err := LoadFile(path)
		require.Error(t, err)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "profiles: [not: a: map\n")

		_, err := LoadFile(path)
		assert.Error(t, err)
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Run("walks up to a parent directory", func(t *testing.T) {
		root := t.TempDir()
		writeConfig(t, root, sampleConfig)

		nested := filepath.Join(root, "a", "b", "c")
		require.NoError(t, os.MkdirAll(nested, 0o755))

		found, ok := FindConfigFile(nested)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(root, ConfigFileName), found)
	})

	t.Run("nearest file wins", func(t *testing.T) {
		root := t.TempDir()
		writeConfig(t, root, sampleConfig)

		nested := filepath.Join(root, "sub")
		require.NoError(t, os.MkdirAll(nested, 0o755))
		inner := writeConfig(t, nested, sampleConfig)

		found, ok := FindConfigFile(nested)
		require.True(t, ok)
		assert.Equal(t, inner, found)
	})
}

func TestDefaults(t *testing.T) {
	profiles := Defaults()

	require.NotEmpty(t, profiles)
	for name, prof := range profiles {
		assert.Equal(t, name, prof.Name)
		assert.NotEmpty(t, prof.Checks)
		assert.Equal(t, "compiler", prof.OutputFormat)
		assert.Equal(t, "structured", prof.ResponseFormat)
	}
}

func TestGet(t *testing.T) {
	path := writeConfig(t, t.TempDir(), sampleConfig)

	t.Run("returns the named profile", func(t *testing.T) {
		prof, err := Get("deep-review", path)
		require.NoError(t, err)
		assert.Equal(t, "deep-review", prof.Name)
	})

	t.Run("miss lists the available profiles", func(t *testing.T) {
		_, err := Get("nope", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "deep-review, quick-spell")
	})
}
