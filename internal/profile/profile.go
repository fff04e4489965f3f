// Package profile loads named check profiles from .prosecheck.yaml. The
// file is discovered by walking up from the working directory; when none is
// found a small set of built-in profiles applies.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the profile file searched for up the directory tree
const ConfigFileName = ".prosecheck.yaml"

// PromptOptions tunes the generated system prompts. Both knobs default to
// enabled; they exist so a profile can loosen the prompt deliberately.
type PromptOptions struct {
	ScopeRestriction    *bool `yaml:"scope_restriction"`
	PrioritizePrecision *bool `yaml:"prioritize_precision"`
}

// ScopeRestrictionEnabled reports the effective scope_restriction value.
func (p *PromptOptions) ScopeRestrictionEnabled() bool {
	if p == nil || p.ScopeRestriction == nil {
		return true
	}
	return *p.ScopeRestriction
}

// PrioritizePrecisionEnabled reports the effective prioritize_precision value.
func (p *PromptOptions) PrioritizePrecisionEnabled() bool {
	if p == nil || p.PrioritizePrecision == nil {
		return true
	}
	return *p.PrioritizePrecision
}

// Profile is a named bundle of checks, model choice, and check parameters.
// Immutable once loaded for the run.
type Profile struct {
	Name               string         `yaml:"-"`
	Checks             []string       `yaml:"checks"`
	Model              string         `yaml:"model"`
	Reader             string         `yaml:"reader"`
	Function           string         `yaml:"function"`
	OutputFormat       string         `yaml:"output_format"`   // compiler, json, or streaming
	ResponseFormat     string         `yaml:"response_format"` // structured, json, or citation
	CustomInstructions string         `yaml:"custom_instructions"`
	Prompt             *PromptOptions `yaml:"prompt"`
}

type configFile struct {
	Profiles map[string]*Profile `yaml:"profiles"`
}

// FindConfigFile searches startDir and its parents for the profile file.
func FindConfigFile(startDir string) (string, bool) {
	current, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(current, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// LoadFile loads and validates profiles from a YAML file.
func LoadFile(path string) (map[string]*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}

	var parsed configFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if len(parsed.Profiles) == 0 {
		return nil, fmt.Errorf("profile file %s must contain a 'profiles' section", path)
	}

	for name, prof := range parsed.Profiles {
		prof.Name = name
		applyDefaults(prof)
		if err := validate(prof); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
	}

	return parsed.Profiles, nil
}

// Defaults returns the built-in profiles used when no config file exists.
func Defaults() map[string]*Profile {
	profiles := map[string]*Profile{
		"quick-spell": {
			Checks: []string{"typo"},
		},
		"clarity-check": {
			Checks: []string{"clarity"},
		},
	}
	for name, prof := range profiles {
		prof.Name = name
		applyDefaults(prof)
	}
	return profiles
}

// Load returns all profiles: from the explicit path when given, from a
// discovered config file otherwise, falling back to the built-in defaults.
func Load(explicitPath string) (map[string]*Profile, error) {
	path := explicitPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		found, ok := FindConfigFile(cwd)
		if !ok {
			return Defaults(), nil
		}
		path = found
	}

	return LoadFile(path)
}

// Get returns one profile by name, listing the available names on a miss.
func Get(name, explicitPath string) (*Profile, error) {
	profiles, err := Load(explicitPath)
	if err != nil {
		return nil, err
	}

	prof, ok := profiles[name]
	if !ok {
		names := make([]string, 0, len(profiles))
		for n := range profiles {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("profile %q not found, available profiles: %s", name, strings.Join(names, ", "))
	}

	return prof, nil
}

func applyDefaults(prof *Profile) {
	if len(prof.Checks) == 0 {
		prof.Checks = []string{"typo"}
	}
	if prof.OutputFormat == "" {
		prof.OutputFormat = "compiler"
	}
	if prof.ResponseFormat == "" {
		prof.ResponseFormat = "structured"
	}
}

func validate(prof *Profile) error {
	switch prof.OutputFormat {
	case "compiler", "json", "streaming":
	default:
		return fmt.Errorf("unknown output_format %q", prof.OutputFormat)
	}

	switch prof.ResponseFormat {
	case "structured", "json", "citation":
	default:
		return fmt.Errorf("unknown response_format %q", prof.ResponseFormat)
	}

	return nil
}
