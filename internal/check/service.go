package check

import (
	"context"
	"fmt"

	"github.com/prosecheck/prosecheck/internal/document"
	"github.com/prosecheck/prosecheck/internal/extract"
	"github.com/prosecheck/prosecheck/internal/llm"
	"github.com/prosecheck/prosecheck/internal/locate"
	"github.com/prosecheck/prosecheck/internal/loggy"
	"github.com/prosecheck/prosecheck/internal/profile"
	"github.com/prosecheck/prosecheck/internal/ulid"
)

// ClientResolver resolves a model identifier to a ready LLM client. Satisfied
// by llm.Factory.
type ClientResolver interface {
	ClientFor(model string) (llm.Client, string, error)
}

// Service orchestrates a run: prompt building, model calls, response parsing,
// and location resolution.
type Service struct {
	resolver ClientResolver
	logger   *loggy.Logger
}

// NewService creates a new check service.
func NewService(resolver ClientResolver, logger *loggy.Logger) *Service {
	if logger == nil {
		logger = loggy.NewNoopLogger()
	}
	return &Service{
		resolver: resolver,
		logger:   logger,
	}
}

// Prompt is one fully built prompt pair, exposed for dry runs.
type Prompt struct {
	Kind   Kind
	System string
	User   string
}

// specsFor expands a profile into one validated PromptSpec per check. All
// specs are validated before any is used, so a misconfigured later check
// fails the run before the first model call.
func specsFor(prof *profile.Profile) ([]PromptSpec, error) {
	specs := make([]PromptSpec, 0, len(prof.Checks))
	for _, name := range prof.Checks {
		kind, err := ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", prof.Name, err)
		}
		specs = append(specs, PromptSpec{
			Kind:                kind,
			ResponseFormat:      prof.ResponseFormat,
			Reader:              prof.Reader,
			Function:            prof.Function,
			CustomInstructions:  prof.CustomInstructions,
			ScopeRestriction:    prof.Prompt.ScopeRestrictionEnabled(),
			PrioritizePrecision: prof.Prompt.PrioritizePrecisionEnabled(),
		})
	}

	if len(specs) == 0 {
		return nil, fmt.Errorf("profile %q has no checks", prof.Name)
	}

	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
	}

	return specs, nil
}

// Prompts builds every prompt a run would send, without calling any model.
func (s *Service) Prompts(prof *profile.Profile, doc *document.Document) ([]Prompt, error) {
	specs, err := specsFor(prof)
	if err != nil {
		return nil, err
	}

	prompts := make([]Prompt, 0, len(specs))
	for _, spec := range specs {
		system, err := spec.SystemPrompt()
		if err != nil {
			return nil, fmt.Errorf("check %q: %w", spec.Kind, err)
		}
		prompts = append(prompts, Prompt{
			Kind:   spec.Kind,
			System: system,
			User:   spec.UserPrompt(doc.Text),
		})
	}

	return prompts, nil
}

// Run executes every check in the profile against the document, sequentially
// in profile order, and aggregates the results into a single report. Any
// check failing aborts the whole run with an error naming the check.
func (s *Service) Run(ctx context.Context, prof *profile.Profile, doc *document.Document) (*Report, error) {
	specs, err := specsFor(prof)
	if err != nil {
		return nil, err
	}

	client, model, err := s.resolver.ClientFor(prof.Model)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:    ulid.RunID(),
		File:     doc.Path,
		Profile:  prof.Name,
		Model:    prof.Model,
		Issues:   []Issue{},
		Unparsed: []Fragment{},
	}

	for _, spec := range specs {
		s.logger.Debug("running check",
			"run_id", report.RunID,
			"check", spec.Kind,
			"file", doc.Path,
		)

		result, respModel, err := s.runCheck(ctx, client, model, spec, doc)
		if err != nil {
			return nil, fmt.Errorf("check %q: %w", spec.Kind, err)
		}
		if report.Model == "" {
			report.Model = respModel
		}

		for _, f := range result.Findings {
			loc := locate.Resolve(f.Text, f.Line, doc)
			report.Issues = append(report.Issues, Issue{
				File:       doc.Path,
				Kind:       spec.Kind,
				Text:       f.Text,
				CitedLine:  f.Line,
				Line:       loc.Line,
				Column:     loc.Column,
				Message:    f.Explanation,
				Severity:   f.Severity,
				Confidence: f.Confidence,
			})
		}
		for _, raw := range result.Unparsed {
			report.Unparsed = append(report.Unparsed, Fragment{Kind: spec.Kind, Text: raw})
		}

		s.logger.Debug("check finished",
			"run_id", report.RunID,
			"check", spec.Kind,
			"issues", len(result.Findings),
			"unparsed", len(result.Unparsed),
		)
	}

	return report, nil
}

// runCheck sends one check's prompts to the model and parses the response.
func (s *Service) runCheck(ctx context.Context, client llm.Client, model string, spec PromptSpec, doc *document.Document) (extract.Result, string, error) {
	system, err := spec.SystemPrompt()
	if err != nil {
		return extract.Result{}, "", err
	}

	resp, err := client.GenerateChat(ctx, llm.ChatRequest{
		Model:  model,
		System: system,
		Messages: []llm.Message{
			{Role: "user", Content: spec.UserPrompt(doc.Text)},
		},
	})
	if err != nil {
		return extract.Result{}, "", err
	}
	if resp.Error != "" {
		return extract.Result{}, "", fmt.Errorf("model error: %s", resp.Error)
	}

	strategy := spec.Kind.StrategyFor(spec.ResponseFormat)
	return extract.Parse(strategy, resp.Content), resp.Model, nil
}

// RunStream executes a single-check profile and streams the raw model output
// as it arrives. Streaming bypasses parsing entirely, so it is only valid
// for profiles with exactly one check.
func (s *Service) RunStream(ctx context.Context, prof *profile.Profile, doc *document.Document) (<-chan llm.ChatResponse, error) {
	specs, err := specsFor(prof)
	if err != nil {
		return nil, err
	}
	if len(specs) != 1 {
		return nil, fmt.Errorf("streaming output requires a single check, profile %q has %d", prof.Name, len(specs))
	}
	spec := specs[0]

	client, model, err := s.resolver.ClientFor(prof.Model)
	if err != nil {
		return nil, err
	}

	system, err := spec.SystemPrompt()
	if err != nil {
		return nil, fmt.Errorf("check %q: %w", spec.Kind, err)
	}

	chunks, err := client.GenerateChatStream(ctx, llm.ChatRequest{
		Model:  model,
		System: system,
		Messages: []llm.Message{
			{Role: "user", Content: spec.UserPrompt(doc.Text)},
		},
		Stream: true,
	})
	if err != nil {
		return nil, fmt.Errorf("check %q: %w", spec.Kind, err)
	}

	return chunks, nil
}
