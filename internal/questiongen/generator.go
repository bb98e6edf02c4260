package questiongen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/qgen/internal/llm"
	"github.com/abhisek/qgen/internal/logging"
)

// LLMGenerator implements Capability on top of an llm.Provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

var _ Capability = (*LLMGenerator)(nil)

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// Generate asks the provider for req.Count questions and returns them as an
// *MCQList. A model that over-delivers is trimmed to the requested count.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) (QuestionSet, error) {
	if err := CheckRequest(req); err != nil {
		return nil, err
	}
	if req.SourceType == "" {
		req.SourceType = SourceText
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionGen)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req)},
		},
		Schema:      QuestionSetSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var set MCQList
	if err := json.Unmarshal(resp.Content, &set); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	if len(set.Questions) > req.Count {
		set.Questions = set.Questions[:req.Count]
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(&set, req); verr != nil {
			return nil, verr
		}
	}

	if len(set.Questions) < req.Count {
		logging.WithContext(ctx).
			WithField("requested", req.Count).
			WithField("received", len(set.Questions)).
			Warn("model returned fewer questions than requested")
	}

	return &set, nil
}

// CheckRequest reports whether req can be sent to a generator.
func CheckRequest(req Request) error {
	if strings.TrimSpace(req.Source) == "" {
		return ErrEmptySource
	}
	if req.Count < MinCount || req.Count > MaxCount {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrCountOutOfRange, req.Count, MinCount, MaxCount)
	}
	return nil
}
