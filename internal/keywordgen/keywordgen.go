package keywordgen

/*
Keyword generator (external, stub). Real generation is out of scope
per spec.md §1 (the crawler consumes whatever `keywords` the parsed
page already carries); this package wires the contract an eventual
LLM-backed enrichment step would use, grounded on the teacher pack's
`lueurxax-TelegramDigestBot/internal/llm` client shape.
*/

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Generator proposes additional search keywords for a recipe from its
// title and ingredient list.
type Generator interface {
	Generate(ctx context.Context, title string, ingredients []string) ([]string, error)
}

// openAIGenerator is the default Generator, backed by the Chat
// Completions API. It is never called from the Scheduler's critical
// path today — nothing in spec.md requires keyword generation — but
// satisfies the DOMAIN STACK's "wire the contract" requirement.
type openAIGenerator struct {
	client *openai.Client
	model  string
}

// New builds a Generator from an API key. An empty apiKey is valid: it
// produces a Generator whose Generate calls always fail, so callers
// that never configured the feature get a clear error instead of a
// silent no-op.
func New(apiKey, model string) Generator {
	return NewWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewWithConfig builds a Generator from an explicit client
// configuration, letting callers point the client at a
// self-hosted or test double endpoint via cfg.BaseURL.
func NewWithConfig(cfg openai.ClientConfig, model string) Generator {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &openAIGenerator{client: openai.NewClientWithConfig(cfg), model: model}
}

func (g *openAIGenerator) Generate(ctx context.Context, title string, ingredients []string) ([]string, error) {
	prompt := fmt.Sprintf("Suggest up to five search keywords for a recipe titled %q with ingredients: %v", title, ingredients)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("keywordgen: generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("keywordgen: no choices returned for %q", title)
	}

	return splitKeywords(resp.Choices[0].Message.Content), nil
}

// splitKeywords turns a comma-separated completion into a trimmed,
// non-empty keyword list.
func splitKeywords(content string) []string {
	var keywords []string
	for _, word := range strings.Split(content, ",") {
		if word = strings.TrimSpace(word); word != "" {
			keywords = append(keywords, word)
		}
	}
	return keywords
}
