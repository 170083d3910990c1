// Package generate provides generation collaborators that turn a question
// and a set of authorized documents into an answer.
package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"ragguard/internal/domain/models"
	"ragguard/internal/domain/services"
)

const answerSystemPrompt = "You are a knowledge assistant. Answer the question using ONLY the provided documents. " +
	"If the documents do not contain the answer, say you don't have that information. " +
	"Never reference documents that are not provided."

// AnthropicGenerator implements the Generator interface using Claude models.
type AnthropicGenerator struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicGenerator creates an Anthropic-backed generator.
func NewAnthropicGenerator(apiKey, model string) (*AnthropicGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &AnthropicGenerator{
		client: &client,
		model:  model,
	}, nil
}

var _ services.Generator = (*AnthropicGenerator)(nil)

// Name returns the provider name.
func (g *AnthropicGenerator) Name() string {
	return "anthropic"
}

// Generate answers the question from the given documents. The documents are
// the complete universe of usable content; the prompt instructs the model
// not to reach beyond them.
func (g *AnthropicGenerator) Generate(ctx context.Context, question string, docs []*models.Document) (string, error) {
	prompt := buildPrompt(question, docs)

	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Type: "text", Text: answerSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var sb strings.Builder
	for _, content := range message.Content {
		if content.Type == "text" {
			sb.WriteString(content.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic response contained no text content")
	}

	return sb.String(), nil
}

func buildPrompt(question string, docs []*models.Document) string {
	var sb strings.Builder
	sb.WriteString("Documents:\n\n")
	for i, doc := range docs {
		fmt.Fprintf(&sb, "--- Document %d: %s ---\n%s\n\n", i+1, doc.Title, doc.Content)
	}
	sb.WriteString("Question: ")
	sb.WriteString(question)
	return sb.String()
}
