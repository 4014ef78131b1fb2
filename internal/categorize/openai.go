package categorize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = openai.ChatModelGPT4oMini

// OpenAI asks a chat completion model to pick the category.
type OpenAI struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAI creates an OpenAI categorizer. Extra request options (base URL,
// retries) are passed to the client.
func NewOpenAI(apiKey, model string, opts ...option.RequestOption) *OpenAI {
	if model == "" {
		model = DefaultModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  openai.ChatModel(model),
	}
}

// Categorize sends the expense to the model and parses its JSON answer.
func (o *OpenAI) Categorize(ctx context.Context, in Input) (Analysis, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(buildPrompt(in)),
		},
		Temperature: openai.Float(0.3),
		MaxTokens:   openai.Int(100),
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Analysis{}, errors.New("chat completion returned no choices")
	}
	return parseAnalysis(resp.Choices[0].Message.Content)
}

func buildPrompt(in Input) string {
	description := in.Description
	if description == "" {
		description = "No description"
	}

	var b strings.Builder
	b.WriteString("Categorize this expense for a shared expense ledger:\n\n")
	fmt.Fprintf(&b, "Title: %s\nDescription: %s\nAmount: $%.2f\n\n", in.Title, description, in.Amount)
	fmt.Fprintf(&b, "Available categories: %s\n\n", strings.Join(Categories, ", "))
	b.WriteString("Respond with a JSON object containing:\n")
	b.WriteString("1. category: one of the available categories (most appropriate match)\n")
	b.WriteString("2. confidence: a number between 0 and 1 indicating confidence in the categorization\n\n")
	b.WriteString("Category guidelines:\n")
	for _, c := range Categories {
		fmt.Fprintf(&b, "- %q: %s\n", c, Descriptions[c])
	}
	b.WriteString("\nPick the most specific category. Consider the context and amount.\n")
	return b.String()
}

// parseAnalysis decodes the model's answer, tolerating markdown code fences.
// Missing fields fall back to the Default values.
func parseAnalysis(content string) (Analysis, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)
	if content == "" {
		content = "{}"
	}

	var raw struct {
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return Analysis{}, fmt.Errorf("decode model answer: %w", err)
	}

	analysis := Analysis{Category: raw.Category, Confidence: raw.Confidence}
	if analysis.Category == "" {
		analysis.Category = Default.Category
	}
	if analysis.Confidence == 0 {
		analysis.Confidence = Default.Confidence
	}
	if _, ok := Canonical(analysis.Category); !ok {
		return analysis, fmt.Errorf("%w: %q", ErrUnknownCategory, analysis.Category)
	}
	return analysis, nil
}
