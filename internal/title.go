package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const titlePrompt = `Based on the following user query, create a short, concise title of 5 words or less. The title should capture the main topic or intent. Do not use quotes or any special characters in the title.

User Query: "%s"

Title:`

var quoteStripper = strings.NewReplacer(`"`, "", `'`, "")

// TitleGenerator asks a generative model for a short session title and falls back to
// TruncateTitle whenever the model is unavailable or fails.
type TitleGenerator struct {
	model    string
	provider *genaiProvider
}

// NewTitleGenerator creates a generator using model and a key read through getenv
func NewTitleGenerator(model string, getenv func(string) string) *TitleGenerator {
	if model == "" {
		model = DefaultModel
	}
	return &TitleGenerator{model: model, provider: newGenAIProvider(getenv)}
}

// Generate never fails; errors only select the truncation fallback.
func (g *TitleGenerator) Generate(ctx context.Context, firstMessage string) string {
	client, err := g.provider.get(ctx)
	if err != nil {
		if errors.Is(err, ErrNoAPIKey) {
			LogWarn("API key not found in environment; title generation falls back to truncation")
		} else {
			LogError("Error initializing GenAI client: %v", err)
		}
		return TruncateTitle(firstMessage)
	}

	resp, err := client.GenerateContent(ctx, g.model, genai.Text(fmt.Sprintf(titlePrompt, firstMessage)), nil)
	if err != nil {
		LogError("Error generating title with Gemini: %v", err)
		return TruncateTitle(firstMessage)
	}

	title := strings.TrimSpace(quoteStripper.Replace(resp.Text()))
	if title == "" {
		return TruncateTitle(firstMessage)
	}
	return title
}
