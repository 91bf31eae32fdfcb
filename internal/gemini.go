package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"google.golang.org/genai"
)

// contentGenerator is the part of the GenAI SDK hookchat calls (*genai.Models)
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// APIKeyFromEnv returns the GenAI credential, preferring GEMINI_API_KEY over API_KEY
func APIKeyFromEnv(getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	if key := getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return getenv("API_KEY")
}

func connectGenAI(ctx context.Context, apiKey string) (contentGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return client.Models, nil
}

// genaiProvider creates the SDK client on first use. A failed attempt is not cached,
// so a later call may succeed once the environment is fixed.
type genaiProvider struct {
	getenv  func(string) string
	connect func(ctx context.Context, apiKey string) (contentGenerator, error)

	mu     sync.Mutex
	client contentGenerator
}

func newGenAIProvider(getenv func(string) string) *genaiProvider {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &genaiProvider{getenv: getenv, connect: connectGenAI}
}

func (p *genaiProvider) get(ctx context.Context) (contentGenerator, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	key := APIKeyFromEnv(p.getenv)
	if key == "" {
		return nil, ErrNoAPIKey
	}
	client, err := p.connect(ctx, key)
	if err != nil {
		return nil, err
	}
	p.client = client
	return client, nil
}

// GeminiClient is a ChatClient talking to the Gemini API directly. Unlike
// WebhookClient it reports failures as errors.
type GeminiClient struct {
	model    string
	provider *genaiProvider
}

// NewGeminiClient creates a Gemini chat backend reading its key from getenv
func NewGeminiClient(model string, getenv func(string) string) *GeminiClient {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiClient{model: model, provider: newGenAIProvider(getenv)}
}

// Send sends the history followed by the new user message
func (c *GeminiClient) Send(ctx context.Context, req ChatRequest) (string, error) {
	client, err := c.provider.get(ctx)
	if err != nil {
		return "", err
	}

	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, msg := range req.History {
		contents = append(contents, genai.NewContentFromText(msg.Content, genai.Role(msg.Role)))
	}
	contents = append(contents, genai.NewContentFromText(req.Message, genai.RoleUser))

	resp, err := client.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Gemini generate failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("Gemini returned an empty response")
	}
	return text, nil
}
