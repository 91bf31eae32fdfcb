package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

const maxWebhookBody = 10 << 20

// ChatClient answers one user message. Implementations that return an error leave it
// to the caller to turn the failure into a chat message.
type ChatClient interface {
	Send(ctx context.Context, req ChatRequest) (string, error)
}

// WebhookClient posts chat turns to a remote webhook. It keeps no state between calls.
type WebhookClient struct {
	url        string
	schema     Schema
	model      string
	fields     FieldNames
	httpClient *http.Client
}

// NewWebhookClient builds a client from configuration. A nil httpClient gets one
// carrying cfg.Timeout.
func NewWebhookClient(cfg WebhookConfig, httpClient *http.Client) *WebhookClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	schema := cfg.Schema
	if schema == "" {
		schema = SchemaHistory
	}
	cfg.Schema = schema
	return &WebhookClient{
		url:        cfg.URL,
		schema:     schema,
		model:      cfg.Model,
		fields:     cfg.ResolvedFields(),
		httpClient: httpClient,
	}
}

// Send posts the request and always returns a reply: webhook and transport failures
// are rendered as assistant text. The error result is always nil.
func (c *WebhookClient) Send(ctx context.Context, req ChatRequest) (string, error) {
	text, err := c.Post(ctx, req)
	if err != nil {
		LogError("Error sending message to webhook: %v", err)
		return ErrorReply(err), nil
	}
	return text, nil
}

// Post performs one webhook round trip and reports failures as errors
func (c *WebhookClient) Post(ctx context.Context, req ChatRequest) (string, error) {
	if c.url == "" {
		return "", errors.New("webhook URL is not configured")
	}

	payload, err := json.Marshal(c.body(req))
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", uuid.NewString())

	LogDebug("POST %s (schema %s, %d bytes)", c.url, c.schema, len(payload))
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWebhookBody))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &WebhookError{Status: resp.StatusCode, Body: string(body)}
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("failed to parse webhook response: %w", err)
	}

	obj, ok := data.(map[string]any)
	if !ok {
		LogError("Unexpected response format from webhook: %s", body)
		return "", ErrInvalidResponse
	}
	text, ok := obj[c.fields.Response].(string)
	if !ok {
		LogError("Unexpected response format from webhook: %s", body)
		return "", ErrInvalidResponse
	}
	return text, nil
}

// body builds the request payload for the configured schema
func (c *WebhookClient) body(req ChatRequest) map[string]any {
	if c.schema == SchemaSession {
		return map[string]any{
			c.fields.Message:   req.Message,
			c.fields.SessionID: req.SessionID,
			c.fields.Model:     c.model,
		}
	}
	return map[string]any{
		c.fields.Message: req.Message,
		c.fields.History: ToChatHistory(req.History),
	}
}

// ErrorReply renders a chat failure as assistant text
func ErrorReply(err error) string {
	if err == nil || err.Error() == "" {
		return "An unknown error occurred."
	}
	return "An error occurred while connecting to the AI assistant: " + err.Error()
}
