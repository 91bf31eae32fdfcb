package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Schema selects the webhook request/response contract
type Schema string

const (
	// SchemaHistory sends {message, history} and expects {text}
	SchemaHistory Schema = "history"
	// SchemaSession sends {chatInput, session_id, model} and expects {AIResponse}
	SchemaSession Schema = "session"
)

// Backend names
const (
	BackendWebhook = "webhook"
	BackendGemini  = "gemini"
)

const (
	DefaultModel          = "gemini-2.5-flash"
	DefaultWebhookTimeout = 2 * time.Minute
)

// FieldNames are the JSON field names used on the webhook wire. Empty names take the
// schema's defaults.
type FieldNames struct {
	Message   string `yaml:"message,omitempty"`
	History   string `yaml:"history,omitempty"`
	SessionID string `yaml:"session_id,omitempty"`
	Model     string `yaml:"model,omitempty"`
	Response  string `yaml:"response,omitempty"`
}

// WebhookConfig configures the webhook chat client
type WebhookConfig struct {
	URL     string        `yaml:"url"`
	Schema  Schema        `yaml:"schema"`
	Model   string        `yaml:"model,omitempty"`
	Timeout time.Duration `yaml:"timeout"`
	Fields  FieldNames    `yaml:"fields,omitempty"`
}

// GeminiConfig configures the direct Gemini chat backend
type GeminiConfig struct {
	Model string `yaml:"model"`
}

// TitleConfig configures the optional title generator
type TitleConfig struct {
	Model string `yaml:"model"`
}

// Config is the full hookchat configuration
type Config struct {
	Backend string        `yaml:"backend"`
	DataDir string        `yaml:"data_dir,omitempty"`
	Webhook WebhookConfig `yaml:"webhook"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Title   TitleConfig   `yaml:"title"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendWebhook,
		Webhook: WebhookConfig{
			Schema:  SchemaHistory,
			Model:   DefaultModel,
			Timeout: DefaultWebhookTimeout,
		},
		Gemini: GeminiConfig{Model: DefaultModel},
		Title:  TitleConfig{Model: DefaultModel},
	}
}

// SchemaFields returns the default field names of a schema
func SchemaFields(schema Schema) FieldNames {
	if schema == SchemaSession {
		return FieldNames{
			Message:   "chatInput",
			SessionID: "session_id",
			Model:     "model",
			Response:  "AIResponse",
		}
	}
	return FieldNames{
		Message:  "message",
		History:  "history",
		Response: "text",
	}
}

// ResolvedFields merges configured field names over the schema defaults
func (w WebhookConfig) ResolvedFields() FieldNames {
	f := SchemaFields(w.Schema)
	if w.Fields.Message != "" {
		f.Message = w.Fields.Message
	}
	if w.Fields.History != "" {
		f.History = w.Fields.History
	}
	if w.Fields.SessionID != "" {
		f.SessionID = w.Fields.SessionID
	}
	if w.Fields.Model != "" {
		f.Model = w.Fields.Model
	}
	if w.Fields.Response != "" {
		f.Response = w.Fields.Response
	}
	return f
}

// LoadConfig reads the YAML file at path over DefaultConfig and applies environment
// overrides. A missing file is only an error when required is set.
func LoadConfig(path string, required bool, getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, &ConfigError{Path: path, Err: err}
			}
		case errors.Is(err, fs.ErrNotExist) && !required:
			LogDebug("No config file at %s, using defaults", path)
		default:
			return nil, &ConfigError{Path: path, Err: err}
		}
	}

	if getenv == nil {
		getenv = os.Getenv
	}
	cfg.applyEnv(getenv)

	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("HOOKCHAT_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := getenv("HOOKCHAT_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := getenv("HOOKCHAT_WEBHOOK_URL"); v != "" {
		c.Webhook.URL = v
	}
	if v := getenv("HOOKCHAT_WEBHOOK_SCHEMA"); v != "" {
		c.Webhook.Schema = Schema(v)
	}
	if v := getenv("HOOKCHAT_MODEL"); v != "" {
		c.Webhook.Model = v
		c.Gemini.Model = v
	}
}

// Validate checks enumerated fields
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendWebhook, BackendGemini:
	default:
		return fmt.Errorf("unsupported backend: %s (supported: webhook, gemini)", c.Backend)
	}
	switch c.Webhook.Schema {
	case SchemaHistory, SchemaSession:
	default:
		return fmt.Errorf("unsupported webhook schema: %s (supported: history, session)", c.Webhook.Schema)
	}
	if c.Webhook.Timeout < 0 {
		return fmt.Errorf("webhook timeout must not be negative: %s", c.Webhook.Timeout)
	}
	return nil
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
