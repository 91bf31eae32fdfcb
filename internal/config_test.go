package internal

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/iksnae/hookchat/testutil"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := filepath.Join(testutil.CreateTempDir(t), "config.yaml")

	cfg, err := LoadConfig(path, false, envMap(nil))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("LoadConfig() without file mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_RequiredMissing(t *testing.T) {
	path := filepath.Join(testutil.CreateTempDir(t), "absent.yaml")

	_, err := LoadConfig(path, true, envMap(nil))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("LoadConfig() error = %v, want ConfigError", err)
	}
}

func TestLoadConfig_FileAndEnvPrecedence(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteConfigFixture(t, dir, `
backend: webhook
webhook:
  url: https://file.example/hook
  schema: session
  timeout: 30s
  fields:
    response: reply
title:
  model: gemini-2.0-flash
`)

	cfg, err := LoadConfig(path, true, envMap(map[string]string{
		"HOOKCHAT_WEBHOOK_URL": "https://env.example/hook",
		"HOOKCHAT_MODEL":       "custom-model",
	}))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Webhook.URL != "https://env.example/hook" {
		t.Errorf("Webhook.URL = %q, env should win over file", cfg.Webhook.URL)
	}
	if cfg.Webhook.Schema != SchemaSession {
		t.Errorf("Webhook.Schema = %q, want session", cfg.Webhook.Schema)
	}
	if cfg.Webhook.Timeout != 30*time.Second {
		t.Errorf("Webhook.Timeout = %v, want 30s", cfg.Webhook.Timeout)
	}
	if cfg.Webhook.Model != "custom-model" || cfg.Gemini.Model != "custom-model" {
		t.Errorf("models = %q/%q, want custom-model", cfg.Webhook.Model, cfg.Gemini.Model)
	}
	if cfg.Title.Model != "gemini-2.0-flash" {
		t.Errorf("Title.Model = %q, want gemini-2.0-flash", cfg.Title.Model)
	}

	want := FieldNames{Message: "chatInput", SessionID: "session_id", Model: "model", Response: "reply"}
	if diff := cmp.Diff(want, cfg.Webhook.ResolvedFields()); diff != "" {
		t.Errorf("ResolvedFields() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		env      map[string]string
	}{
		{name: "malformed yaml", contents: "webhook: [unclosed"},
		{name: "unknown schema", contents: "webhook:\n  schema: merged\n"},
		{name: "unknown backend from env", contents: "", env: map[string]string{"HOOKCHAT_BACKEND": "carrier-pigeon"}},
		{name: "negative timeout", contents: "webhook:\n  timeout: -1s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteConfigFixture(t, testutil.CreateTempDir(t), tt.contents)
			if _, err := LoadConfig(path, true, envMap(tt.env)); err == nil {
				t.Error("LoadConfig() error = nil, want error")
			}
		})
	}
}

func TestSchemaFields(t *testing.T) {
	history := SchemaFields(SchemaHistory)
	if history.Message != "message" || history.History != "history" || history.Response != "text" {
		t.Errorf("history schema fields = %+v", history)
	}
	session := SchemaFields(SchemaSession)
	if session.Message != "chatInput" || session.Response != "AIResponse" || session.History != "" {
		t.Errorf("session schema fields = %+v", session)
	}
}

func TestConfig_MarshalRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Webhook.URL = "https://example.test/hook"

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	path := testutil.WriteConfigFixture(t, testutil.CreateTempDir(t), string(data))

	loaded, err := LoadConfig(path, true, envMap(nil))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("config round trip mismatch (-want +got):\n%s", diff)
	}
}
