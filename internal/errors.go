package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidResponse is raised when a webhook reply lacks the expected string field.
	ErrInvalidResponse = errors.New("Invalid response format from webhook.")

	// ErrNoAPIKey means no GenAI credential is present in the environment.
	ErrNoAPIKey = errors.New("no GenAI API key in environment")
)

// StorageError represents errors accessing the key/value store
type StorageError struct {
	Path string
	Op   string // "open", "read", "write", "delete"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors decoding persisted values
type ParseError struct {
	Source string // "localStorage"
	Key    string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WebhookError is a non-2xx reply from the chat webhook
type WebhookError struct {
	Status int
	Body   string
}

func (e *WebhookError) Error() string {
	return fmt.Sprintf("Webhook failed with status: %d. %s", e.Status, e.Body)
}

// ConfigError represents errors loading the configuration file
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ErrSessionNotFound is returned when an id matches no session
var ErrSessionNotFound = errors.New("session not found")
