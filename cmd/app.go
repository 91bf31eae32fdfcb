package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/iksnae/hookchat/internal"
)

// app is the wiring every session command runs against
type app struct {
	cfg   *internal.Config
	paths internal.StoragePaths
	store internal.KeyValueStore
	ctrl  *internal.Controller
	close func() error
}

// getenv is swapped in tests
var getenv = os.Getenv

// loadSettings resolves storage paths and the effective configuration.
// Precedence is config file, then environment, then flags.
func loadSettings() (internal.StoragePaths, *internal.Config, error) {
	dir := storagePath
	if dir == "" {
		dir = getenv("HOOKCHAT_DATA_DIR")
	}
	paths, err := internal.GetStoragePaths(dir)
	if err != nil {
		return internal.StoragePaths{}, nil, fmt.Errorf("failed to get storage paths: %w", err)
	}

	cfgPath := configPath
	if cfgPath == "" {
		cfgPath = paths.ConfigPath
	}
	cfg, err := internal.LoadConfig(cfgPath, configPath != "", getenv)
	if err != nil {
		return internal.StoragePaths{}, nil, err
	}

	if dir == "" && cfg.DataDir != "" {
		if paths, err = internal.GetStoragePaths(cfg.DataDir); err != nil {
			return internal.StoragePaths{}, nil, fmt.Errorf("failed to get storage paths: %w", err)
		}
	}
	paths.ConfigPath = cfgPath

	if backendName != "" {
		cfg.Backend = backendName
	}
	if webhookURL != "" {
		cfg.Webhook.URL = webhookURL
	}
	if err := cfg.Validate(); err != nil {
		return internal.StoragePaths{}, nil, &internal.ConfigError{Path: cfgPath, Err: err}
	}
	return paths, cfg, nil
}

// openApp opens the store and builds the controller; callers must Close it
func openApp() (*app, error) {
	paths, cfg, err := loadSettings()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, paths: paths, close: func() error { return nil }}
	if ephemeral {
		internal.LogDebug("Using in-memory session store")
		a.store = internal.NewMemoryStore()
	} else {
		store, err := internal.OpenSQLiteStore(paths.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open session store: %w", err)
		}
		internal.LogDebug("Using session store at %s", store.Path())
		a.store = store
		a.close = store.Close
	}

	a.ctrl = internal.NewController(internal.NewStoreAdapter(a.store), newChatClient(cfg), nil)
	a.ctrl.Bootstrap()
	return a, nil
}

func (a *app) Close() error {
	return a.close()
}

func newChatClient(cfg *internal.Config) internal.ChatClient {
	if cfg.Backend == internal.BackendGemini {
		return internal.NewGeminiClient(cfg.Gemini.Model, getenv)
	}
	return internal.NewWebhookClient(cfg.Webhook, nil)
}

// withApp runs fn against an opened app and closes it afterwards
func withApp(fn func(a *app) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			internal.LogWarn("Failed to close session store: %v", err)
		}
	}()
	return fn(a)
}

// sessionArg resolves an optional session id argument, defaulting to the active session
func (a *app) sessionArg(args []string) (internal.Session, error) {
	if len(args) > 0 && args[0] != "" {
		s, ok := a.ctrl.Session(args[0])
		if !ok {
			return internal.Session{}, fmt.Errorf("%w: %s", internal.ErrSessionNotFound, args[0])
		}
		return s, nil
	}
	s, ok := a.ctrl.ActiveSession()
	if !ok {
		return internal.Session{}, fmt.Errorf("no active session")
	}
	return s, nil
}

// requireSession fails when id names no session
func (a *app) requireSession(id string) error {
	if _, ok := a.ctrl.Session(id); !ok {
		return fmt.Errorf("%w: %s", internal.ErrSessionNotFound, id)
	}
	return nil
}

// timeNow is swapped in tests
var timeNow = time.Now

// newTitleSource builds the title generator configured for cfg
func newTitleSource(cfg *internal.Config) internal.TitleSource {
	return internal.NewTitleGenerator(cfg.Title.Model, getenv)
}
