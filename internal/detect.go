package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	appDirName     = "hookchat"
	dbFileName     = "hookchat.db"
	configFileName = "config.yaml"
)

// StoragePaths holds the on-disk locations used by hookchat
type StoragePaths struct {
	DataDir    string // directory holding the database and config
	DBPath     string // SQLite key/value store
	ConfigPath string // YAML configuration
}

// DetectStoragePaths returns the default locations for the current operating system
func DetectStoragePaths() (StoragePaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return StoragePaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	var dataDir string
	switch runtime.GOOS {
	case "darwin":
		dataDir = filepath.Join(home, "Library/Application Support", appDirName)
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			dataDir = filepath.Join(xdg, appDirName)
		} else {
			dataDir = filepath.Join(home, ".config", appDirName)
		}
	default:
		base, err := os.UserConfigDir()
		if err != nil {
			return StoragePaths{}, fmt.Errorf("unsupported OS: %s: %w", runtime.GOOS, err)
		}
		dataDir = filepath.Join(base, appDirName)
	}

	return pathsForDir(dataDir), nil
}

// GetStoragePaths resolves a custom storage location (a directory or a .db file),
// falling back to DetectStoragePaths when custom is empty.
func GetStoragePaths(custom string) (StoragePaths, error) {
	if custom == "" {
		return DetectStoragePaths()
	}

	abs, err := filepath.Abs(custom)
	if err != nil {
		return StoragePaths{}, fmt.Errorf("invalid storage path %s: %w", custom, err)
	}

	if strings.HasSuffix(abs, ".db") {
		paths := pathsForDir(filepath.Dir(abs))
		paths.DBPath = abs
		return paths, nil
	}
	return pathsForDir(abs), nil
}

func pathsForDir(dir string) StoragePaths {
	return StoragePaths{
		DataDir:    dir,
		DBPath:     filepath.Join(dir, dbFileName),
		ConfigPath: filepath.Join(dir, configFileName),
	}
}

// DatabaseExists reports whether the database file is present
func (sp StoragePaths) DatabaseExists() bool {
	_, err := os.Stat(sp.DBPath)
	return err == nil
}

// ConfigExists reports whether the config file is present
func (sp StoragePaths) ConfigExists() bool {
	_, err := os.Stat(sp.ConfigPath)
	return err == nil
}
