package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ClientPaths contains the filesystem locations used by the client core.
type ClientPaths struct {
	Home     string // Client home directory (~/.vitrin)
	ClientDB string // SQLite client storage path
	Env      string // Optional .env file consulted by the CLI
}

// GetClientPaths returns the locations for the client state directory.
func GetClientPaths() ClientPaths {
	home := GetVitrinHome()
	return ClientPaths{
		Home:     home,
		ClientDB: filepath.Join(home, "client.db"),
		Env:      filepath.Join(home, ".env"),
	}
}

// GetVitrinHome returns the VitrinSaz home directory (~/.vitrin).
func GetVitrinHome() string {
	userHome, _ := os.UserHomeDir()
	return filepath.Join(userHome, ".vitrin")
}

// EnsureClientDirs creates the client home directory if needed and returns
// the resolved paths.
func EnsureClientDirs() (ClientPaths, error) {
	paths := GetClientPaths()
	if err := os.MkdirAll(paths.Home, 0o700); err != nil {
		return ClientPaths{}, fmt.Errorf("config: create client directory: %w", err)
	}
	return paths, nil
}
