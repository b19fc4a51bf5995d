package model

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.oneiro, or .oneiro when the home directory is unknown
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".oneiro"
	}
	return filepath.Join(home, ".oneiro")
}

func defaultCacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}
