package services

import (
	"os"
	"os/exec"
	"path/filepath"
)

// findExecutable searches for an executable in common paths.
// Packaged desktop apps do not inherit the user's shell PATH.
func findExecutable(name string) string {
	homeDir, _ := os.UserHomeDir()

	searchPaths := []string{
		"/opt/homebrew/bin",                     // Homebrew (Apple Silicon)
		"/usr/local/bin",                        // Homebrew (Intel) / system
		"/usr/bin",                              // System
		"/snap/bin",                             // Snap packages
		filepath.Join(homeDir, ".local", "bin"), // user installs
		filepath.Join(homeDir, "bin"),
	}

	// First try exec.LookPath (works when running from terminal)
	if path, err := exec.LookPath(name); err == nil {
		return path
	}

	for _, dir := range searchPaths {
		fullPath := filepath.Join(dir, name)
		if _, err := os.Stat(fullPath); err == nil {
			return fullPath
		}
	}

	// Return original name as fallback
	return name
}
