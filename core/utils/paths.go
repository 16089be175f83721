package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// ArchiveExt is the extension of ROM bundles.
const ArchiveExt = ".zip"

// AbsPath expands environment variables and a leading "~" and returns an absolute path.
func AbsPath(path string) string {
	if path == "" {
		return ""
	}
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// GameName returns the game key for a bundle path: the base name without ".zip".
func GameName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ArchiveExt)
}
