package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultRootDir is the transcripts root relative to the home directory.
var DefaultRootDir = filepath.Join(".claude", "projects")

// ResolvePath converts a configured root into a local path.
// Handles file:// URIs and a leading ~. Empty input resolves to the default
// transcripts root under the home directory.
func ResolvePath(path string) string {
	path = strings.TrimPrefix(path, "file://")

	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}

	switch {
	case path == "":
		if home == "" {
			return ""
		}
		return filepath.Join(home, DefaultRootDir)
	case path == "~":
		if home != "" {
			return home
		}
	case strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`):
		if home != "" {
			return filepath.Join(home, path[2:])
		}
	}

	return filepath.Clean(path)
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part != "." && part != ".." && strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
