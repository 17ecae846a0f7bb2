package common

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CleanPath returns the absolute, cleaned form of path
func CleanPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("invalid path: empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	return filepath.Clean(abs), nil
}

// ValidatePath ensures a path is within an allowed directory
func ValidatePath(path, baseDir string) (string, error) {
	cleanedPath, err := CleanPath(path)
	if err != nil {
		return "", err
	}

	cleanedBase, err := CleanPath(baseDir)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(cleanedBase, cleanedPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside %s", cleanedPath, cleanedBase)
	}

	return cleanedPath, nil
}

// JoinPath joins path components under base and rejects results that escape it
func JoinPath(base string, elements ...string) (string, error) {
	cleanedBase, err := CleanPath(base)
	if err != nil {
		return "", err
	}

	joined := filepath.Join(append([]string{cleanedBase}, elements...)...)

	return ValidatePath(joined, cleanedBase)
}

// ResolveUnder returns path unchanged (cleaned) when absolute, otherwise
// joins it under base
func ResolveUnder(base, path string) (string, error) {
	if filepath.IsAbs(path) {
		return CleanPath(path)
	}
	return JoinPath(base, path)
}
