// Package utils contains general helper functions used across codemass.
package utils

import (
	"path/filepath"
	"strings"
)

const (
	// GitIgnoreFileName is the name of the ignore file read from the scan root.
	GitIgnoreFileName = ".gitignore"
	// NoExtensionKey groups files without an extension.
	NoExtensionKey = "no-ext"
)

const pathSegmentSeparator = "/"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// RelativeSlashPath returns fullPath relative to root using forward slashes.
// Returns "." if fullPath and root resolve to the same directory, and the
// slash-converted fullPath when no relative form exists.
func RelativeSlashPath(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	cleanRoot := filepath.Clean(root)
	if cleanPath == cleanRoot {
		return "."
	}
	relativePath, relErr := filepath.Rel(cleanRoot, cleanPath)
	if relErr != nil {
		return filepath.ToSlash(cleanPath)
	}
	return filepath.ToSlash(relativePath)
}

// SplitSlashPath splits a forward-slash relative path into its segments.
func SplitSlashPath(relativePath string) []string {
	trimmed := strings.Trim(strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator), pathSegmentSeparator)
	if trimmed == "" || trimmed == "." {
		return nil
	}
	return strings.Split(trimmed, pathSegmentSeparator)
}

// FileExtension returns the extension of the last path element, including the
// leading dot. Leading dots of the name do not start an extension, so
// ".gitignore" has none while ".eslintrc.json" has ".json".
func FileExtension(path string) string {
	name := path
	if separatorIndex := strings.LastIndexAny(name, "/\\"); separatorIndex >= 0 {
		name = name[separatorIndex+1:]
	}
	withoutLeadingDots := strings.TrimLeft(name, ".")
	dotIndex := strings.LastIndex(withoutLeadingDots, ".")
	if dotIndex < 0 {
		return ""
	}
	return withoutLeadingDots[dotIndex:]
}

// ExtensionKey returns the lowercase extension of path or NoExtensionKey.
func ExtensionKey(path string) string {
	extension := strings.ToLower(FileExtension(path))
	if extension == "" {
		return NoExtensionKey
	}
	return extension
}
