// Package exclusion decides whether a file is excluded by its extension, by
// a user supplied name pattern or by a file name glob.
package exclusion

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	testFileMarker  = ".test."
	specFileMarker  = ".spec."
	namePatternMark = "*"
)

// Extension groups disabled by the --no-json, --no-markdown and --no-yaml flags.
var (
	JSONExtensions     = []string{".json", ".jsonc", ".json5"}
	MarkdownExtensions = []string{".md", ".mdx", ".markdown"}
	YAMLExtensions     = []string{".yml", ".yaml"}
)

// Options carries the raw user input an exclusion Config is built from.
type Options struct {
	ExcludeTokens []string
	// GlobPatterns are matched against lowercase file names with doublestar
	// syntax. They come from --exclude-glob, not from --exclude.
	GlobPatterns    []string
	DisableJSON     bool
	DisableMarkdown bool
	DisableYAML     bool
}

// Config is the immutable exclusion policy shared by one scan.
type Config struct {
	extensions   map[string]struct{}
	namePatterns []string
	globPatterns []string
}

// Build classifies each exclude token as a name pattern or an extension, adds
// the glob patterns and adds the extension groups of the disabled content types.
//
// A token is a name pattern when it contains "*" or one of the ".test." /
// ".spec." markers. Name patterns only exclude files through those markers, so
// "*.log" is kept but excludes nothing. Every other token is an extension; a
// pattern-like token such as "src/gen" is the extension ".src/gen" and matches
// nothing useful.
func Build(options Options) Config {
	config := Config{extensions: make(map[string]struct{})}
	for _, token := range options.ExcludeTokens {
		trimmedToken := strings.TrimSpace(token)
		if trimmedToken == "" {
			continue
		}
		if isNamePattern(trimmedToken) {
			config.namePatterns = append(config.namePatterns, trimmedToken)
			continue
		}
		config.extensions[NormalizeExtension(trimmedToken)] = struct{}{}
	}
	for _, pattern := range options.GlobPatterns {
		trimmedPattern := strings.ToLower(strings.TrimSpace(pattern))
		if trimmedPattern == "" || !doublestar.ValidatePattern(trimmedPattern) {
			continue
		}
		config.globPatterns = append(config.globPatterns, trimmedPattern)
	}
	if options.DisableJSON {
		config.addExtensions(JSONExtensions)
	}
	if options.DisableMarkdown {
		config.addExtensions(MarkdownExtensions)
	}
	if options.DisableYAML {
		config.addExtensions(YAMLExtensions)
	}
	return config
}

// NormalizeExtension lowercases token and makes sure it starts with a dot.
func NormalizeExtension(token string) string {
	lowered := strings.ToLower(strings.TrimSpace(token))
	if strings.HasPrefix(lowered, ".") {
		return lowered
	}
	return "." + lowered
}

func isNamePattern(token string) bool {
	return strings.Contains(token, namePatternMark) ||
		strings.Contains(token, testFileMarker) ||
		strings.Contains(token, specFileMarker)
}

func (config *Config) addExtensions(extensions []string) {
	for _, extension := range extensions {
		config.extensions[extension] = struct{}{}
	}
}

// IsExcluded reports whether a file is excluded. extension is compared
// case-insensitively; fileName is expected in lowercase.
func (config Config) IsExcluded(fileName string, extension string) bool {
	if _, excluded := config.extensions[strings.ToLower(extension)]; excluded {
		return true
	}
	for _, pattern := range config.namePatterns {
		if matchesNamePattern(pattern, fileName) {
			return true
		}
	}
	for _, pattern := range config.globPatterns {
		if doublestar.MatchUnvalidated(pattern, fileName) {
			return true
		}
	}
	return false
}

func matchesNamePattern(pattern string, fileName string) bool {
	if strings.Contains(pattern, testFileMarker) && strings.Contains(fileName, testFileMarker) {
		return true
	}
	return strings.Contains(pattern, specFileMarker) && strings.Contains(fileName, specFileMarker)
}

// Extensions returns the excluded extensions in sorted order.
func (config Config) Extensions() []string {
	extensions := make([]string, 0, len(config.extensions))
	for extension := range config.extensions {
		extensions = append(extensions, extension)
	}
	sort.Strings(extensions)
	return extensions
}

// NamePatterns returns the name patterns in the order they were supplied.
func (config Config) NamePatterns() []string {
	return append([]string(nil), config.namePatterns...)
}

// GlobPatterns returns the lowercase glob patterns in the order they were supplied.
func (config Config) GlobPatterns() []string {
	return append([]string(nil), config.globPatterns...)
}
