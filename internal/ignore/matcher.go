// Package ignore compiles gitignore-style rules into a predicate over paths
// relative to the scan root.
package ignore

import (
	"bufio"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/temirov/codemass/internal/utils"
)

const (
	commentPrefix      = "#"
	negationPrefix     = "!"
	trailingDoubleStar = "/**"
	trailingSingleStar = "/*"
)

// BaseRules are always active, with or without an ignore file.
var BaseRules = []string{
	".git/",
	".svn/",
	".hg/",
	"node_modules/",
	"bower_components/",
	"vendor/bundle/",
	"dist/",
	"build/",
	"out/",
	"coverage/",
	".next/",
	".nuxt/",
	".cache/",
	".turbo/",
	"__pycache__/",
	".venv/",
	"venv/",
	"target/",
	".idea/",
	".vscode/",
	".DS_Store",
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"bun.lockb",
	"Cargo.lock",
	"go.sum",
	"poetry.lock",
	"composer.lock",
	"Gemfile.lock",
	"*.min.js",
	"*.min.css",
	"*.map",
}

// RuleSet is an ordered, immutable list of compiled ignore rules. The last
// rule matching a path decides whether it is ignored.
type RuleSet struct {
	rules   []string
	matcher gitignore.Matcher
}

// ParseRules splits ignore-file content into rule lines, dropping blank lines
// and comments.
func ParseRules(content string) []string {
	var rules []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		rules = append(rules, line)
	}
	return rules
}

// Compile builds a RuleSet from baseRules followed by the rules found in
// ignoreFileContent, which may be empty.
func Compile(baseRules []string, ignoreFileContent string) *RuleSet {
	combined := make([]string, 0, len(baseRules))
	for _, rule := range baseRules {
		if strings.TrimSpace(rule) == "" || strings.HasPrefix(rule, commentPrefix) {
			continue
		}
		combined = append(combined, rule)
	}
	combined = append(combined, ParseRules(ignoreFileContent)...)

	patterns := make([]gitignore.Pattern, 0, len(combined))
	for _, rule := range combined {
		patterns = append(patterns, gitignore.ParsePattern(contentsOnlyRule(rule), nil))
	}
	return &RuleSet{rules: combined, matcher: gitignore.NewMatcher(patterns)}
}

// contentsOnlyRule turns an excluding "dir/**" into "dir/*". gitignore matches
// "dir/**" against the contents of dir but not dir itself, while the go-git
// matcher also matches dir. Since ignored directories are pruned whole, "dir/*"
// keeps dir walkable so a later negation can re-include one of its files.
func contentsOnlyRule(rule string) string {
	if strings.HasPrefix(rule, negationPrefix) || !strings.HasSuffix(rule, trailingDoubleStar) {
		return rule
	}
	return strings.TrimSuffix(rule, trailingDoubleStar) + trailingSingleStar
}

// Rules returns a copy of the rule lines in evaluation order.
func (ruleSet *RuleSet) Rules() []string {
	if ruleSet == nil {
		return nil
	}
	return append([]string(nil), ruleSet.rules...)
}

// Matches reports whether relativePath is ignored. relativePath uses forward
// slashes; isDirectory enables directory-only rules. Callers are expected to
// stop descending into ignored directories.
func (ruleSet *RuleSet) Matches(relativePath string, isDirectory bool) bool {
	if ruleSet == nil || ruleSet.matcher == nil {
		return false
	}
	segments := utils.SplitSlashPath(relativePath)
	if len(segments) == 0 {
		return false
	}
	return ruleSet.matcher.Match(segments, isDirectory)
}
