package release

import (
	"path/filepath"
	"strings"
)

// RuleKind tells how a rule value is compared with a path.
type RuleKind int

const (
	// RuleExact matches a path segment equal to the value.
	RuleExact RuleKind = iota
	// RuleSuffix matches a final segment ending with the value.
	RuleSuffix
)

// wildcardPrefix marks a suffix pattern such as "*.zip".
const wildcardPrefix = "*"

// Rule is a single exclusion pattern.
type Rule struct {
	Kind  RuleKind
	Value string
}

// ExclusionRules is an ordered set of patterns applied to every package variant.
type ExclusionRules []Rule

// DefaultExcludePatterns returns the patterns used when no settings override them.
func DefaultExcludePatterns() []string {
	return []string{
		"__pycache__",
		".git",
		".gitignore",
		".gitattributes",
		"node_modules",
		"releases",
		"docs",
		"scripts",
		".vscode",
		".idea",
		"*.zip",
		"*.pyc",
		".DS_Store",
		"Thumbs.db",
	}
}

// ParseRules turns patterns into rules. A pattern starting with "*" becomes a
// suffix rule on the remainder; anything else is an exact segment rule.
// Empty patterns are skipped.
func ParseRules(patterns []string) ExclusionRules {
	rules := make(ExclusionRules, 0, len(patterns))

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		if suffix, ok := strings.CutPrefix(pattern, wildcardPrefix); ok {
			rules = append(rules, Rule{Kind: RuleSuffix, Value: suffix})
			continue
		}

		rules = append(rules, Rule{Kind: RuleExact, Value: pattern})
	}

	return rules
}

// Patterns renders rules back into their textual form.
func (r ExclusionRules) Patterns() []string {
	patterns := make([]string, 0, len(r))
	for _, rule := range r {
		if rule.Kind == RuleSuffix {
			patterns = append(patterns, wildcardPrefix+rule.Value)
		} else {
			patterns = append(patterns, rule.Value)
		}
	}

	return patterns
}

// Excluded reports whether path must stay out of every archive.
//
// Path is relative to the project root, in either slash or OS form. It is
// excluded when an exact rule equals any of its segments, or when a suffix rule
// matches the end of its final segment. The first matching rule wins.
func (r ExclusionRules) Excluded(path string) bool {
	path = filepath.ToSlash(filepath.Clean(path))
	segments := strings.Split(path, "/")
	name := segments[len(segments)-1]

	for _, rule := range r {
		switch rule.Kind {
		case RuleSuffix:
			if strings.HasSuffix(name, rule.Value) {
				return true
			}
		case RuleExact:
			for _, segment := range segments {
				if segment == rule.Value {
					return true
				}
			}
		}
	}

	return false
}
