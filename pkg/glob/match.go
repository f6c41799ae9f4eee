package glob

import (
	"strings"
	"unicode/utf8"
)

// HasMeta reports whether the string contains glob metacharacters.
func HasMeta(s string) bool {
	return strings.ContainsAny(s, "*?")
}

// matchElement matches one path element against a pattern, case-sensitively.
// * matches any run of characters and ? matches exactly one.
func matchElement(pattern, name string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			// Collapse consecutive stars, then try every split point.
			for len(pattern) > 0 && pattern[0] == '*' {
				pattern = pattern[1:]
			}
			if pattern == "" {
				return true
			}
			for i := 0; i <= len(name); i++ {
				if matchElement(pattern, name[i:]) {
					return true
				}
			}
			return false
		case '?':
			if name == "" {
				return false
			}
			_, size := utf8.DecodeRuneInString(name)
			pattern, name = pattern[1:], name[size:]
		default:
			if name == "" || name[0] != pattern[0] {
				return false
			}
			pattern, name = pattern[1:], name[1:]
		}
	}
	return name == ""
}
