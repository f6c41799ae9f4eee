package strutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Title returns the string with the first codepoint changed to upper case.
func Title(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	return string(unicode.ToTitle(r)) + s[size:]
}

// ChopLineEnding removes a trailing "\n" or "\r\n" from the string.
func ChopLineEnding(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	} else if strings.HasSuffix(s, "\n") {
		return s[:len(s)-1]
	}
	return s
}
