package parse

import "strings"

// tokenSpecials are the bytes EscapeToken protects with a backslash.
const tokenSpecials = `'"$|><&\ `

// EscapeToken puts a backslash before every byte of the token that is in
// tokenSpecials. Other bytes the parser treats specially (';', '#', '(',
// ')', '*', '?', a leading '~', tabs and newlines) are left as they are.
func EscapeToken(token string) string {
	var b strings.Builder
	for i := 0; i < len(token); i++ {
		if strings.IndexByte(tokenSpecials, token[i]) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(token[i])
	}
	return b.String()
}

// UnescapeToken removes backslash escapes from a token. A trailing lone
// backslash is kept.
func UnescapeToken(token string) string {
	var b strings.Builder
	escaped := false
	for i := 0; i < len(token); i++ {
		if escaped {
			b.WriteByte(token[i])
			escaped = false
		} else if token[i] == '\\' {
			escaped = true
		} else {
			b.WriteByte(token[i])
		}
	}
	if escaped {
		b.WriteByte('\\')
	}
	return b.String()
}
