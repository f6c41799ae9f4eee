package shell

import (
	"fmt"
	"os"
	"strings"

	"src.mar.sh/pkg/env"
	"src.mar.sh/pkg/eval"
)

// Prompt builds the prompt string from $PROMPT. Recognized escapes: \X
// opens an OSC 0 window title, \a is BEL, \e is ESC, \u the username, \h
// the hostname, \w the working directory with the home prefix folded to ~,
// and \p is '#' for root and '$' otherwise. Without $PROMPT a default
// colored prompt is used; root gets a bare "# ".
func Prompt(s *eval.Session) string {
	format, ok := os.LookupEnv(env.PROMPT)
	if !ok {
		if s.Uid() == 0 {
			return "# "
		}
		var b strings.Builder
		fmt.Fprintf(&b, "\033]0;%s@%s:%s\007",
			s.Username(), s.Hostname(), s.Cwd())
		fmt.Fprintf(&b,
			"\033[31;1m%s\033[0m@\033[37;1m%s\033[0m:\033[32;1m%s\033[0m$> ",
			s.Username(), s.Hostname(), s.Cwd())
		return b.String()
	}

	var b strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] != '\\' {
			b.WriteByte(format[i])
			continue
		}
		i++
		if i >= len(format) {
			break
		}
		switch format[i] {
		case 'X':
			b.WriteString("\033]0;")
		case 'a':
			b.WriteByte(0x07)
		case 'e':
			b.WriteByte(0x1b)
		case 'u':
			b.WriteString(s.Username())
		case 'h':
			b.WriteString(s.Hostname())
		case 'w':
			home := os.Getenv(env.HOME)
			if home != "" && strings.HasPrefix(s.Cwd(), home) {
				b.WriteString("~" + s.Cwd()[len(home):])
			} else {
				b.WriteString(s.Cwd())
			}
		case 'p':
			if s.Uid() == 0 {
				b.WriteByte('#')
			} else {
				b.WriteByte('$')
			}
		}
	}
	return b.String()
}
