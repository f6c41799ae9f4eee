package diag

import (
	"fmt"
	"strings"
)

// Context is a range of text in a piece of source code. It is used for
// errors that can be attributed to a part of the source, like parse errors.
type Context struct {
	Name   string
	Source string
	Ranging
}

// NewContext creates a new Context.
func NewContext(name, source string, r Ranger) *Context {
	return &Context{name, source, r.Range()}
}

// ContextWindow is how many bytes of source around the start of the range
// Show includes.
const ContextWindow = 10

// Show renders the context as its name, line number and `around "..."`,
// quoting a window of up to [ContextWindow] bytes of the offending source.
func (c *Context) Show() string {
	if c.From < 0 || c.From > len(c.Source) || c.From > c.To {
		return fmt.Sprintf("%s, invalid position %d-%d", c.Name, c.From, c.To)
	}
	to := c.To
	if to > len(c.Source) {
		to = len(c.Source)
	}
	window := c.Source[c.From:to]
	if len(window) > ContextWindow {
		window = window[:ContextWindow]
	}
	line := strings.Count(c.Source[:c.From], "\n") + 1
	return fmt.Sprintf("%s, line %d: around %q", c.Name, line, window)
}
