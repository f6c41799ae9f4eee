package eval

import (
	"os"
	"os/user"
	"strings"

	"src.mar.sh/pkg/env"
	"src.mar.sh/pkg/parse"
)

// ExpandTilde expands a ~ or ~user prefix, keeping any trailing path. A
// lookup failure for an explicit user returns the expression unchanged.
func (s *Session) ExpandTilde(expression string) string {
	if !strings.HasPrefix(expression, "~") {
		return expression
	}

	rest := expression[1:]
	loginName := rest
	tail := ""
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		loginName, tail = rest[:i], rest[i:]
	}

	if loginName == "" {
		home := os.Getenv(env.HOME)
		if home == "" {
			u, err := user.Current()
			if err != nil {
				return expression
			}
			home = u.HomeDir
		}
		return home + tail
	}

	u, err := user.Lookup(loginName)
	if err != nil {
		return expression
	}
	return u.HomeDir + tail
}

// ExpandAliases rewrites each command whose argv[0] names an alias by
// splicing in the parsed alias body. A command resolving back to the alias
// being expanded is kept as-is, so self-referential aliases terminate.
func (s *Session) ExpandAliases(initial []*Command) []*Command {
	var commands []*Command

	var resolveAndAppend func(cmd *Command)
	resolveAndAppend = func(cmd *Command) {
		if len(cmd.Argv) == 0 {
			commands = append(commands, cmd)
			return
		}
		alias := s.ResolveAlias(cmd.Argv[0])
		if alias == "" {
			commands = append(commands, cmd)
			return
		}

		argv0 := cmd.Argv[0]
		rest := NewCommand()
		rest.Argv = cmd.Argv[1:]
		rest.Redirections = cmd.Redirections
		rest.ShouldWait = cmd.ShouldWait
		rest.IsPipeSource = cmd.IsPipeSource
		rest.ShouldNotifyIfInBackground = cmd.ShouldNotifyIfInBackground

		tree, err := parse.Parse(parse.Source{Name: "alias " + argv0, Code: alias})
		if err != nil || tree.Root == nil {
			commands = append(commands, cmd)
			return
		}
		body := tree.Root
		for {
			if ex, ok := body.(*parse.Execute); ok {
				body = ex.Command
				continue
			}
			break
		}

		literal := &commandLiteral{cmd: rest}
		literal.Ranging = body.Range()
		substituted := joinCommands(
			s.Eval(body).ResolveAsCommands(s),
			s.Eval(literal).ResolveAsCommands(s))
		for _, sub := range substituted {
			if len(sub.Argv) > 0 && sub.Argv[0] == argv0 {
				// Disallow an alias resolving to itself.
				commands = append(commands, sub)
			} else {
				resolveAndAppend(sub)
			}
		}
	}

	for _, cmd := range initial {
		resolveAndAppend(cmd)
	}

	return commands
}
