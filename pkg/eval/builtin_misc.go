package eval

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"
)

func init() {
	addBuiltins(map[string]builtinFn{
		"exit":    builtinExit,
		"export":  builtinExport,
		"unset":   builtinUnset,
		"alias":   builtinAlias,
		"unalias": builtinUnalias,
		"history": builtinHistory,
		"setopt":  builtinSetopt,
		"time":    builtinTime,
		"umask":   builtinUmask,
		"source":  builtinSource,
	})
}

func builtinExit(s *Session, argv []string) int {
	code := 0
	if len(argv) > 1 {
		parsed, err := strconv.Atoi(argv[1])
		if err != nil {
			fmt.Fprintf(s.files[2], "exit: invalid argument %s\n", argv[1])
			return 1
		}
		code = parsed
	}
	s.WantExit = &code
	return code
}

func builtinExport(s *Session, argv []string) int {
	if len(argv) < 2 {
		environ := os.Environ()
		sort.Strings(environ)
		for _, entry := range environ {
			fmt.Fprintln(s.files[1], entry)
		}
		return 0
	}

	for _, arg := range argv[1:] {
		if i := strings.IndexByte(arg, '='); i >= 0 {
			os.Setenv(arg[:i], arg[i+1:])
			continue
		}
		// Promote a local variable into the environment.
		if local := s.LookupLocalVariable(arg); local != nil {
			os.Setenv(arg, strings.Join(s.resolveList(local), " "))
		} else {
			os.Setenv(arg, "")
		}
	}
	return 0
}

func builtinUnset(s *Session, argv []string) int {
	for _, name := range argv[1:] {
		if s.LookupLocalVariable(name) != nil {
			s.UnsetLocalVariable(name)
		} else {
			os.Unsetenv(name)
		}
	}
	return 0
}

func builtinAlias(s *Session, argv []string) int {
	if len(argv) < 2 {
		for _, name := range s.AliasNames() {
			fmt.Fprintf(s.files[1], "%s='%s'\n", name, s.ResolveAlias(name))
		}
		return 0
	}

	status := 0
	for _, arg := range argv[1:] {
		i := strings.IndexByte(arg, '=')
		if i <= 0 {
			if body := s.ResolveAlias(arg); body != "" {
				fmt.Fprintf(s.files[1], "%s='%s'\n", arg, body)
			} else {
				status = 1
			}
			continue
		}
		s.SetAlias(arg[:i], arg[i+1:])
	}
	s.CachePath()
	return status
}

func builtinUnalias(s *Session, argv []string) int {
	status := 0
	for _, name := range argv[1:] {
		if s.ResolveAlias(name) == "" {
			fmt.Fprintf(s.files[2], "unalias: no alias named %s\n", name)
			status = 1
			continue
		}
		s.UnsetAlias(name)
	}
	s.CachePath()
	return status
}

func builtinHistory(s *Session, argv []string) int {
	for i, line := range s.History {
		fmt.Fprintf(s.files[1], "%5d  %s\n", i+1, line)
	}
	return 0
}

// OptionNames is the closed set of names the setopt builtin recognizes.
var OptionNames = []string{
	"inline_exec_keep_empty_segments",
	"verbose",
}

// SetOption sets a named option. It reports whether the name was
// recognized.
func (s *Session) SetOption(name string, value bool) bool {
	switch name {
	case "inline_exec_keep_empty_segments":
		s.Options.InlineExecKeepEmptySegments = value
	case "verbose":
		s.Options.Verbose = value
	default:
		return false
	}
	return true
}

func builtinSetopt(s *Session, argv []string) int {
	status := 0
	for _, arg := range argv[1:] {
		name := strings.TrimPrefix(arg, "--")
		value := true
		if strings.HasPrefix(name, "no_") {
			name = name[len("no_"):]
			value = false
		}
		if !s.SetOption(name, value) {
			fmt.Fprintf(s.files[2], "setopt: unknown option %s\n", name)
			status = 1
		}
	}
	return status
}

func builtinTime(s *Session, argv []string) int {
	if len(argv) < 2 {
		fmt.Fprintln(s.files[2], "time: not enough arguments")
		return 1
	}
	cmd := NewCommand()
	cmd.Argv = argv[1:]
	start := time.Now()
	job := s.runCommand(cmd)
	if job != nil {
		s.BlockOnJob(job)
		s.LastReturnCode = job.ExitCode()
	}
	fmt.Fprintf(s.files[2], "Time: %v\n", time.Since(start))
	return s.LastReturnCode
}

func builtinUmask(s *Session, argv []string) int {
	if len(argv) < 2 {
		current := syscall.Umask(0)
		syscall.Umask(current)
		fmt.Fprintf(s.files[1], "%#o\n", current)
		return 0
	}
	mask, err := strconv.ParseUint(argv[1], 8, 32)
	if err != nil {
		fmt.Fprintf(s.files[2], "umask: invalid mask %s\n", argv[1])
		return 1
	}
	syscall.Umask(int(mask))
	return 0
}

func builtinSource(s *Session, argv []string) int {
	if len(argv) < 2 {
		fmt.Fprintln(s.files[2], "source: not enough arguments")
		return 1
	}
	data, err := os.ReadFile(argv[1])
	if err != nil {
		fmt.Fprintf(s.files[2], "source: %v\n", err)
		return 1
	}
	return s.RunCommand(string(data))
}
