package eval

import (
	"fmt"
	"strconv"
)

func init() {
	addBuiltins(map[string]builtinFn{
		"cd":    builtinCd,
		"cdh":   builtinCdh,
		"pushd": builtinPushd,
		"popd":  builtinPopd,
		"dirs":  builtinDirs,
		"pwd":   builtinPwd,
	})
}

func builtinCd(s *Session, argv []string) int {
	var target string
	switch {
	case len(argv) < 2:
		target = s.home
		if target == "" {
			fmt.Fprintln(s.files[2], "cd: could not find home directory")
			return 1
		}
	case argv[1] == "-":
		if len(s.cdHistory) == 0 {
			fmt.Fprintln(s.files[2], "cd: no previous directory")
			return 1
		}
		target = s.cdHistory[len(s.cdHistory)-1]
	default:
		target = argv[1]
	}

	if err := s.Chdir(target); err != nil {
		fmt.Fprintf(s.files[2], "cd: %v\n", err)
		return 1
	}
	return 0
}

func builtinCdh(s *Session, argv []string) int {
	history := s.cdHistory
	if len(history) == 0 && s.store != nil {
		// Fall back to the persistent directory history from previous
		// sessions, most recently weighted first.
		dirs, err := s.store.Dirs(map[string]struct{}{s.cwd: {}})
		if err == nil {
			for _, dir := range dirs {
				history = append(history, dir.Path)
			}
		}
	}

	if len(argv) < 2 {
		if len(history) == 0 {
			fmt.Fprintln(s.files[2], "cdh: no history available")
			return 1
		}
		for i := len(history) - 1; i >= 0; i-- {
			fmt.Fprintf(s.files[1], "%3d: %s\n", len(history)-i, history[i])
		}
		return 0
	}

	index, err := strconv.Atoi(argv[1])
	if err != nil || index < 1 || index > len(history) {
		fmt.Fprintf(s.files[2], "cdh: no entry %s\n", argv[1])
		return 1
	}
	return builtinCd(s, []string{"cd", history[len(history)-index]})
}

func builtinPushd(s *Session, argv []string) int {
	if len(argv) < 2 {
		// With no arguments, swap the working directory with the top of
		// the stack.
		if len(s.dirStack) < 2 {
			fmt.Fprintln(s.files[2], "pushd: no other directory")
			return 1
		}
		top := s.dirStack[len(s.dirStack)-1]
		s.dirStack[len(s.dirStack)-1] = s.cwd
		if err := s.Chdir(top); err != nil {
			fmt.Fprintf(s.files[2], "pushd: %v\n", err)
			return 1
		}
		return 0
	}

	s.dirStack = append(s.dirStack, s.cwd)
	if err := s.Chdir(argv[1]); err != nil {
		s.dirStack = s.dirStack[:len(s.dirStack)-1]
		fmt.Fprintf(s.files[2], "pushd: %v\n", err)
		return 1
	}
	return 0
}

func builtinPopd(s *Session, argv []string) int {
	if len(s.dirStack) < 2 {
		fmt.Fprintln(s.files[2], "popd: directory stack empty")
		return 1
	}
	top := s.dirStack[len(s.dirStack)-1]
	s.dirStack = s.dirStack[:len(s.dirStack)-1]
	if err := s.Chdir(top); err != nil {
		fmt.Fprintf(s.files[2], "popd: %v\n", err)
		return 1
	}
	return 0
}

func builtinDirs(s *Session, argv []string) int {
	numbered := false
	for _, arg := range argv[1:] {
		switch arg {
		case "-c":
			s.dirStack = []string{s.cwd}
			return 0
		case "-v":
			numbered = true
		default:
			fmt.Fprintf(s.files[2], "dirs: invalid argument %s\n", arg)
			return 1
		}
	}

	for i := len(s.dirStack) - 1; i >= 0; i-- {
		if numbered {
			fmt.Fprintf(s.files[1], "%d %s\n", len(s.dirStack)-1-i, s.dirStack[i])
		} else {
			fmt.Fprintf(s.files[1], "%s ", s.dirStack[i])
		}
	}
	if !numbered {
		fmt.Fprintln(s.files[1])
	}
	return 0
}

func builtinPwd(s *Session, argv []string) int {
	fmt.Fprintln(s.files[1], s.cwd)
	return 0
}
