package shell

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"src.mar.sh/pkg/eval"
)

// ScriptConfig keeps configuration for the script mode.
type ScriptConfig struct {
	// Cmd makes the first argument the code to run instead of a file.
	Cmd bool
}

// Script executes a shell script or, with cfg.Cmd, one command. It returns
// the exit code.
func Script(fds [3]*os.File, s *eval.Session, args []string, cfg *ScriptConfig) int {
	arg0 := args[0]

	var code string
	if cfg.Cmd {
		code = arg0
	} else {
		var err error
		code, err = readFileUTF8(arg0)
		if err != nil {
			fmt.Fprintf(fds[2], "marsh: cannot read script %q: %v\n", arg0, err)
			return 2
		}
	}

	ret := s.RunCommand(code)
	if s.WantExit != nil {
		return *s.WantExit
	}
	return ret
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

func readFileUTF8(fname string) (string, error) {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", errSourceNotUTF8
	}
	return string(bytes), nil
}
