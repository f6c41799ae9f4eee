package shell

import (
	"fmt"
	"io"
	"os"

	"src.mar.sh/pkg/eval"
	"src.mar.sh/pkg/sys"
)

// InteractConfig keeps configuration for the interactive mode.
type InteractConfig struct {
	Session *eval.Session
}

// Interact runs an interactive shell session: the read-eval loop plus the
// history file.
func Interact(fds [3]*os.File, cfg *InteractConfig) {
	s := cfg.Session

	if sys.IsATTY(fds[0]) {
		sys.Tcsetpgrp(int(fds[0].Fd()), sys.Getpgrp())
	}

	histPath := HistoryPath(s)
	s.History = LoadHistory(histPath)
	defer func() { SaveHistory(histPath, s.History) }()

	ed := newMinEditor(fds[0], fds[2])

	for {
		// Report exited background jobs and restore the terminal before
		// showing the prompt.
		s.Reap()
		s.RestoreStdin()

		line, err := ed.ReadCode(Prompt(s))
		if err == io.EOF {
			break
		} else if err != nil {
			fmt.Fprintln(fds[2], "marsh: editor error:", err)
			break
		}

		s.RunCommand(line)
		if line != "" {
			s.History = append(s.History, line)
		}

		if s.WantExit != nil {
			break
		}
	}
}
