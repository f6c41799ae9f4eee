// Package shell is the entry point for the terminal interface of marsh.
package shell

import (
	"os"

	"src.mar.sh/pkg/eval"
	"src.mar.sh/pkg/prog"
	"src.mar.sh/pkg/store"
	"src.mar.sh/pkg/sys"
)

// Program is the shell subprogram.
type Program struct{}

// Run runs the shell: -c mode, script mode, or the interactive loop.
func (p Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if f.CodeInArg && len(args) == 0 {
		return prog.BadUsage("argument required to -c")
	}

	s := eval.NewSession(fds)
	defer s.Close()

	if dbPath, err := DBPath(); err == nil {
		if st, err := store.NewStore(dbPath); err == nil {
			s.SetStore(st)
		}
	}

	if !f.NoRc {
		rcPath := f.RC
		if rcPath == "" {
			rcPath = RCPath(s)
		}
		applyRC(s, rcPath)
	}

	if f.CodeInArg || len(args) > 0 {
		exit := Script(fds, s, args, &ScriptConfig{Cmd: f.CodeInArg})
		return prog.Exit(exit)
	}

	sigCh := sys.NotifySignals()
	s.SetSignals(sigCh)
	Interact(fds, &InteractConfig{Session: s})
	return nil
}
