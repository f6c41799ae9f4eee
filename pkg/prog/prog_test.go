package prog

import (
	"os"
	"testing"

	"src.mar.sh/pkg/must"
	"src.mar.sh/pkg/testutil"
)

type fixedProgram struct {
	ran  bool
	err  error
	args []string
}

func (p *fixedProgram) Run(fds [3]*os.File, f *Flags, args []string) error {
	p.ran = true
	p.args = args
	return p.err
}

func devNullFds(t *testing.T) [3]*os.File {
	t.Helper()
	testutil.InTempDir(t)
	devNull := must.OK1(os.OpenFile(os.DevNull, os.O_RDWR, 0))
	t.Cleanup(func() { devNull.Close() })
	return [3]*os.File{devNull, devNull, devNull}
}

func TestRun_Help(t *testing.T) {
	p := &fixedProgram{}
	exit := Run(devNullFds(t), []string{"marsh", "--help"}, p)
	if exit != 0 {
		t.Errorf("exit = %d, want 0", exit)
	}
	if p.ran {
		t.Errorf("program ran despite --help")
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	exit := Run(devNullFds(t), []string{"marsh", "--no-such-flag"}, &fixedProgram{})
	if exit != 2 {
		t.Errorf("exit = %d, want 2", exit)
	}
}

func TestRun_PassesArgs(t *testing.T) {
	p := &fixedProgram{}
	exit := Run(devNullFds(t), []string{"marsh", "script", "a", "b"}, p)
	if exit != 0 || !p.ran {
		t.Fatalf("exit = %d, ran = %v", exit, p.ran)
	}
	if len(p.args) != 3 || p.args[0] != "script" {
		t.Errorf("args = %v", p.args)
	}
}

func TestRun_ExitError(t *testing.T) {
	p := &fixedProgram{err: Exit(3)}
	if exit := Run(devNullFds(t), []string{"marsh"}, p); exit != 3 {
		t.Errorf("exit = %d, want 3", exit)
	}
}

func TestRun_BadUsage(t *testing.T) {
	p := &fixedProgram{err: BadUsage("argument required to -c")}
	if exit := Run(devNullFds(t), []string{"marsh"}, p); exit != 2 {
		t.Errorf("exit = %d, want 2", exit)
	}
}

func TestComposite(t *testing.T) {
	first := &fixedProgram{err: ErrNotSuitable}
	second := &fixedProgram{}
	exit := Run(devNullFds(t), []string{"marsh"}, Composite(first, second))
	if exit != 0 {
		t.Errorf("exit = %d, want 0", exit)
	}
	if !second.ran {
		t.Errorf("second program did not run")
	}
}

func TestExitZeroIsNil(t *testing.T) {
	if Exit(0) != nil {
		t.Errorf("Exit(0) != nil")
	}
}
