package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"src.mar.sh/pkg/eval"
	"src.mar.sh/pkg/must"
	"src.mar.sh/pkg/testutil"
)

func newSession(t *testing.T) *eval.Session {
	t.Helper()
	devNull := must.OK1(os.Open(os.DevNull))
	t.Cleanup(func() { devNull.Close() })
	return eval.NewSession([3]*os.File{devNull, devNull, devNull})
}

func TestPrompt_Escapes(t *testing.T) {
	testutil.InTempDir(t)
	testutil.Setenv(t, "PROMPT", `\u@\h:\w\p `)
	s := newSession(t)

	got := Prompt(s)
	want := s.Username() + "@" + s.Hostname() + ":" + s.Cwd() + "$ "
	if s.Uid() == 0 {
		want = s.Username() + "@" + s.Hostname() + ":" + s.Cwd() + "# "
	}
	if got != want {
		t.Errorf("Prompt = %q, want %q", got, want)
	}
}

func TestPrompt_HomeFolding(t *testing.T) {
	dir := testutil.InTempDir(t)
	testutil.Setenv(t, "HOME", dir)
	testutil.Setenv(t, "PROMPT", `\w`)
	s := newSession(t)

	if got := Prompt(s); got != "~" {
		t.Errorf("Prompt = %q, want ~", got)
	}
}

func TestPrompt_ControlEscapes(t *testing.T) {
	testutil.InTempDir(t)
	testutil.Setenv(t, "PROMPT", `\X\a\e`)
	s := newSession(t)

	if got := Prompt(s); got != "\033]0;\x07\x1b" {
		t.Errorf("Prompt = %q", got)
	}
}

func TestPrompt_Default(t *testing.T) {
	testutil.InTempDir(t)
	testutil.Unsetenv(t, "PROMPT")
	s := newSession(t)

	got := Prompt(s)
	if s.Uid() == 0 {
		if got != "# " {
			t.Errorf("root prompt = %q, want # ", got)
		}
	} else if !strings.Contains(got, s.Username()) || !strings.Contains(got, "\033]0;") {
		t.Errorf("default prompt = %q", got)
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	dir := testutil.InTempDir(t)
	path := filepath.Join(dir, ".history")

	history := []string{"echo one", "echo two"}
	if err := SaveHistory(path, history); err != nil {
		t.Fatalf("SaveHistory -> %v", err)
	}

	info := must.OK1(os.Stat(path))
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("history file mode = %o, want 0600", perm)
	}

	loaded := LoadHistory(path)
	if len(loaded) != 2 || loaded[0] != "echo one" || loaded[1] != "echo two" {
		t.Errorf("LoadHistory = %v, want %v", loaded, history)
	}
}

func TestLoadHistory_Missing(t *testing.T) {
	dir := testutil.InTempDir(t)
	if got := LoadHistory(filepath.Join(dir, "no-such-file")); got != nil {
		t.Errorf("LoadHistory on a missing file = %v, want nil", got)
	}
}

func TestHistoryPath(t *testing.T) {
	testutil.Setenv(t, "HOME", "/home/u")
	testutil.InTempDir(t)
	s := newSession(t)
	if got := HistoryPath(s); got != "/home/u/.history" {
		t.Errorf("HistoryPath = %q, want /home/u/.history", got)
	}
}

func TestApplyRC(t *testing.T) {
	testutil.InTempDir(t)
	s := newSession(t)

	must.WriteFile("rc.yaml", "options:\n  verbose: true\naliases:\n  ll: ls -l\n")
	applyRC(s, "rc.yaml")

	if !s.Options.Verbose {
		t.Errorf("rc file did not enable verbose")
	}
	if body := s.ResolveAlias("ll"); body != "ls -l" {
		t.Errorf("rc alias body = %q, want 'ls -l'", body)
	}
}

func TestApplyRC_MissingFileIsFine(t *testing.T) {
	testutil.InTempDir(t)
	s := newSession(t)
	applyRC(s, "no-such-rc.yaml")
}

func TestScript_Cmd(t *testing.T) {
	testutil.InTempDir(t)
	devNull := must.OK1(os.Open(os.DevNull))
	defer devNull.Close()
	out := must.OK1(os.Create("out"))
	defer out.Close()
	fds := [3]*os.File{devNull, out, out}

	s := eval.NewSession(fds)
	exit := Script(fds, s, []string{"echo scripted"}, &ScriptConfig{Cmd: true})
	if exit != 0 {
		t.Errorf("Script -> %d, want 0", exit)
	}
	if content := must.ReadFileString("out"); content != "scripted\n" {
		t.Errorf("output = %q, want scripted", content)
	}
}

func TestScript_File(t *testing.T) {
	testutil.InTempDir(t)
	must.WriteFile("script.msh", "exit 7\n")
	devNull := must.OK1(os.Open(os.DevNull))
	defer devNull.Close()
	fds := [3]*os.File{devNull, devNull, devNull}

	s := eval.NewSession(fds)
	exit := Script(fds, s, []string{"script.msh"}, &ScriptConfig{})
	if exit != 7 {
		t.Errorf("Script -> %d, want 7", exit)
	}
}

func TestScript_MissingFile(t *testing.T) {
	testutil.InTempDir(t)
	devNull := must.OK1(os.Open(os.DevNull))
	defer devNull.Close()
	fds := [3]*os.File{devNull, devNull, devNull}

	s := eval.NewSession(fds)
	exit := Script(fds, s, []string{"no-such-script"}, &ScriptConfig{})
	if exit != 2 {
		t.Errorf("Script -> %d, want 2", exit)
	}
}
