package eval

import (
	"os"
	"strings"
	"testing"

	"src.mar.sh/pkg/must"
	"src.mar.sh/pkg/testutil"
)

func TestBuiltinNames(t *testing.T) {
	for _, name := range []string{
		"cd", "cdh", "pushd", "popd", "dirs", "exit", "export", "unset",
		"alias", "unalias", "history", "jobs", "fg", "bg", "disown", "kill",
		"setopt", "time", "umask", "source", "pwd", "wait",
	} {
		if !HasBuiltin(name) {
			t.Errorf("builtin %s missing", name)
		}
	}
}

func TestBuiltinCd(t *testing.T) {
	ts := newTestSession(t)
	must.MkdirAll("subdir")

	if code := ts.run(t, "cd subdir"); code != 0 {
		t.Fatalf("cd -> %d", code)
	}
	if !strings.HasSuffix(ts.Cwd(), "/subdir") {
		t.Errorf("cwd = %q after cd subdir", ts.Cwd())
	}
	if os.Getenv("PWD") != ts.Cwd() {
		t.Errorf("$PWD = %q, want %q", os.Getenv("PWD"), ts.Cwd())
	}

	// cd - goes back.
	if code := ts.run(t, "cd -"); code != 0 {
		t.Fatalf("cd - -> %d", code)
	}
	if strings.HasSuffix(ts.Cwd(), "/subdir") {
		t.Errorf("cwd = %q after cd -", ts.Cwd())
	}
}

func TestBuiltinCd_Missing(t *testing.T) {
	ts := newTestSession(t)
	if code := ts.run(t, "cd no-such-dir"); code != 1 {
		t.Errorf("cd no-such-dir -> %d, want 1", code)
	}
}

func TestBuiltinPushdPopd(t *testing.T) {
	ts := newTestSession(t)
	must.MkdirAll("one", "two")
	start := ts.Cwd()

	ts.run(t, "pushd one")
	if !strings.HasSuffix(ts.Cwd(), "/one") {
		t.Fatalf("cwd = %q after pushd one", ts.Cwd())
	}
	ts.run(t, "popd")
	if ts.Cwd() != start {
		t.Errorf("cwd = %q after popd, want %q", ts.Cwd(), start)
	}
}

func TestBuiltinAliasUnalias(t *testing.T) {
	ts := newTestSession(t)
	ts.run(t, "alias ll='ls -l'")
	if body := ts.ResolveAlias("ll"); body != "ls -l" {
		t.Errorf("alias body = %q, want %q", body, "ls -l")
	}
	ts.run(t, "unalias ll")
	if body := ts.ResolveAlias("ll"); body != "" {
		t.Errorf("alias still defined after unalias: %q", body)
	}
	if code := ts.run(t, "unalias no-such-alias"); code != 1 {
		t.Errorf("unalias no-such-alias -> %d, want 1", code)
	}
}

func TestBuiltinExportUnset(t *testing.T) {
	testutil.SaveEnv(t, "MARSH_TEST_EXPORT")
	ts := newTestSession(t)

	ts.run(t, "export MARSH_TEST_EXPORT=hello")
	if got := os.Getenv("MARSH_TEST_EXPORT"); got != "hello" {
		t.Errorf("$MARSH_TEST_EXPORT = %q, want hello", got)
	}

	ts.run(t, "unset MARSH_TEST_EXPORT")
	if _, ok := os.LookupEnv("MARSH_TEST_EXPORT"); ok {
		t.Errorf("$MARSH_TEST_EXPORT still set after unset")
	}
}

func TestBuiltinExport_PromotesLocal(t *testing.T) {
	testutil.SaveEnv(t, "MARSH_TEST_LOCAL")
	ts := newTestSession(t)
	ts.run(t, "MARSH_TEST_LOCAL=inner ; export MARSH_TEST_LOCAL")
	if got := os.Getenv("MARSH_TEST_LOCAL"); got != "inner" {
		t.Errorf("$MARSH_TEST_LOCAL = %q, want inner", got)
	}
}

func TestBuiltinUnset_PrefersLocal(t *testing.T) {
	testutil.Setenv(t, "MARSH_TEST_BOTH", "env")
	ts := newTestSession(t)
	ts.SetLocalVariable("MARSH_TEST_BOTH", &StringValue{Text: "local"})

	ts.run(t, "unset MARSH_TEST_BOTH")
	if ts.LookupLocalVariable("MARSH_TEST_BOTH") != nil {
		t.Errorf("local variable survived unset")
	}
	if os.Getenv("MARSH_TEST_BOTH") != "env" {
		t.Errorf("environment variable removed before the local one")
	}
}

func TestBuiltinSetopt(t *testing.T) {
	ts := newTestSession(t)
	ts.run(t, "setopt verbose")
	if !ts.Options.Verbose {
		t.Errorf("verbose not enabled")
	}
	ts.run(t, "setopt no_verbose")
	if ts.Options.Verbose {
		t.Errorf("verbose not disabled")
	}
	ts.run(t, "setopt --inline_exec_keep_empty_segments")
	if !ts.Options.InlineExecKeepEmptySegments {
		t.Errorf("inline_exec_keep_empty_segments not enabled")
	}
	if code := ts.run(t, "setopt no_such_option"); code != 1 {
		t.Errorf("setopt no_such_option -> %d, want 1", code)
	}
}

func TestBuiltinExit(t *testing.T) {
	ts := newTestSession(t)
	ts.run(t, "exit 3")
	if ts.WantExit == nil || *ts.WantExit != 3 {
		t.Errorf("WantExit = %v, want 3", ts.WantExit)
	}
}

func TestBuiltinPwd(t *testing.T) {
	ts := newTestSession(t)
	ts.run(t, "pwd")
	checkOutput(t, ts.stdout(), ts.Cwd()+"\n")
}

func TestBuiltinSource(t *testing.T) {
	ts := newTestSession(t)
	must.WriteFile("script", "echo sourced\n")
	if code := ts.run(t, "source script"); code != 0 {
		t.Errorf("source -> %d", code)
	}
	checkOutput(t, ts.stdout(), "sourced\n")
}

func TestBuiltinHistory(t *testing.T) {
	ts := newTestSession(t)
	ts.History = []string{"first", "second"}
	ts.run(t, "history")
	out := ts.stdout()
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Errorf("history output = %q", out)
	}
}

func TestBuiltinDoesNotFork(t *testing.T) {
	ts := newTestSession(t)
	ts.run(t, "pwd")
	if len(ts.jobs) != 0 {
		t.Errorf("builtin created a job")
	}
}

func TestBuiltinCdh(t *testing.T) {
	ts := newTestSession(t)
	must.MkdirAll("a", "b")
	ts.run(t, "cd a", "cd ..", "cd b")
	ts.run(t, "cdh")
	if out := ts.stdout(); !strings.Contains(out, "1:") {
		t.Errorf("cdh output = %q, want numbered entries", out)
	}
}
