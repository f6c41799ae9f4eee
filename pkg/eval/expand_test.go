package eval

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.mar.sh/pkg/testutil"
)

func TestExpandTilde(t *testing.T) {
	testutil.Setenv(t, "HOME", "/home/u")
	ts := newTestSession(t)

	cases := []struct{ in, want string }{
		{"~", "/home/u"},
		{"~/src", "/home/u/src"},
		{"~no-such-user-acbd", "~no-such-user-acbd"},
		{"~no-such-user-acbd/x", "~no-such-user-acbd/x"},
		{"plain", "plain"},
	}
	for _, c := range cases {
		if got := ts.ExpandTilde(c.in); got != c.want {
			t.Errorf("ExpandTilde(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExpandAliases_SplicesBody(t *testing.T) {
	ts := newTestSession(t)
	ts.SetAlias("ll", "ls -l")

	cmd := NewCommand()
	cmd.Argv = []string{"ll", "/"}
	expanded := ts.ExpandAliases([]*Command{cmd})

	if len(expanded) != 1 {
		t.Fatalf("%d commands, want 1", len(expanded))
	}
	if d := cmp.Diff([]string{"ls", "-l", "/"}, expanded[0].Argv); d != "" {
		t.Errorf("expanded argv: %s", d)
	}
}

func TestExpandAliases_ChainsButTerminates(t *testing.T) {
	ts := newTestSession(t)
	ts.SetAlias("a", "b one")
	ts.SetAlias("b", "c two")

	cmd := NewCommand()
	cmd.Argv = []string{"a", "z"}
	expanded := ts.ExpandAliases([]*Command{cmd})

	if len(expanded) != 1 {
		t.Fatalf("%d commands, want 1", len(expanded))
	}
	if d := cmp.Diff([]string{"c", "two", "one", "z"}, expanded[0].Argv); d != "" {
		t.Errorf("expanded argv: %s", d)
	}
}

// A self-referential alias is not re-expanded.
func TestExpandAliases_SelfReferenceTerminates(t *testing.T) {
	ts := newTestSession(t)
	ts.SetAlias("x", "x -v")

	cmd := NewCommand()
	cmd.Argv = []string{"x"}
	expanded := ts.ExpandAliases([]*Command{cmd})

	if len(expanded) != 1 {
		t.Fatalf("%d commands, want 1", len(expanded))
	}
	if d := cmp.Diff([]string{"x", "-v"}, expanded[0].Argv); d != "" {
		t.Errorf("expanded argv: %s", d)
	}
}

func TestExpandAliases_NoAlias(t *testing.T) {
	ts := newTestSession(t)
	cmd := NewCommand()
	cmd.Argv = []string{"ls"}
	expanded := ts.ExpandAliases([]*Command{cmd})
	if len(expanded) != 1 || expanded[0] != cmd {
		t.Errorf("command without alias was rewritten")
	}
}

func TestExpandAliases_KeepsRedirections(t *testing.T) {
	ts := newTestSession(t)
	ts.SetAlias("w", "tee")

	cmd := NewCommand()
	cmd.Argv = []string{"w", "out"}
	cmd.Redirections = []Redirection{&CloseRedirection{Fd: 2}}
	expanded := ts.ExpandAliases([]*Command{cmd})

	if len(expanded) != 1 {
		t.Fatalf("%d commands, want 1", len(expanded))
	}
	if d := cmp.Diff([]string{"tee", "out"}, expanded[0].Argv); d != "" {
		t.Errorf("expanded argv: %s", d)
	}
	if len(expanded[0].Redirections) != 1 {
		t.Errorf("%d redirections, want 1", len(expanded[0].Redirections))
	}
}
