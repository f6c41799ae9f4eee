//go:build unix

package fsutil

import (
	"os"
	"testing"

	"src.mar.sh/pkg/must"
	"src.mar.sh/pkg/testutil"
)

func TestDontSearch(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"ls", false},
		{"./ls", true},
		{"/bin/ls", true},
		{"..", true},
	}
	for _, c := range cases {
		if got := DontSearch(c.name); got != c.want {
			t.Errorf("DontSearch(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestEachExternal(t *testing.T) {
	dir := testutil.InTempDir(t)
	must.OK(os.WriteFile("runnable", nil, 0755))
	must.OK(os.WriteFile("plain", nil, 0644))
	testutil.Setenv(t, "PATH", dir)

	var names []string
	EachExternal(func(name string) { names = append(names, name) })

	if len(names) != 1 || names[0] != "runnable" {
		t.Errorf("EachExternal found %v, want [runnable]", names)
	}
}
