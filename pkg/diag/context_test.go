package diag

import (
	"strings"
	"testing"
)

func TestContextShow_Window(t *testing.T) {
	source := "echo this-is-a-very-long-word"
	c := NewContext("test", source, Ranging{From: 5, To: len(source)})
	shown := c.Show()
	if !strings.Contains(shown, `"this-is-a-"`) {
		t.Errorf("Show() = %q, want a ten-byte window", shown)
	}
	if !strings.Contains(shown, "line 1") {
		t.Errorf("Show() = %q, want line number", shown)
	}
}

func TestContextShow_ShortCulprit(t *testing.T) {
	c := NewContext("test", "ls |", Ranging{From: 3, To: 4})
	if shown := c.Show(); !strings.Contains(shown, `"|"`) {
		t.Errorf("Show() = %q, want the culprit", shown)
	}
}

func TestRangingContains(t *testing.T) {
	r := Ranging{From: 2, To: 5}
	for _, p := range []int{2, 3, 5} {
		if !r.Contains(p) {
			t.Errorf("Contains(%d) = false, want true", p)
		}
	}
	for _, p := range []int{1, 6} {
		if r.Contains(p) {
			t.Errorf("Contains(%d) = true, want false", p)
		}
	}
}
