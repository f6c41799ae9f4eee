package edit

import (
	"os"
	"testing"

	"src.mar.sh/pkg/diag"
	"src.mar.sh/pkg/eval"
	"src.mar.sh/pkg/must"
	"src.mar.sh/pkg/parse"
	"src.mar.sh/pkg/testutil"
	"src.mar.sh/pkg/ui"
)

// fakeEditor records the styling and suggestion calls.
type fakeEditor struct {
	styles   []styledSpan
	suggests [][2]int
}

type styledSpan struct {
	r     diag.Ranging
	style ui.Style
}

func (ed *fakeEditor) Stylize(r diag.Ranging, style ui.Style) {
	ed.styles = append(ed.styles, styledSpan{r, style})
}

func (ed *fakeEditor) Suggest(invariant, static int) {
	ed.suggests = append(ed.suggests, [2]int{invariant, static})
}

func (ed *fakeEditor) styleAt(from, to int) (ui.Style, bool) {
	for _, span := range ed.styles {
		if span.r.From == from && span.r.To == to {
			return span.style, true
		}
	}
	return ui.Style{}, false
}

func parseLine(t *testing.T, code string) parse.Node {
	t.Helper()
	tree, _ := parse.Parse(parse.Source{Name: "test", Code: code})
	if tree.Root == nil {
		t.Fatalf("no tree for %q", code)
	}
	return tree.Root
}

func newSession(t *testing.T) *eval.Session {
	t.Helper()
	devNull := must.OK1(os.Open(os.DevNull))
	t.Cleanup(func() { devNull.Close() })
	return eval.NewSession([3]*os.File{devNull, devNull, devNull})
}

func TestHighlight_FirstWordIsBold(t *testing.T) {
	testutil.InTempDir(t)
	s := newSession(t)
	ed := &fakeEditor{}

	Highlight(ed, s, parseLine(t, "grep -r --color=auto pat"))

	style, ok := ed.styleAt(0, 4)
	if !ok || !style.Bold {
		t.Errorf("first word not bold: %v ok=%v", style, ok)
	}
	// -r is a short option.
	style, ok = ed.styleAt(5, 7)
	if !ok || style.Foreground != ui.Cyan {
		t.Errorf("-r not cyan: %v ok=%v", style, ok)
	}
}

func TestHighlight_StringsAndVariablesAndComments(t *testing.T) {
	testutil.InTempDir(t)
	s := newSession(t)
	ed := &fakeEditor{}

	code := `echo "hi" $HOME # note`
	Highlight(ed, s, parseLine(t, code))

	if style, ok := ed.styleAt(5, 9); !ok || style.Foreground != ui.Yellow {
		t.Errorf("double-quoted string not yellow (%v, ok=%v)", style, ok)
	}
	if style, ok := ed.styleAt(10, 15); !ok || style.Foreground == nil {
		t.Errorf("variable not styled (%v, ok=%v)", style, ok)
	}
	if style, ok := ed.styleAt(16, 22); !ok || style.Foreground != commentGray {
		t.Errorf("comment not gray (%v, ok=%v)", style, ok)
	}
}

func TestHighlight_ExistingPathGetsHyperlink(t *testing.T) {
	testutil.InTempDir(t)
	testutil.ApplyDir(testutil.Dir{"afile": ""})
	s := newSession(t)
	ed := &fakeEditor{}

	Highlight(ed, s, parseLine(t, "cat afile"))

	found := false
	for _, span := range ed.styles {
		if span.style.Hyperlink != "" {
			found = true
		}
	}
	if !found {
		t.Errorf("no hyperlink applied to an existing path")
	}
}

func TestHighlight_SyntaxErrorIsRedBold(t *testing.T) {
	testutil.InTempDir(t)
	s := newSession(t)
	ed := &fakeEditor{}

	Highlight(ed, s, parseLine(t, "echo 'oops"))

	found := false
	for _, span := range ed.styles {
		if span.style.Foreground == ui.Red && span.style.Bold {
			found = true
		}
	}
	if !found {
		t.Errorf("syntax error span not highlighted")
	}
}

func TestComplete_ProgramName(t *testing.T) {
	testutil.InTempDir(t)
	s := newSession(t)
	ed := &fakeEditor{}

	// "al" completes to the alias builtin at least.
	line := "al"
	suggestions := Complete(ed, s, parseLine(t, line), len(line))

	found := false
	for _, suggestion := range suggestions {
		if suggestion.Text == "alias" {
			found = true
		}
		if suggestion.Trailing != " " {
			t.Errorf("program suggestion %q has trailing %q, want space",
				suggestion.Text, suggestion.Trailing)
		}
	}
	if !found {
		t.Errorf("suggestions %v do not include the alias builtin", suggestions)
	}
}

func TestComplete_Path(t *testing.T) {
	testutil.InTempDir(t)
	testutil.ApplyDir(testutil.Dir{
		"notes.txt": "",
		"notesdir":  testutil.Dir{},
	})
	s := newSession(t)
	ed := &fakeEditor{}

	line := "cat note"
	suggestions := Complete(ed, s, parseLine(t, line), len(line))

	var texts []string
	trailingByText := map[string]string{}
	for _, suggestion := range suggestions {
		texts = append(texts, suggestion.Text)
		trailingByText[suggestion.Text] = suggestion.Trailing
	}
	if len(texts) != 2 {
		t.Fatalf("suggestions = %v, want notes.txt and notesdir", texts)
	}
	if trailingByText["notesdir"] != "/" {
		t.Errorf("directory suggestion has trailing %q, want /",
			trailingByText["notesdir"])
	}
	if trailingByText["notes.txt"] != " " {
		t.Errorf("file suggestion has trailing %q, want space",
			trailingByText["notes.txt"])
	}
}

func TestComplete_Variable(t *testing.T) {
	testutil.InTempDir(t)
	s := newSession(t)
	s.SetLocalVariable("myvar", &eval.StringValue{Text: "x"})
	ed := &fakeEditor{}

	line := "echo $my"
	suggestions := Complete(ed, s, parseLine(t, line), len(line))

	found := false
	for _, suggestion := range suggestions {
		if suggestion.Text == "myvar" {
			found = true
		}
	}
	if !found {
		t.Errorf("suggestions %v do not include myvar", suggestions)
	}
}

func TestComplete_SetoptOptions(t *testing.T) {
	testutil.InTempDir(t)
	s := newSession(t)
	ed := &fakeEditor{}

	line := "setopt --ver"
	suggestions := Complete(ed, s, parseLine(t, line), len(line))

	found := false
	for _, suggestion := range suggestions {
		if suggestion.Text == "--verbose" {
			found = true
		}
	}
	if !found {
		t.Errorf("suggestions %v do not include --verbose", suggestions)
	}
}

func TestComplete_RedirectionPath(t *testing.T) {
	testutil.InTempDir(t)
	testutil.ApplyDir(testutil.Dir{"target.txt": ""})
	s := newSession(t)
	ed := &fakeEditor{}

	line := "echo hi > targ"
	suggestions := Complete(ed, s, parseLine(t, line), len(line))

	found := false
	for _, suggestion := range suggestions {
		if suggestion.Text == "target.txt" {
			found = true
		}
	}
	if !found {
		t.Errorf("suggestions %v do not include target.txt", suggestions)
	}
}

func TestComplete_OutsideTree(t *testing.T) {
	testutil.InTempDir(t)
	s := newSession(t)
	if got := Complete(&fakeEditor{}, s, parseLine(t, "echo"), 99); got != nil {
		t.Errorf("completion outside the tree = %v, want nil", got)
	}
}
