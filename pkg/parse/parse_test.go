package parse

import (
	"testing"
)

// mustParse parses source that is expected to be error-free.
func mustParse(t *testing.T, code string) Node {
	t.Helper()
	tree, err := Parse(Source{Name: "test", Code: code})
	if err != nil {
		t.Fatalf("Parse(%q) -> error %v", code, err)
	}
	if tree.Root == nil {
		t.Fatalf("Parse(%q) -> nil root", code)
	}
	return tree.Root
}

func TestParse_EmptySource(t *testing.T) {
	tree, err := Parse(Source{Name: "test", Code: ""})
	if err != nil {
		t.Errorf("Parse(\"\") -> error %v", err)
	}
	if tree.Root != nil {
		t.Errorf("Parse(\"\") -> non-nil root")
	}
}

func TestParse_SimpleCommand(t *testing.T) {
	root := mustParse(t, "echo hello world")
	ex, ok := root.(*Execute)
	if !ok {
		t.Fatalf("root is %T, want *Execute", root)
	}
	cast, ok := ex.Command.(*CastToCommand)
	if !ok {
		t.Fatalf("command is %T, want *CastToCommand", ex.Command)
	}
	lc, ok := cast.Inner.(*ListConcatenate)
	if !ok {
		t.Fatalf("inner is %T, want *ListConcatenate", cast.Inner)
	}
	bw, ok := lc.Element.(*Bareword)
	if !ok || bw.Text != "echo" {
		t.Fatalf("first word is %T (%v), want Bareword echo", lc.Element, lc.Element)
	}
	if bw.Range().From != 0 || bw.Range().To != 4 {
		t.Errorf("echo has range %v, want 0-4", bw.Range())
	}
}

func TestParse_Pipe(t *testing.T) {
	root := mustParse(t, "echo a | tr a-z A-Z")
	ex := root.(*Execute)
	if _, ok := ex.Command.(*Pipe); !ok {
		t.Fatalf("command is %T, want *Pipe", ex.Command)
	}
}

func TestParse_AndOrSequenceBackground(t *testing.T) {
	root := mustParse(t, "false && echo nope ; echo yes")
	seq, ok := root.(*Execute).Command.(*Sequence)
	if !ok {
		t.Fatalf("command is %T, want *Sequence", root.(*Execute).Command)
	}
	and, ok := seq.Left.(*And)
	if !ok {
		t.Fatalf("left is %T, want *And", seq.Left)
	}
	if _, ok := and.Left.(*Execute); !ok {
		t.Errorf("And.Left is %T, want *Execute", and.Left)
	}

	root = mustParse(t, "false || true")
	if _, ok := root.(*Execute).Command.(*Or); !ok {
		t.Errorf("command is %T, want *Or", root.(*Execute).Command)
	}

	root = mustParse(t, "sleep 10 &")
	if _, ok := root.(*Execute).Command.(*Background); !ok {
		t.Errorf("command is %T, want *Background", root.(*Execute).Command)
	}
}

func TestParse_Redirections(t *testing.T) {
	root := mustParse(t, "echo foo > /tmp/x")
	join, ok := root.(*Execute).Command.(*Join)
	if !ok {
		t.Fatalf("command is %T, want *Join", root.(*Execute).Command)
	}
	redir, ok := join.Right.(*Redirection)
	if !ok {
		t.Fatalf("right is %T, want *Redirection", join.Right)
	}
	if redir.Mode != Write || redir.Fd != 1 {
		t.Errorf("redirection is mode=%v fd=%v, want Write fd 1", redir.Mode, redir.Fd)
	}

	cases := []struct {
		code string
		mode RedirMode
		fd   int
	}{
		{"cat < in", Read, 0},
		{"log >> all", WriteAppend, 1},
		{"prog <> io", ReadWrite, 0},
		{"prog 2> err", Write, 2},
	}
	for _, c := range cases {
		root := mustParse(t, c.code)
		join := root.(*Execute).Command.(*Join)
		redir := join.Right.(*Redirection)
		if redir.Mode != c.mode || redir.Fd != c.fd {
			t.Errorf("%q -> mode=%v fd=%v, want mode=%v fd=%v",
				c.code, redir.Mode, redir.Fd, c.mode, c.fd)
		}
	}
}

func TestParse_FdRedirections(t *testing.T) {
	root := mustParse(t, "prog 2>&1")
	join := root.(*Execute).Command.(*Join)
	fd2fd, ok := join.Right.(*Fd2FdRedirection)
	if !ok {
		t.Fatalf("right is %T, want *Fd2FdRedirection", join.Right)
	}
	if fd2fd.SourceFd != 2 || fd2fd.DestFd != 1 {
		t.Errorf("got %d>&%d, want 2>&1", fd2fd.SourceFd, fd2fd.DestFd)
	}

	root = mustParse(t, "prog 2>&-")
	join = root.(*Execute).Command.(*Join)
	closeFd, ok := join.Right.(*CloseFdRedirection)
	if !ok {
		t.Fatalf("right is %T, want *CloseFdRedirection", join.Right)
	}
	if closeFd.Fd != 2 {
		t.Errorf("close fd %d, want 2", closeFd.Fd)
	}
}

func TestParse_VariableDeclarations(t *testing.T) {
	root := mustParse(t, "X=1 Y=$X")
	decls, ok := root.(*Execute).Command.(*VariableDeclarations)
	if !ok {
		t.Fatalf("command is %T, want *VariableDeclarations", root.(*Execute).Command)
	}
	if len(decls.Declarations) != 2 {
		t.Fatalf("%d declarations, want 2", len(decls.Declarations))
	}
	if name := decls.Declarations[0].Name.(*Bareword).Text; name != "X" {
		t.Errorf("first name %q, want X", name)
	}
	if _, ok := decls.Declarations[1].Value.(*SimpleVariable); !ok {
		t.Errorf("second value is %T, want *SimpleVariable",
			decls.Declarations[1].Value)
	}
}

func TestParse_Words(t *testing.T) {
	root := mustParse(t, `echo "a $b" 'lit' ~u/x g*b $? $(pwd)`)
	// The shape is checked piecemeal; what matters is the atom kinds.
	var kinds []string
	var walk func(n Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case *ListConcatenate:
			walk(n.Element)
			walk(n.List)
		case *Juxtaposition:
			walk(n.Left)
			walk(n.Right)
		case *Execute:
			if n.Capture {
				kinds = append(kinds, "capture")
				return
			}
			walk(n.Command)
		case *CastToCommand:
			walk(n.Inner)
		case *Bareword:
			kinds = append(kinds, "bareword")
		case *DoubleQuotedString:
			kinds = append(kinds, "dquoted")
		case *StringLiteral:
			kinds = append(kinds, "squoted")
		case *Tilde:
			kinds = append(kinds, "tilde")
		case *Glob:
			kinds = append(kinds, "glob")
		case *SpecialVariable:
			kinds = append(kinds, "special")
		}
	}
	walk(root)
	want := []string{"bareword", "dquoted", "squoted", "tilde", "bareword",
		"glob", "special", "capture"}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %s, want %s (%v)", i, kinds[i], want[i], kinds)
		}
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	for _, code := range []string{"echo 'unterminated", `echo "unterminated`, "echo $(pwd"} {
		tree, err := Parse(Source{Name: "test", Code: code})
		if err == nil {
			t.Errorf("Parse(%q) -> no error", code)
		}
		if tree.Root == nil {
			t.Errorf("Parse(%q) -> nil root, want traversable tree", code)
			continue
		}
		if !IsSyntaxError(tree.Root) {
			t.Errorf("Parse(%q) -> root not marked as syntax error", code)
		}
		if tree.Root.SyntaxErrorNode() == nil {
			t.Errorf("Parse(%q) -> no error node", code)
		}
	}
}

func TestParse_CommentOnly(t *testing.T) {
	root := mustParse(t, "# just a comment")
	if _, ok := root.(*Execute).Command.(*Comment); !ok {
		t.Errorf("command is %T, want *Comment", root.(*Execute).Command)
	}
}
