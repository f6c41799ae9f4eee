package edit

import (
	"os"
	"path/filepath"
	"strings"

	"src.mar.sh/pkg/diag"
	"src.mar.sh/pkg/eval"
	"src.mar.sh/pkg/parse"
	"src.mar.sh/pkg/ui"
)

// Colors used by the highlighter.
var (
	periwinkle   = ui.RGB(0x87, 0x9b, 0xcd)
	amber        = ui.RGB(0xff, 0x7e, 0x00)
	variablePink = ui.RGB(214, 112, 214)
	commentGray  = ui.RGB(150, 150, 150)
)

// metadata threads highlighting state through the walk.
type metadata struct {
	// isFirstInList is true when the next literal is in command position;
	// those are rendered bold.
	isFirstInList bool
}

// Highlight walks the tree and tags the editor's line with styles.
func Highlight(ed Editor, s *eval.Session, n parse.Node) {
	highlight(ed, s, n, metadata{isFirstInList: true})
}

func highlight(ed Editor, s *eval.Session, n parse.Node, meta metadata) {
	if n == nil {
		return
	}
	switch n := n.(type) {
	case *parse.Bareword:
		highlightBareword(ed, s, n, meta)
	case *parse.StringLiteral:
		style := ui.Style{Foreground: ui.Yellow, Bold: meta.isFirstInList}
		ed.Stylize(n.Range(), style)
	case *parse.Glob:
		style := ui.Style{Foreground: ui.Cyan, Bold: meta.isFirstInList}
		ed.Stylize(n.Range(), style)
	case *parse.Tilde:
		// Tildes are left unstyled.
	case *parse.SimpleVariable:
		style := ui.Style{Foreground: variablePink, Bold: meta.isFirstInList}
		ed.Stylize(n.Range(), style)
	case *parse.SpecialVariable:
		ed.Stylize(n.Range(), ui.Style{Foreground: variablePink})
	case *parse.Comment:
		ed.Stylize(n.Range(), ui.Style{Foreground: commentGray})
	case *parse.SyntaxError:
		ed.Stylize(n.Range(), ui.Style{Foreground: ui.Red, Bold: true})
	case *parse.Juxtaposition:
		highlightJuxtaposition(ed, s, n, meta)
	case *parse.ListConcatenate:
		first := meta.isFirstInList
		meta.isFirstInList = false
		highlight(ed, s, n.List, meta)
		meta.isFirstInList = first
		highlight(ed, s, n.Element, meta)
	case *parse.Join:
		highlight(ed, s, n.Left, meta)
		highlight(ed, s, n.Right, meta)
	case *parse.StringPartCompose:
		highlight(ed, s, n.Left, meta)
		highlight(ed, s, n.Right, meta)
	case *parse.DoubleQuotedString:
		style := ui.Style{Foreground: ui.Yellow, Bold: meta.isFirstInList}
		ed.Stylize(n.Range(), style)
		meta.isFirstInList = false
		highlight(ed, s, n.Inner, meta)
	case *parse.DynamicEvaluate:
		ed.Stylize(n.Range(), ui.Style{Foreground: ui.Yellow})
		highlight(ed, s, n.Inner, meta)
	case *parse.Execute:
		if n.Capture {
			ed.Stylize(n.Range(), ui.Style{Foreground: ui.Green})
		}
		meta.isFirstInList = true
		highlight(ed, s, n.Command, meta)
	case *parse.Sequence:
		highlight(ed, s, n.Left, meta)
		highlight(ed, s, n.Right, meta)
	case *parse.And:
		meta.isFirstInList = true
		highlight(ed, s, n.Left, meta)
		highlight(ed, s, n.Right, meta)
	case *parse.Or:
		highlight(ed, s, n.Left, meta)
		highlight(ed, s, n.Right, meta)
	case *parse.Pipe:
		highlight(ed, s, n.Left, meta)
		highlight(ed, s, n.Right, meta)
	case *parse.Background:
		highlight(ed, s, n.Command, meta)
	case *parse.CastToList:
		highlight(ed, s, n.Inner, meta)
	case *parse.CastToCommand:
		highlight(ed, s, n.Inner, meta)
	case *parse.Redirection:
		highlightPathRedirection(ed, s, n, meta)
	case *parse.CloseFdRedirection:
		r := n.Range()
		ed.Stylize(diag.Ranging{From: r.From, To: r.To - 1},
			ui.Style{Foreground: periwinkle})
		ed.Stylize(diag.Ranging{From: r.To - 1, To: r.To},
			ui.Style{Foreground: amber})
	case *parse.Fd2FdRedirection:
		ed.Stylize(n.Range(), ui.Style{Foreground: periwinkle})
	case *parse.VariableDeclarations:
		meta.isFirstInList = false
		for _, decl := range n.Declarations {
			highlight(ed, s, decl.Name, meta)
			nameTo := decl.Name.Range().To
			ed.Stylize(diag.Ranging{From: nameTo, To: nameTo + 1},
				ui.Style{Foreground: ui.Blue})
			highlight(ed, s, decl.Value, meta)
		}
	}
}

// highlightPathRedirection highlights the operator part of a path
// redirection (e.g. the "2>" in "2> out") in periwinkle, then highlights
// the path operand like any other node so it gets hyperlinked if it
// resolves to an existing file.
func highlightPathRedirection(ed Editor, s *eval.Session, n *parse.Redirection, meta metadata) {
	opTo := n.Range().To
	if n.Path != nil {
		opTo = n.Path.Range().From
	}
	ed.Stylize(diag.Ranging{From: n.Range().From, To: opTo},
		ui.Style{Foreground: periwinkle})
	meta.isFirstInList = false
	highlight(ed, s, n.Path, meta)
}

func highlightBareword(ed Editor, s *eval.Session, n *parse.Bareword, meta metadata) {
	if meta.isFirstInList {
		ed.Stylize(n.Range(), ui.Style{Bold: true})
		return
	}
	if strings.HasPrefix(n.Text, "-") {
		switch {
		case n.Text == "--":
			ed.Stylize(n.Range(), ui.Style{Foreground: ui.Green})
			return
		case n.Text == "-":
			return
		case strings.HasPrefix(n.Text, "--"):
			// Only the part up to and including a '=' is the option name.
			length := len(n.Text)
			if i := strings.IndexByte(n.Text, '='); i >= 0 {
				length = i + 1
			}
			ed.Stylize(diag.Ranging{
				From: n.Range().From, To: n.Range().From + length,
			}, ui.Style{Foreground: ui.Cyan})
		default:
			ed.Stylize(n.Range(), ui.Style{Foreground: ui.Cyan})
		}
	}
	if _, err := os.Stat(n.Text); err == nil {
		ed.Stylize(n.Range(), ui.Style{
			Hyperlink: ui.FileURL(s.Hostname(), resolvePath(s, n.Text))})
	}
}

// highlightJuxtaposition highlights ~/path as one hyperlinked span when the
// path exists; tilde resolution is pure, so it can run at highlight time.
func highlightJuxtaposition(ed Editor, s *eval.Session, n *parse.Juxtaposition, meta metadata) {
	highlight(ed, s, n.Left, meta)

	tilde, leftIsTilde := n.Left.(*parse.Tilde)
	bare, rightIsBareword := n.Right.(*parse.Bareword)
	if leftIsTilde && rightIsBareword {
		path := s.ExpandTilde(tilde.Text()) + bare.Text
		if _, err := os.Stat(path); err == nil {
			ed.Stylize(n.Range(), ui.Style{
				Hyperlink: ui.FileURL(s.Hostname(), resolvePath(s, path))})
		}
		return
	}
	highlight(ed, s, n.Right, meta)
}

func resolvePath(s *eval.Session, path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Cwd(), path)
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}
