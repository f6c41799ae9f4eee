// Package edit routes line-editor callbacks into the AST: syntax
// highlighting and completion both work by hit-testing the parsed tree.
// The editor itself is an external collaborator, represented by the Editor
// interface; the AST never reaches outside its arguments.
package edit

import (
	"src.mar.sh/pkg/diag"
	"src.mar.sh/pkg/ui"
)

// Editor is the surface the line editor exposes to highlighting and
// completion.
type Editor interface {
	// Stylize tags a byte span of the current line with a style.
	Stylize(r diag.Ranging, style ui.Style)
	// Suggest tells the editor how the upcoming suggestions line up with the
	// token before the cursor: invariant is the length of the typed part
	// each suggestion replaces, static the length of the text before it
	// that stays in place.
	Suggest(invariant, static int)
}

// Suggestion is one completion candidate. Trailing is "/" for directories
// and " " for anything the cursor should move past.
type Suggestion struct {
	Text     string
	Trailing string
}

// NullEditor is an Editor that ignores everything. It backs contexts
// without a live editor, like the language server.
type NullEditor struct{}

func (NullEditor) Stylize(diag.Ranging, ui.Style) {}
func (NullEditor) Suggest(int, int)               {}
