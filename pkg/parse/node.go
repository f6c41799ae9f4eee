package parse

import "src.mar.sh/pkg/diag"

// Node is implemented by all AST node types.
type Node interface {
	diag.Ranger
	// SyntaxErrorNode returns the deepest syntax error node within the
	// subtree, or nil if the subtree parsed cleanly. A tree carrying a
	// syntax error is still fully traversable, so that highlighting and
	// completion keep working on partially broken input.
	SyntaxErrorNode() *SyntaxError
}

// node is the embedded base of all AST node types.
type node struct {
	diag.Ranging
	errNode *SyntaxError
}

func (n *node) SyntaxErrorNode() *SyntaxError { return n.errNode }

// adopt records the first syntax error found among the children, making the
// parent node a syntax error too. Nil children are allowed and skipped.
func (n *node) adopt(children ...Node) {
	for _, ch := range children {
		if ch == nil {
			continue
		}
		if e := ch.SyntaxErrorNode(); e != nil && n.errNode == nil {
			n.errNode = e
		}
	}
}

// IsSyntaxError reports whether the subtree rooted at n contains a syntax
// error.
func IsSyntaxError(n Node) bool {
	return n != nil && n.SyntaxErrorNode() != nil
}
