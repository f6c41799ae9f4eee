package parse

// HitTestResult is the result of locating the AST node covering a byte
// offset, for cursor-driven features.
type HitTestResult struct {
	// Matching is the deepest node whose position contains the offset.
	Matching Node
	// ClosestSemantic is the closest enclosing node with semantic meaning,
	// e.g. the Juxtaposition around a bareword.
	ClosestSemantic Node
	// ClosestCommand is the closest enclosing node in command position.
	ClosestCommand Node
}

// HitTest locates the node covering the given byte offset in the subtree
// rooted at n. The zero result means no node covers the offset.
func HitTest(n Node, offset int) HitTestResult {
	if n == nil || !n.Range().Contains(offset) {
		return HitTestResult{}
	}
	switch n := n.(type) {
	case *Bareword, *StringLiteral, *Glob, *Comment, *SyntaxError, *StringPartCompose:
		if sp, ok := n.(*StringPartCompose); ok {
			if r := HitTest(sp.Left, offset); r.Matching != nil {
				return r
			}
			return HitTest(sp.Right, offset)
		}
		return HitTestResult{Matching: n}
	case *SimpleVariable:
		return HitTestResult{Matching: n, ClosestSemantic: n}
	case *SpecialVariable:
		return HitTestResult{Matching: n, ClosestSemantic: n}
	case *Tilde:
		return HitTestResult{Matching: n, ClosestSemantic: n}
	case *Juxtaposition:
		r := HitTest(n.Left, offset)
		if r.Matching == nil {
			r = HitTest(n.Right, offset)
		}
		if r.ClosestSemantic == nil {
			r.ClosestSemantic = n
		}
		return r
	case *ListConcatenate:
		r := HitTest(n.Element, offset)
		if r.Matching != nil {
			return r
		}
		r = HitTest(n.List, offset)
		if r.ClosestSemantic == nil {
			r.ClosestSemantic = n
		}
		return r
	case *Join:
		r := HitTest(n.Left, offset)
		if r.Matching != nil {
			return r
		}
		return HitTest(n.Right, offset)
	case *DoubleQuotedString:
		return HitTest(n.Inner, offset)
	case *DynamicEvaluate:
		return HitTest(n.Inner, offset)
	case *Execute:
		r := HitTest(n.Command, offset)
		if r.ClosestSemantic == nil {
			r.ClosestSemantic = n
		}
		if r.ClosestCommand == nil {
			r.ClosestCommand = n.Command
		}
		return r
	case *Sequence:
		r := HitTest(n.Left, offset)
		if r.Matching != nil {
			return r
		}
		return HitTest(n.Right, offset)
	case *And:
		return hitTestBranch(n.Left, n.Right, offset)
	case *Or:
		return hitTestBranch(n.Left, n.Right, offset)
	case *Pipe:
		r := HitTest(n.Left, offset)
		if r.Matching != nil {
			return r
		}
		return HitTest(n.Right, offset)
	case *Background:
		return HitTest(n.Command, offset)
	case *CastToList:
		if n.Inner == nil {
			return HitTestResult{}
		}
		return HitTest(n.Inner, offset)
	case *CastToCommand:
		r := HitTest(n.Inner, offset)
		if r.ClosestSemantic == nil {
			r.ClosestSemantic = n
		}
		return r
	case *Redirection:
		r := HitTest(n.Path, offset)
		if r.ClosestSemantic == nil {
			r.ClosestSemantic = n
		}
		return r
	case *CloseFdRedirection:
		return HitTestResult{Matching: n}
	case *Fd2FdRedirection:
		return HitTestResult{Matching: n}
	case *VariableDeclarations:
		for _, decl := range n.Declarations {
			if r := HitTest(decl.Value, offset); r.Matching != nil {
				return r
			}
		}
		return HitTestResult{}
	default:
		return HitTestResult{Matching: n}
	}
}

// hitTestBranch hit-tests And/Or nodes; either side missing a command node
// defaults to the right side, the branch that will run next at the cursor.
func hitTestBranch(left, right Node, offset int) HitTestResult {
	r := HitTest(left, offset)
	if r.Matching == nil {
		r = HitTest(right, offset)
	}
	if r.ClosestCommand == nil {
		r.ClosestCommand = right
	}
	return r
}

// LeftmostTrivialLiteral returns the first literal reachable by walking the
// left spine of the subtree, used to recover a command's program name. A
// Sequence is entered on its right side, where the command follows any
// variable declarations. It returns nil if the leaf reached is not a
// literal.
func LeftmostTrivialLiteral(n Node) Node {
	switch n := n.(type) {
	case *Bareword:
		return n
	case *StringLiteral:
		return n
	case *ListConcatenate:
		return LeftmostTrivialLiteral(n.Element)
	case *Juxtaposition:
		return LeftmostTrivialLiteral(n.Left)
	case *Join:
		if l := LeftmostTrivialLiteral(n.Left); l != nil {
			return l
		}
		return LeftmostTrivialLiteral(n.Right)
	case *CastToCommand:
		return LeftmostTrivialLiteral(n.Inner)
	case *CastToList:
		if n.Inner == nil {
			return nil
		}
		return LeftmostTrivialLiteral(n.Inner)
	case *Execute:
		return LeftmostTrivialLiteral(n.Command)
	case *Sequence:
		return LeftmostTrivialLiteral(n.Right)
	default:
		return nil
	}
}

// WouldExecute reports whether running the node forks by itself, without an
// enclosing Execute node.
func WouldExecute(n Node) bool {
	switch n := n.(type) {
	case *Execute:
		return true
	case *And, *Or:
		return true
	case *Sequence:
		return WouldExecute(n.Left) || WouldExecute(n.Right)
	case *Background:
		return WouldExecute(n.Command)
	default:
		return false
	}
}
