package parse

import (
	"fmt"
	"strings"
)

// Dump returns a debug representation of the tree, one node per line,
// children indented under parents.
func Dump(n Node) string {
	var sb strings.Builder
	dump(&sb, n, 0)
	return sb.String()
}

func dump(sb *strings.Builder, n Node, level int) {
	if n == nil {
		return
	}
	indent := strings.Repeat("  ", level)
	r := n.Range()
	head := func(name string, props ...string) {
		fmt.Fprintf(sb, "%s%s %d-%d", indent, name, r.From, r.To)
		for _, p := range props {
			sb.WriteString(" " + p)
		}
		sb.WriteByte('\n')
	}
	switch n := n.(type) {
	case *Bareword:
		head("Bareword", fmt.Sprintf("%q", n.Text))
	case *StringLiteral:
		head("StringLiteral", fmt.Sprintf("%q", n.Text))
	case *Glob:
		head("Glob", fmt.Sprintf("%q", n.Text))
	case *Tilde:
		head("Tilde", fmt.Sprintf("%q", n.Username))
	case *SimpleVariable:
		head("SimpleVariable", n.Name)
	case *SpecialVariable:
		head("SpecialVariable", string(n.Name))
	case *Comment:
		head("Comment", fmt.Sprintf("%q", n.Text))
	case *SyntaxError:
		head("SyntaxError", fmt.Sprintf("%q", n.Message))
	case *Juxtaposition:
		head("Juxtaposition")
		dump(sb, n.Left, level+1)
		dump(sb, n.Right, level+1)
	case *ListConcatenate:
		head("ListConcatenate")
		dump(sb, n.Element, level+1)
		dump(sb, n.List, level+1)
	case *Join:
		head("Join")
		dump(sb, n.Left, level+1)
		dump(sb, n.Right, level+1)
	case *StringPartCompose:
		head("StringPartCompose")
		dump(sb, n.Left, level+1)
		dump(sb, n.Right, level+1)
	case *DoubleQuotedString:
		head("DoubleQuotedString")
		dump(sb, n.Inner, level+1)
	case *DynamicEvaluate:
		head("DynamicEvaluate")
		dump(sb, n.Inner, level+1)
	case *Execute:
		if n.Capture {
			head("Execute", "(capturing stdout)")
		} else {
			head("Execute")
		}
		dump(sb, n.Command, level+1)
	case *Sequence:
		head("Sequence")
		dump(sb, n.Left, level+1)
		dump(sb, n.Right, level+1)
	case *And:
		head("And")
		dump(sb, n.Left, level+1)
		dump(sb, n.Right, level+1)
	case *Or:
		head("Or")
		dump(sb, n.Left, level+1)
		dump(sb, n.Right, level+1)
	case *Pipe:
		head("Pipe")
		dump(sb, n.Left, level+1)
		dump(sb, n.Right, level+1)
	case *Background:
		head("Background")
		dump(sb, n.Command, level+1)
	case *CastToList:
		head("CastToList")
		dump(sb, n.Inner, level+1)
	case *CastToCommand:
		head("CastToCommand")
		dump(sb, n.Inner, level+1)
	case *Redirection:
		head("Redirection", fmt.Sprintf("mode=%d fd=%d", n.Mode, n.Fd))
		dump(sb, n.Path, level+1)
	case *CloseFdRedirection:
		head("CloseFdRedirection", fmt.Sprintf("%d -> close", n.Fd))
	case *Fd2FdRedirection:
		head("Fd2FdRedirection", fmt.Sprintf("%d -> %d", n.SourceFd, n.DestFd))
	case *VariableDeclarations:
		head("VariableDeclarations")
		for _, decl := range n.Declarations {
			dump(sb, decl.Name, level+1)
			dump(sb, decl.Value, level+2)
		}
	default:
		head(fmt.Sprintf("%T", n))
	}
}
