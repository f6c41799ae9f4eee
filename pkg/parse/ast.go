package parse

import "src.mar.sh/pkg/diag"

// Literal nodes.

// Bareword is an unquoted word.
type Bareword struct {
	node
	Text string
}

// StringLiteral is a single-quoted string.
type StringLiteral struct {
	node
	Text string
}

// Glob is a word containing unescaped * or ? metacharacters.
type Glob struct {
	node
	Text string
}

// Tilde is a ~ or ~user at the start of a word.
type Tilde struct {
	node
	Username string
}

// Text returns the source form of the tilde expression.
func (t *Tilde) Text() string { return "~" + t.Username }

// SimpleVariable is $name.
type SimpleVariable struct {
	node
	Name string
}

// SpecialVariable is $? or $$.
type SpecialVariable struct {
	node
	Name byte
}

// Comment is a #-to-end-of-line comment.
type Comment struct {
	node
	Text string
}

// SyntaxError marks a parse failure. The surrounding tree stays intact so
// that cursor-driven features keep working.
type SyntaxError struct {
	node
	Message string
}

func newSyntaxError(r diag.Ranging, message string) *SyntaxError {
	n := &SyntaxError{Message: message}
	n.Ranging = r
	n.errNode = n
	return n
}

// Composition nodes.

// Juxtaposition is two expressions adjacent with no whitespace in between.
type Juxtaposition struct {
	node
	Left, Right Node
}

// ListConcatenate builds a list out of space-separated expressions.
type ListConcatenate struct {
	node
	Element, List Node
}

// Join concatenates two command expressions into one command, merging argv
// and redirections.
type Join struct {
	node
	Left, Right Node
}

// StringPartCompose joins the parts inside a double-quoted string.
type StringPartCompose struct {
	node
	Left, Right Node
}

// DoubleQuotedString is an interpolation container.
type DoubleQuotedString struct {
	node
	Inner Node
}

// DynamicEvaluate is $$-prefixed evaluation: a string result names a
// variable, anything else becomes a command.
type DynamicEvaluate struct {
	node
	Inner Node
}

// Control and flow nodes.

// Execute marks a subtree as a unit to be executed. It is the only node
// whose evaluation may fork. With Capture set, the unit's stdout is
// collected into a string value.
type Execute struct {
	node
	Command Node
	Capture bool
}

// NewExecute wraps a command subtree in an Execute node. It is used by the
// evaluator when a node needs to force execution of a child.
func NewExecute(r diag.Ranging, command Node) *Execute {
	n := &Execute{Command: command}
	n.Ranging = r
	n.adopt(command)
	return n
}

// Sequence is left ; right.
type Sequence struct {
	node
	Left, Right Node
}

// And is left && right.
type And struct {
	node
	Left, Right Node
}

// Or is left || right.
type Or struct {
	node
	Left, Right Node
}

// Pipe is left | right.
type Pipe struct {
	node
	Left, Right Node
}

// Background is command &.
type Background struct {
	node
	Command Node
}

// CastToList forces its inner expression into a list. Inner may be nil for
// an empty list.
type CastToList struct {
	node
	Inner Node
}

// CastToCommand forces its inner expression into a command.
type CastToCommand struct {
	node
	Inner Node
}

// Redirection nodes.

// RedirMode identifies the direction of a path redirection.
type RedirMode int

// Possible values for RedirMode.
const (
	Read RedirMode = iota
	Write
	WriteAppend
	ReadWrite
)

// Redirection is a path redirection: [fd]< path, [fd]> path, [fd]>> path or
// [fd]<> path.
type Redirection struct {
	node
	Mode RedirMode
	Fd   int
	Path Node
}

// CloseFdRedirection is fd>&-.
type CloseFdRedirection struct {
	node
	Fd int
}

// Fd2FdRedirection is source>&dest.
type Fd2FdRedirection struct {
	node
	SourceFd, DestFd int
}

// Assignment nodes.

// Declaration is one name=value pair.
type Declaration struct {
	Name, Value Node
}

// VariableDeclarations is a run of name=value pairs before a command.
type VariableDeclarations struct {
	node
	Declarations []Declaration
}
