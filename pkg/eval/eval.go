package eval

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"src.mar.sh/pkg/diag"
	"src.mar.sh/pkg/env"
	"src.mar.sh/pkg/parse"
)

// captureReadChunk is how many bytes one readiness wakeup of a command
// substitution reads. Kept at the historical value; tests pin it.
const captureReadChunk = 4096

// commandLiteral is an internally generated node carrying an already
// evaluated command. Alias expansion uses it to re-join an alias body with
// the rest of the original command.
type commandLiteral struct {
	diag.Ranging
	cmd *Command
}

func (n *commandLiteral) SyntaxErrorNode() *parse.SyntaxError { return nil }

// Eval evaluates an AST node to a value against the session. Only Execute
// nodes fork; evaluating anything else builds values and command lists
// without side effects on the process table.
func (s *Session) Eval(n parse.Node) Value {
	switch n := n.(type) {
	case *parse.Bareword:
		return &StringValue{Text: n.Text}
	case *parse.StringLiteral:
		return &StringValue{Text: n.Text}
	case *parse.Glob:
		return &GlobValue{Pattern: n.Text}
	case *parse.Tilde:
		return &TildeValue{Username: n.Username}
	case *parse.SimpleVariable:
		return &SimpleVariableValue{Name: n.Name}
	case *parse.SpecialVariable:
		return &SpecialVariableValue{Name: n.Name}
	case *parse.Comment:
		return &ListValue{}
	case *parse.SyntaxError:
		return &StringValue{Text: ""}
	case *commandLiteral:
		return &CommandValue{Cmd: n.cmd}
	case *parse.Juxtaposition:
		return s.evalJuxtaposition(n)
	case *parse.ListConcatenate:
		return s.evalListConcatenate(n)
	case *parse.Join:
		left := s.Eval(n.Left).ResolveAsCommands(s)
		right := s.Eval(n.Right).ResolveAsCommands(s)
		return &CommandSequenceValue{Cmds: joinCommands(left, right)}
	case *parse.StringPartCompose:
		left := s.resolveList(s.Eval(n.Left))
		right := s.resolveList(s.Eval(n.Right))
		return &StringValue{
			Text: strings.Join(left, " ") + strings.Join(right, " ")}
	case *parse.DoubleQuotedString:
		words := s.resolveList(s.Eval(n.Inner))
		return &StringValue{Text: strings.Join(words, "")}
	case *parse.DynamicEvaluate:
		return s.evalDynamic(n)
	case *parse.Execute:
		return s.evalExecute(n)
	case *parse.Sequence:
		return s.evalSequence(n)
	case *parse.And:
		return s.evalAnd(n)
	case *parse.Or:
		return s.evalOr(n)
	case *parse.Pipe:
		return s.evalPipe(n)
	case *parse.Background:
		commands := s.Eval(n.Command).ResolveAsCommands(s)
		if len(commands) > 0 {
			commands[len(commands)-1].ShouldWait = false
		}
		return &CommandSequenceValue{Cmds: commands}
	case *parse.CastToList:
		return s.evalCastToList(n)
	case *parse.CastToCommand:
		return s.evalCastToCommand(n)
	case *parse.Redirection:
		path := strings.Join(s.resolveList(s.Eval(n.Path)), " ")
		cmd := NewCommand()
		cmd.Redirections = append(cmd.Redirections,
			&PathRedirection{Path: path, Fd: n.Fd, Mode: n.Mode})
		return &CommandValue{Cmd: cmd}
	case *parse.CloseFdRedirection:
		cmd := NewCommand()
		cmd.Redirections = append(cmd.Redirections,
			&CloseRedirection{Fd: n.Fd})
		return &CommandValue{Cmd: cmd}
	case *parse.Fd2FdRedirection:
		cmd := NewCommand()
		cmd.Redirections = append(cmd.Redirections, &FdRedirection{
			Rw: &Rewiring{
				SourceFd: n.SourceFd, DestFd: n.DestFd, Close: CloseNone}})
		return &CommandValue{Cmd: cmd}
	case *parse.VariableDeclarations:
		return s.evalVariableDeclarations(n)
	default:
		return &ListValue{}
	}
}

func (s *Session) evalJuxtaposition(n *parse.Juxtaposition) Value {
	leftValue := resolveWithoutCast(s.Eval(n.Left), s)
	rightValue := resolveWithoutCast(s.Eval(n.Right), s)

	left := s.resolveList(leftValue)
	right := s.resolveList(rightValue)

	if isStringValue(leftValue) && isStringValue(rightValue) &&
		len(left) == 1 && len(right) == 1 {
		return &StringValue{Text: left[0] + right[0]}
	}

	// Treat both sides as lists and build the string product.
	if len(left) == 0 || len(right) == 0 {
		return &ListValue{}
	}
	values := make([]Value, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			values = append(values, &StringValue{Text: l + r})
		}
	}
	return &ListValue{Values: values}
}

func (s *Session) evalListConcatenate(n *parse.ListConcatenate) Value {
	list := resolveWithoutCast(s.Eval(n.List), s)
	element := resolveWithoutCast(s.Eval(n.Element), s)

	if isCommandValue(list) || isCommandValue(element) {
		joined := joinCommands(
			element.ResolveAsCommands(s), list.ResolveAsCommands(s))
		if len(joined) == 1 {
			return &CommandValue{Cmd: joined[0]}
		}
		return &CommandSequenceValue{Cmds: joined}
	}

	return &ListValue{Values: []Value{element, list}}
}

func (s *Session) evalDynamic(n *parse.DynamicEvaluate) Value {
	result := resolveWithoutCast(s.Eval(n.Inner), s)
	// Dynamic evaluation behaves differently between strings and lists:
	// strings name variables, anything else becomes a command.
	if isStringValue(result) {
		name := s.resolveList(result)
		if len(name) == 1 {
			return &SimpleVariableValue{Name: name[0]}
		}
	}
	cmd := NewCommand()
	cmd.Argv = s.resolveList(result)
	return &CommandValue{Cmd: cmd}
}

func (s *Session) evalExecute(n *parse.Execute) Value {
	if parse.WouldExecute(n.Command) {
		return s.Eval(n.Command)
	}

	commands := s.ExpandAliases(s.Eval(n.Command).ResolveAsCommands(s))

	if n.Capture {
		return s.evalCaptureExecute(commands)
	}

	var lastJob *Job
	for _, job := range s.RunCommands(commands) {
		s.BlockOnJob(job)
		lastJob = job
	}
	return &JobValue{Job: lastJob}
}

// evalCaptureExecute runs commands with the last one's stdout rewired into
// a pipe, collecting the output into a splittable string value.
func (s *Session) evalCaptureExecute(commands []*Command) Value {
	if len(commands) == 0 {
		return &StringValue{Text: ""}
	}
	r, w, err := os.Pipe()
	if err != nil {
		fmt.Fprintf(s.files[2], "marsh: cannot pipe: %v\n", err)
		return &StringValue{Text: ""}
	}

	last := commands[len(commands)-1]
	last.Redirections = append([]Redirection{&FdRedirection{
		Rw: &Rewiring{
			SourceFd: 1, DestFile: w, DestFd: -1, Close: CloseDestination},
	}}, last.Redirections...)
	last.ShouldWait = true
	last.ShouldNotifyIfInBackground = false
	last.IsPipeSource = false

	var buf bytes.Buffer
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		chunk := make([]byte, captureReadChunk)
		for {
			n, err := r.Read(chunk)
			buf.Write(chunk[:n])
			if err != nil {
				return
			}
		}
	}()

	for _, job := range s.RunCommands(commands) {
		s.BlockOnJob(job)
	}

	// The job runner has closed the parent's write end; the reader drains
	// the remaining bytes and sees EOF.
	<-readerDone
	r.Close()

	return &StringValue{
		Text:      buf.String(),
		Split:     s.LocalVariableOr(env.IFS, "\n"),
		KeepEmpty: s.Options.InlineExecKeepEmptySegments,
	}
}

func (s *Session) evalSequence(n *parse.Sequence) Value {
	// If the sequence is to produce a job, block on the left one, then run
	// the right side.
	if parse.WouldExecute(n.Left) || parse.WouldExecute(n.Right) {
		leftValue := s.Eval(parse.NewExecute(n.Left.Range(), n.Left))
		if jv, ok := leftValue.(*JobValue); ok {
			s.BlockOnJob(jv.Job)
		}
		if parse.WouldExecute(n.Right) {
			return s.Eval(n.Right)
		}
		return s.Eval(parse.NewExecute(n.Right.Range(), n.Right))
	}

	left := s.Eval(n.Left).ResolveAsCommands(s)
	// A comment or a bare variable declaration next to a command leaves an
	// empty command behind; drop it.
	if len(left) == 1 && len(left[0].Argv) == 0 && len(left[0].Redirections) == 0 {
		return s.Eval(n.Right)
	}
	right := s.Eval(n.Right).ResolveAsCommands(s)
	return &CommandSequenceValue{Cmds: append(left, right...)}
}

func (s *Session) evalAnd(n *parse.And) Value {
	left := s.Eval(n.Left)
	jv, ok := left.(*JobValue)
	if !ok {
		return left
	}
	if jv.Job == nil {
		// The left command never became a job; treat it as failed.
		return jv
	}
	s.BlockOnJob(jv.Job)
	if jv.Job.ExitCode() == 0 {
		return s.Eval(n.Right)
	}
	return jv
}

func (s *Session) evalOr(n *parse.Or) Value {
	left := s.Eval(n.Left)
	jv, ok := left.(*JobValue)
	if !ok {
		return left
	}
	if jv.Job == nil {
		return s.Eval(n.Right)
	}
	s.BlockOnJob(jv.Job)
	if jv.Job.ExitCode() == 0 {
		return jv
	}
	return s.Eval(n.Right)
}

func (s *Session) evalPipe(n *parse.Pipe) Value {
	left := s.Eval(n.Left).ResolveAsCommands(s)
	right := s.Eval(n.Right).ResolveAsCommands(s)
	if len(left) == 0 || len(right) == 0 {
		return &CommandSequenceValue{Cmds: append(left, right...)}
	}

	lastInLeft := left[len(left)-1]
	firstInRight := right[0]

	// Two linked rewirings; the pipe itself is created by the job runner
	// when it meets the RefreshDestination side.
	readSide := &Rewiring{SourceFd: 0, DestFd: -1, Close: CloseDestination}
	writeSide := &Rewiring{
		SourceFd: 1, DestFd: -1, Close: RefreshDestination, Other: readSide}
	firstInRight.Redirections = append(firstInRight.Redirections,
		&FdRedirection{Rw: readSide})
	lastInLeft.Redirections = append(lastInLeft.Redirections,
		&FdRedirection{Rw: writeSide})
	lastInLeft.ShouldWait = false
	lastInLeft.IsPipeSource = true

	commands := make([]*Command, 0, len(left)+len(right))
	commands = append(commands, left...)
	commands = append(commands, right...)
	return &CommandSequenceValue{Cmds: commands}
}

func (s *Session) evalCastToList(n *parse.CastToList) Value {
	if n.Inner == nil {
		return &ListValue{}
	}
	inner := s.Eval(n.Inner)
	if isCommandValue(inner) {
		return inner
	}
	words := s.resolveList(inner)
	values := make([]Value, len(words))
	for i, word := range words {
		values[i] = &StringValue{Text: word}
	}
	return &ListValue{Values: values}
}

func (s *Session) evalCastToCommand(n *parse.CastToCommand) Value {
	inner := resolveWithoutCast(s.Eval(n.Inner), s)
	if isCommandValue(inner) {
		return inner
	}
	cmd := NewCommand()
	cmd.Argv = s.resolveList(inner)
	return &CommandValue{Cmd: cmd}
}

func (s *Session) evalVariableDeclarations(n *parse.VariableDeclarations) Value {
	for _, decl := range n.Declarations {
		names := s.resolveList(s.Eval(decl.Name))
		if len(names) != 1 {
			continue
		}
		name := names[0]
		value := resolveWithoutCast(s.Eval(decl.Value), s)
		switch {
		case isListValue(value):
			words := s.resolveList(value)
			values := make([]Value, len(words))
			for i, word := range words {
				values[i] = &StringValue{Text: word}
			}
			s.SetLocalVariable(name, &ListValue{Values: values})
		case isCommandValue(value):
			s.SetLocalVariable(name, value)
		default:
			words := s.resolveList(value)
			word := ""
			if len(words) > 0 {
				word = words[0]
			}
			s.SetLocalVariable(name, &StringValue{Text: word})
		}
	}
	return &ListValue{}
}

// joinCommands merges the last command of left with the first command of
// right into one command carrying both argument vectors and both
// redirection lists, and rebuilds the surrounding sequence.
func joinCommands(left, right []*Command) []*Command {
	if len(left) == 0 {
		return right
	}
	if len(right) == 0 {
		return left
	}

	lastInLeft := left[len(left)-1]
	firstInRight := right[0]

	command := NewCommand()
	command.Argv = append(append([]string{}, lastInLeft.Argv...),
		firstInRight.Argv...)
	command.Redirections = append(
		append([]Redirection{}, lastInLeft.Redirections...),
		firstInRight.Redirections...)
	command.ShouldWait = firstInRight.ShouldWait && lastInLeft.ShouldWait
	command.IsPipeSource = firstInRight.IsPipeSource
	command.ShouldNotifyIfInBackground =
		firstInRight.ShouldWait && lastInLeft.ShouldNotifyIfInBackground

	commands := make([]*Command, 0, len(left)+len(right)-1)
	commands = append(commands, left[:len(left)-1]...)
	commands = append(commands, command)
	commands = append(commands, right[1:]...)
	return commands
}
