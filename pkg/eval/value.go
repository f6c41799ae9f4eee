package eval

import (
	"errors"
	"strconv"
	"strings"

	"src.mar.sh/pkg/glob"
)

// Value is the result of evaluating an AST node.
type Value interface {
	// ResolveAsList resolves the value to a list of words.
	ResolveAsList(s *Session) ([]string, error)
	// ResolveAsCommands resolves the value to a list of commands. Values
	// that are lists of words yield a single command whose argv is the
	// list.
	ResolveAsCommands(s *Session) []*Command
}

// Errors raised when a value is used in a context it cannot satisfy.
var (
	ErrCommandAsList    = errors.New("cannot use a command as a list")
	ErrCommandSeqAsList = errors.New("cannot use a command sequence as a list")
)

// StringValue is a string, optionally splittable on a set of IFS bytes.
// Only stdout-captured command substitutions produce splittable strings.
type StringValue struct {
	Text      string
	Split     string
	KeepEmpty bool
}

func (v *StringValue) ResolveAsList(*Session) ([]string, error) {
	if v.Split != "" {
		return splitByIFS(v.Text, v.Split, v.KeepEmpty), nil
	}
	return []string{v.Text}, nil
}

func (v *StringValue) ResolveAsCommands(s *Session) []*Command {
	return wrapAsCommands(v, s)
}

func splitByIFS(text, ifs string, keepEmpty bool) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(ifs, r)
	})
	if !keepEmpty {
		return parts
	}
	// FieldsFunc drops empty segments; redo the split keeping them.
	parts = []string{""}
	for _, r := range text {
		if strings.ContainsRune(ifs, r) {
			parts = append(parts, "")
		} else {
			parts[len(parts)-1] += string(r)
		}
	}
	return parts
}

// ListValue is a list of values.
type ListValue struct {
	Values []Value
}

func (v *ListValue) ResolveAsList(s *Session) ([]string, error) {
	var words []string
	for _, elem := range v.Values {
		elemWords, err := elem.ResolveAsList(s)
		if err != nil {
			return nil, err
		}
		words = append(words, elemWords...)
	}
	return words, nil
}

func (v *ListValue) ResolveAsCommands(s *Session) []*Command {
	return wrapAsCommands(v, s)
}

// GlobValue is an unexpanded glob pattern.
type GlobValue struct {
	Pattern string
}

func (v *GlobValue) ResolveAsList(s *Session) ([]string, error) {
	return glob.Glob(v.Pattern, s.Cwd()), nil
}

func (v *GlobValue) ResolveAsCommands(s *Session) []*Command {
	return wrapAsCommands(v, s)
}

// TildeValue is an unexpanded ~user expression.
type TildeValue struct {
	Username string
}

func (v *TildeValue) ResolveAsList(s *Session) ([]string, error) {
	return []string{s.ExpandTilde("~" + v.Username)}, nil
}

func (v *TildeValue) ResolveAsCommands(s *Session) []*Command {
	return wrapAsCommands(v, s)
}

// SimpleVariableValue is an unresolved $name reference.
type SimpleVariableValue struct {
	Name string
}

func (v *SimpleVariableValue) ResolveAsList(s *Session) ([]string, error) {
	if local := s.LookupLocalVariable(v.Name); local != nil {
		return local.ResolveAsList(s)
	}
	envValue, ok := s.getenv(v.Name)
	if !ok {
		// An unset variable resolves to a single empty string, not to an
		// empty list.
		return []string{""}, nil
	}
	return strings.FieldsFunc(envValue, func(r rune) bool {
		return r == ' '
	}), nil
}

func (v *SimpleVariableValue) ResolveAsCommands(s *Session) []*Command {
	return wrapAsCommands(v, s)
}

// resolveWithoutCast resolves a variable reference to its bound value; any
// other value resolves to itself.
func resolveWithoutCast(v Value, s *Session) Value {
	if sv, ok := v.(*SimpleVariableValue); ok {
		if local := s.LookupLocalVariable(sv.Name); local != nil {
			return local
		}
	}
	return v
}

// SpecialVariableValue is $? or $$.
type SpecialVariableValue struct {
	Name byte
}

func (v *SpecialVariableValue) ResolveAsList(s *Session) ([]string, error) {
	switch v.Name {
	case '?':
		return []string{strconv.Itoa(s.LastReturnCode)}, nil
	case '$':
		return []string{strconv.Itoa(s.pid)}, nil
	default:
		return []string{""}, nil
	}
}

func (v *SpecialVariableValue) ResolveAsCommands(s *Session) []*Command {
	return wrapAsCommands(v, s)
}

// CommandValue holds a single evaluated command.
type CommandValue struct {
	Cmd *Command
}

func (v *CommandValue) ResolveAsList(*Session) ([]string, error) {
	return nil, ErrCommandAsList
}

func (v *CommandValue) ResolveAsCommands(*Session) []*Command {
	return []*Command{v.Cmd}
}

// CommandSequenceValue holds a list of evaluated commands.
type CommandSequenceValue struct {
	Cmds []*Command
}

func (v *CommandSequenceValue) ResolveAsList(*Session) ([]string, error) {
	return nil, ErrCommandSeqAsList
}

func (v *CommandSequenceValue) ResolveAsCommands(*Session) []*Command {
	return v.Cmds
}

// JobValue holds a handle to a started job. The handle may be nil when the
// command never became a job.
type JobValue struct {
	Job *Job
}

func (v *JobValue) ResolveAsList(*Session) ([]string, error) {
	if v.Job == nil {
		return []string{""}, nil
	}
	return []string{strconv.Itoa(v.Job.ExitCode())}, nil
}

func (v *JobValue) ResolveAsCommands(s *Session) []*Command {
	return wrapAsCommands(v, s)
}

// wrapAsCommands wraps a word-list value into a single command.
func wrapAsCommands(v Value, s *Session) []*Command {
	cmd := NewCommand()
	cmd.Argv = s.resolveList(v)
	return []*Command{cmd}
}

func isStringValue(v Value) bool {
	switch v := v.(type) {
	case *StringValue:
		// A splittable string behaves as a list.
		return v.Split == ""
	case *SpecialVariableValue, *TildeValue:
		return true
	}
	return false
}

func isListValue(v Value) bool {
	switch v := v.(type) {
	case *StringValue:
		return v.Split != ""
	case *ListValue, *GlobValue:
		return true
	}
	return false
}

func isCommandValue(v Value) bool {
	switch v.(type) {
	case *CommandValue, *CommandSequenceValue:
		return true
	}
	return false
}
