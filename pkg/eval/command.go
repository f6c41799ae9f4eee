package eval

import (
	"os"

	"src.mar.sh/pkg/parse"
)

// Command is one evaluated command: an argument vector plus the ordered
// redirections to apply around it.
type Command struct {
	Argv         []string
	Redirections []Redirection

	ShouldWait                 bool
	IsPipeSource               bool
	ShouldNotifyIfInBackground bool
}

// NewCommand returns a Command with the default flags.
func NewCommand() *Command {
	return &Command{ShouldWait: true, ShouldNotifyIfInBackground: true}
}

// ClosePolicy says what the job runner does with the fds of a rewiring.
type ClosePolicy int

// Possible values for ClosePolicy.
const (
	CloseNone ClosePolicy = iota
	CloseSource
	CloseDestination
	// RefreshDestination means "create a fresh pipe here"; the linked
	// rewiring receives the read end. This implements '|'.
	RefreshDestination
	ImmediatelyCloseDestination
)

// Rewiring is a declarative instruction to reshape a child's fd table at
// spawn time: the child's SourceFd slot receives the destination.
type Rewiring struct {
	// SourceFd is the fd slot in the child to rewire.
	SourceFd int
	// DestFile is the parent-side file to install into the slot. It is nil
	// for fd-to-fd duplications and before a RefreshDestination pipe has
	// been created.
	DestFile *os.File
	// DestFd is the child fd to duplicate when DestFile is nil; -1
	// otherwise.
	DestFd int
	// Close is the fd ownership policy.
	Close ClosePolicy
	// Other is the linked rewiring holding the opposite end of a pipe.
	Other *Rewiring
}

// Redirection turns into a Rewiring when applied. Applying may open files.
type Redirection interface {
	Apply() (*Rewiring, error)
}

// PathRedirection opens a path and rewires an fd to it.
type PathRedirection struct {
	Path string
	Fd   int
	Mode parse.RedirMode
}

// Apply opens the path for the redirection's mode. The opened file is owned
// by the returned rewiring.
func (r *PathRedirection) Apply() (*Rewiring, error) {
	var f *os.File
	var err error
	switch r.Mode {
	case parse.Read:
		f, err = os.OpenFile(r.Path, os.O_RDONLY, 0)
	case parse.Write:
		f, err = os.OpenFile(r.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	case parse.WriteAppend:
		f, err = os.OpenFile(r.Path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
	case parse.ReadWrite:
		f, err = os.OpenFile(r.Path, os.O_RDWR|os.O_CREATE, 0666)
	}
	if err != nil {
		return nil, err
	}
	return &Rewiring{
		SourceFd: r.Fd, DestFile: f, DestFd: -1, Close: CloseDestination,
	}, nil
}

// FdRedirection carries a pre-built rewiring, possibly linked to another
// one for pipes.
type FdRedirection struct {
	Rw *Rewiring
}

func (r *FdRedirection) Apply() (*Rewiring, error) {
	return r.Rw, nil
}

// CloseRedirection closes an fd in the child.
type CloseRedirection struct {
	Fd int
}

func (r *CloseRedirection) Apply() (*Rewiring, error) {
	return &Rewiring{
		SourceFd: r.Fd, DestFd: -1, Close: ImmediatelyCloseDestination,
	}, nil
}

// fdCollector is the scoped owner of the transient fds the parent holds
// while setting up a command: opened redirection targets and pipe ends. On
// every exit path from the job runner the collected files are closed; their
// duplicates already live in the child by then, or the command has been
// abandoned.
type fdCollector struct {
	files []*os.File
}

func (c *fdCollector) add(f *os.File) {
	c.files = append(c.files, f)
}

func (c *fdCollector) collect() {
	for _, f := range c.files {
		f.Close()
	}
	c.files = nil
}
