//go:build unix

package eval

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"

	"src.mar.sh/pkg/fsutil"
	"src.mar.sh/pkg/sys"
)

// shebangProbeSize is how many bytes of a failed exec target are inspected
// for a #! line.
const shebangProbeSize = 256

// runCommand lowers one evaluated command into a running OS process:
// redirections become rewirings, RefreshDestination rewirings become pipes,
// builtins run in the current process, and everything else is spawned into
// its own process group. A nil return means no job was created; the reason
// is reflected in LastReturnCode.
func (s *Session) runCommand(cmd *Command) *Job {
	var fds fdCollector
	defer fds.collect()

	if s.Options.Verbose {
		fmt.Fprintf(s.files[2], "+ %s\n", formatCommand(cmd))
	}

	// Resolve redirections. A failing redirection abandons the whole
	// command; no partial rewiring ever reaches a started process.
	var rewirings []*Rewiring
	for _, redirection := range cmd.Redirections {
		rw, err := redirection.Apply()
		if err != nil {
			fmt.Fprintf(s.files[2], "error: %v\n", err)
			s.LastReturnCode = 1
			return nil
		}

		switch rw.Close {
		case CloseSource, CloseNone, ImmediatelyCloseDestination:
			// Nothing held parent-side.
		case CloseDestination:
			if rw.DestFile != nil {
				fds.add(rw.DestFile)
			}
		case RefreshDestination:
			r, w, err := os.Pipe()
			if err != nil {
				fmt.Fprintf(s.files[2], "error: pipe: %v\n", err)
				s.LastReturnCode = 1
				return nil
			}
			rw.DestFile = w
			// The read end is collected when the linked rewiring is
			// resolved for the next command in the pipeline.
			rw.Other.DestFile = r
			fds.add(w)
		}
		rewirings = append(rewirings, rw)
	}

	// A command with no argv performs its rewirings on the shell process
	// itself. No fork, no job.
	if len(cmd.Argv) == 0 {
		for _, rw := range rewirings {
			if err := s.selfRewire(rw); err != nil {
				fmt.Fprintf(s.files[2], "error: %v\n", err)
				s.LastReturnCode = 1
				return nil
			}
		}
		return nil
	}

	if code, ok := s.runBuiltin(cmd.Argv); ok {
		s.LastReturnCode = code
		return nil
	}

	path, spawnErr := lookPath(cmd.Argv[0])
	var proc *os.Process
	if spawnErr == nil {
		files := buildChildFiles(s.files, rewirings)
		proc, spawnErr = os.StartProcess(path, cmd.Argv, &os.ProcAttr{
			Files: files,
			Sys:   &syscall.SysProcAttr{Setpgid: true},
		})
	}
	if spawnErr != nil {
		s.LastReturnCode = s.reportSpawnError(cmd.Argv[0], spawnErr)
		return nil
	}

	return s.addJob(proc, strings.Join(cmd.Argv, " "))
}

// selfRewire applies one rewiring to the shell's own fd table.
func (s *Session) selfRewire(rw *Rewiring) error {
	switch {
	case rw.Close == ImmediatelyCloseDestination:
		return unix.Close(rw.SourceFd)
	case rw.DestFile != nil:
		return sys.Dup2(int(rw.DestFile.Fd()), rw.SourceFd)
	case rw.DestFd >= 0:
		return sys.Dup2(rw.DestFd, rw.SourceFd)
	}
	return nil
}

// buildChildFiles builds the child's fd table: index is the child fd, value
// is the parent file backing it. A nil entry is closed in the child.
func buildChildFiles(stdio [3]*os.File, rewirings []*Rewiring) []*os.File {
	files := []*os.File{stdio[0], stdio[1], stdio[2]}
	grow := func(fd int) {
		for len(files) <= fd {
			files = append(files, nil)
		}
	}
	for _, rw := range rewirings {
		grow(rw.SourceFd)
		switch {
		case rw.Close == ImmediatelyCloseDestination:
			files[rw.SourceFd] = nil
		case rw.DestFile != nil:
			files[rw.SourceFd] = rw.DestFile
		case rw.DestFd >= 0:
			grow(rw.DestFd)
			files[rw.SourceFd] = files[rw.DestFd]
		}
	}
	return files
}

// lookPath resolves a command name to an executable path. Names containing
// a slash are used directly.
func lookPath(name string) (string, error) {
	if fsutil.DontSearch(name) {
		return name, nil
	}
	return exec.LookPath(name)
}

// reportSpawnError prints the diagnostic for a failed spawn and returns
// the exit code to record: 127 for a missing command, 126 for a present
// but unrunnable one.
func (s *Session) reportSpawnError(argv0 string, err error) int {
	if stat, statErr := os.Stat(argv0); statErr == nil && stat.IsDir() {
		fmt.Fprintf(s.files[2], "marsh: %s: Is a directory\n", argv0)
		return 126
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		if interp, ok := probeShebang(argv0); ok {
			fmt.Fprintf(s.files[2],
				"%s: Invalid interpreter \"%s\": No such file or directory\n",
				argv0, interp)
			return 126
		}
		fmt.Fprintf(s.files[2], "%s: Command not found.\n", argv0)
		return 127
	}

	fmt.Fprintf(s.files[2], "execvp(%s): %v\n", argv0, err)
	return 126
}

// probeShebang reads the head of a file and extracts the interpreter of a
// #! line, if any. A failed exec with a present target and a #! head means
// the interpreter itself is missing.
func probeShebang(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()
	head := make([]byte, shebangProbeSize)
	n, _ := f.Read(head)
	head = head[:n]
	if n < 2 || head[0] != '#' || head[1] != '!' {
		return "", false
	}
	interp := string(head[2:])
	if i := strings.IndexAny(interp, "\n\r"); i >= 0 {
		interp = interp[:i]
	}
	return interp, true
}
