package eval

import (
	"fmt"
	"os"
	"os/user"
	"sort"
	"strings"

	"src.mar.sh/pkg/env"
	"src.mar.sh/pkg/fsutil"
	"src.mar.sh/pkg/parse"
	"src.mar.sh/pkg/store"
	"src.mar.sh/pkg/sys"
)

// Options is the set of togglable shell options. Each field corresponds to
// a name recognized by the setopt builtin.
type Options struct {
	// InlineExecKeepEmptySegments keeps empty segments when splitting the
	// output of a command substitution.
	InlineExecKeepEmptySegments bool
	// Verbose echoes each command before running it.
	Verbose bool
}

// Session is the mutable state of one shell: variable and alias tables, the
// job table, the working directory, and the cached program names. It also
// owns the read-eval cycle for a piece of source code.
type Session struct {
	files [3]*os.File

	localVars map[string]Value
	aliases   map[string]string
	jobs      map[int]*Job

	cwd      string
	home     string
	username string
	hostname string
	uid      int
	pid      int

	// LastReturnCode is the exit code of the last command, exposed as $?.
	LastReturnCode int

	// History is the command history, shared with the line editor.
	History []string

	// Options is the set of togglable options.
	Options Options

	cachedPath []string
	dirStack   []string
	cdHistory  []string

	savedTermios *sys.Termios
	sigCh        chan os.Signal
	currentJob   *Job

	// WantExit is set by the exit builtin; the outer loop checks it after
	// every command.
	WantExit *int

	store *store.Store
}

// NewSession creates a Session over the given stdin/stdout/stderr files.
func NewSession(files [3]*os.File) *Session {
	s := &Session{
		files:     files,
		localVars: make(map[string]Value),
		aliases:   make(map[string]string),
		jobs:      make(map[int]*Job),
		pid:       os.Getpid(),
		uid:       os.Getuid(),
	}
	if cwd, err := os.Getwd(); err == nil {
		s.cwd = cwd
		os.Setenv(env.PWD, cwd)
	}
	if u, err := user.Current(); err == nil {
		s.username = u.Username
		s.home = u.HomeDir
		if os.Getenv(env.HOME) == "" {
			os.Setenv(env.HOME, u.HomeDir)
		}
	}
	if home := os.Getenv(env.HOME); home != "" {
		s.home = home
	}
	if hostname, err := os.Hostname(); err == nil {
		s.hostname = hostname
	}
	s.dirStack = []string{s.cwd}
	s.CachePath()
	return s
}

// File returns one of the session's stdin/stdout/stderr files.
func (s *Session) File(i int) *os.File { return s.files[i] }

// Cwd returns the working directory of the session.
func (s *Session) Cwd() string { return s.cwd }

// Home returns the home directory of the session's user.
func (s *Session) Home() string { return s.home }

// Username returns the name of the session's user.
func (s *Session) Username() string { return s.username }

// Hostname returns the hostname the session runs on.
func (s *Session) Hostname() string { return s.hostname }

// Uid returns the uid of the session's user.
func (s *Session) Uid() int { return s.uid }

// SetSignals gives the session the channel signals are delivered on;
// foreground waits forward SIGINT from it to the running job.
func (s *Session) SetSignals(ch chan os.Signal) { s.sigCh = ch }

func (s *Session) signals() chan os.Signal { return s.sigCh }

// SetStore attaches a persistent store; directory changes are recorded in
// it for the cdh builtin.
func (s *Session) SetStore(st *store.Store) { s.store = st }

// Store returns the attached persistent store, or nil.
func (s *Session) Store() *store.Store { return s.store }

// LookupLocalVariable returns the value bound to a local variable, or nil.
func (s *Session) LookupLocalVariable(name string) Value {
	return s.localVars[name]
}

// SetLocalVariable binds a local variable.
func (s *Session) SetLocalVariable(name string, v Value) {
	s.localVars[name] = v
}

// UnsetLocalVariable removes a local variable binding.
func (s *Session) UnsetLocalVariable(name string) {
	delete(s.localVars, name)
}

// LocalVariableNames returns the names of all local variables, sorted.
func (s *Session) LocalVariableNames() []string {
	names := make([]string, 0, len(s.localVars))
	for name := range s.localVars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LocalVariableOr returns the words of a local variable joined with
// spaces, or the replacement if the variable is unbound.
func (s *Session) LocalVariableOr(name, replacement string) string {
	v := s.LookupLocalVariable(name)
	if v == nil {
		return replacement
	}
	return strings.Join(s.resolveList(v), " ")
}

func (s *Session) getenv(name string) (string, bool) {
	return os.LookupEnv(name)
}

// ResolveAlias returns the body of an alias, or "" if not defined.
func (s *Session) ResolveAlias(name string) string {
	return s.aliases[name]
}

// SetAlias defines an alias.
func (s *Session) SetAlias(name, body string) {
	s.aliases[name] = body
}

// UnsetAlias removes an alias.
func (s *Session) UnsetAlias(name string) {
	delete(s.aliases, name)
}

// AliasNames returns the names of all aliases, sorted.
func (s *Session) AliasNames() []string {
	names := make([]string, 0, len(s.aliases))
	for name := range s.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveList resolves a value to its word list, treating values that
// cannot be lists as empty with a note on stderr in verbose mode.
func (s *Session) resolveList(v Value) []string {
	words, err := v.ResolveAsList(s)
	if err != nil {
		if s.Options.Verbose {
			fmt.Fprintf(s.files[2], "marsh: %v\n", err)
		}
		return nil
	}
	return words
}

// Chdir changes the working directory of the whole shell process, updating
// $PWD, the cd history and the persistent directory history.
func (s *Session) Chdir(dir string) error {
	if err := os.Chdir(dir); err != nil {
		return err
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = dir
	}
	s.cdHistory = append(s.cdHistory, s.cwd)
	s.cwd = cwd
	os.Setenv(env.PWD, cwd)
	if s.store != nil {
		s.store.AddDir(cwd, 1)
	}
	return nil
}

// CachePath rebuilds the sorted cache of program names reachable from the
// shell: builtins, aliases, and executables on $PATH.
func (s *Session) CachePath() {
	seen := make(map[string]struct{})
	var cache []string
	add := func(name string) {
		escaped := parse.EscapeToken(name)
		if _, ok := seen[escaped]; ok {
			return
		}
		seen[escaped] = struct{}{}
		cache = append(cache, escaped)
	}
	for _, name := range BuiltinNames() {
		add(name)
	}
	for _, name := range s.AliasNames() {
		add(name)
	}
	fsutil.EachExternal(add)
	sort.Strings(cache)
	s.cachedPath = cache
}

// CachedPath returns the sorted program name cache.
func (s *Session) CachedPath() []string { return s.cachedPath }

// SaveTermios snapshots the terminal attributes of stdin, to be restored
// around foreground jobs.
func (s *Session) SaveTermios() {
	if !sys.IsATTY(s.files[0]) {
		return
	}
	if t, err := sys.GetTermios(int(s.files[0].Fd())); err == nil {
		s.savedTermios = t
	}
}

// RestoreStdin restores the saved terminal attributes of stdin.
func (s *Session) RestoreStdin() {
	if s.savedTermios != nil {
		sys.SetTermios(int(s.files[0].Fd()), s.savedTermios)
	}
}

// RunCommand parses and evaluates one piece of source code, returning the
// return code. Syntax errors are reported with a ten-character context
// window and yield 1 without any execution.
func (s *Session) RunCommand(text string) int {
	if strings.TrimSpace(text) == "" {
		return s.LastReturnCode
	}

	tree, err := parse.Parse(parse.Source{Name: "marsh", Code: text})
	if err != nil {
		if errNode := syntaxErrorOf(tree.Root); errNode != nil {
			r := errNode.Range()
			window := text[r.From:]
			if len(window) > 10 {
				window = window[:10]
			}
			fmt.Fprintf(s.files[2], "marsh: Syntax error in command: %s\n",
				errNode.Message)
			fmt.Fprintf(s.files[2], "Around '%s'\n", window)
		} else {
			fmt.Fprintf(s.files[2], "marsh: %v\n", err)
		}
		s.LastReturnCode = 1
		return 1
	}
	if tree.Root == nil {
		return s.LastReturnCode
	}

	s.SaveTermios()

	result := s.Eval(tree.Root)
	if jv, ok := result.(*JobValue); ok {
		if jv.Job == nil {
			// The command never became a job; LastReturnCode was already
			// set by the spawn error path or a builtin.
		} else if jv.Job.Exited() {
			s.LastReturnCode = jv.Job.ExitCode()
		}
	}

	return s.LastReturnCode
}

func syntaxErrorOf(n parse.Node) *parse.SyntaxError {
	if n == nil {
		return nil
	}
	return n.SyntaxErrorNode()
}

// RunCommands runs a list of evaluated commands, blocking on each
// foreground one. It returns the jobs the caller still has to wait for:
// the pipeline sources and the foreground jobs already waited on.
func (s *Session) RunCommands(cmds []*Command) []*Job {
	var jobsToWaitFor []*Job

	for _, cmd := range cmds {
		job := s.runCommand(cmd)
		if job == nil {
			continue
		}
		if cmd.ShouldWait {
			s.BlockOnJob(job)
			if !job.IsSuspended() {
				jobsToWaitFor = append(jobsToWaitFor, job)
			}
		} else {
			if cmd.IsPipeSource {
				jobsToWaitFor = append(jobsToWaitFor, job)
			} else if cmd.ShouldNotifyIfInBackground {
				job.SetRunningInBackground(true)
				s.RestoreStdin()
			}
		}
	}

	return jobsToWaitFor
}

// Close releases the session's resources: all jobs are stopped and the
// store is closed.
func (s *Session) Close() {
	s.StopAllJobs()
	if s.store != nil {
		s.store.Close()
	}
}

// formatCommand renders a command the way the verbose option echoes it.
func formatCommand(cmd *Command) string {
	escaped := make([]string, len(cmd.Argv))
	for i, arg := range cmd.Argv {
		escaped[i] = parse.EscapeToken(arg)
	}
	return strings.Join(escaped, " ")
}
