package eval

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

func init() {
	addBuiltins(map[string]builtinFn{
		"jobs":   builtinJobs,
		"fg":     builtinFg,
		"bg":     builtinBg,
		"disown": builtinDisown,
		"kill":   builtinKill,
		"wait":   builtinWait,
	})
}

func builtinJobs(s *Session, argv []string) int {
	for _, job := range s.Jobs() {
		state := "Running"
		if job.IsSuspended() {
			state = "Stopped"
		}
		fmt.Fprintf(s.files[1], "[%d] %d %s %s\n",
			job.ID(), job.Pid(), state, job.Cmd())
	}
	return 0
}

// jobFromArg picks the job named by an optional %id or id argument,
// defaulting to the job with the highest id.
func jobFromArg(s *Session, argv []string) (*Job, string) {
	if len(argv) < 2 {
		jobs := s.Jobs()
		if len(jobs) == 0 {
			return nil, "no current job"
		}
		return jobs[len(jobs)-1], ""
	}
	arg := strings.TrimPrefix(argv[1], "%")
	id, err := strconv.Atoi(arg)
	if err != nil {
		return nil, "invalid job id " + argv[1]
	}
	job := s.FindJob(id)
	if job == nil {
		return nil, "no such job " + argv[1]
	}
	return job, ""
}

func builtinFg(s *Session, argv []string) int {
	job, problem := jobFromArg(s, argv)
	if job == nil {
		fmt.Fprintf(s.files[2], "fg: %s\n", problem)
		return 1
	}
	fmt.Fprintf(s.files[1], "%s\n", job.Cmd())
	job.SetRunningInBackground(false)
	job.SetSuspended(false)
	job.Signal(unix.SIGCONT)
	s.BlockOnJob(job)
	return job.ExitCode()
}

func builtinBg(s *Session, argv []string) int {
	job, problem := jobFromArg(s, argv)
	if job == nil {
		fmt.Fprintf(s.files[2], "bg: %s\n", problem)
		return 1
	}
	job.SetRunningInBackground(true)
	job.SetSuspended(false)
	job.Signal(unix.SIGCONT)
	return 0
}

func builtinDisown(s *Session, argv []string) int {
	job, problem := jobFromArg(s, argv)
	if job == nil {
		fmt.Fprintf(s.files[2], "disown: %s\n", problem)
		return 1
	}
	s.disownJob(job)
	return 0
}

func builtinKill(s *Session, argv []string) int {
	sig := unix.SIGTERM
	args := argv[1:]
	if len(args) > 0 && strings.HasPrefix(args[0], "-") {
		parsed, ok := parseSignal(args[0][1:])
		if !ok {
			fmt.Fprintf(s.files[2], "kill: unknown signal %s\n", args[0])
			return 1
		}
		sig = parsed
		args = args[1:]
	}
	if len(args) == 0 {
		fmt.Fprintln(s.files[2], "kill: not enough arguments")
		return 1
	}

	status := 0
	for _, arg := range args {
		if strings.HasPrefix(arg, "%") {
			id, err := strconv.Atoi(arg[1:])
			job := s.FindJob(id)
			if err != nil || job == nil {
				fmt.Fprintf(s.files[2], "kill: no such job %s\n", arg)
				status = 1
				continue
			}
			if err := job.Signal(sig); err != nil {
				fmt.Fprintf(s.files[2], "kill: %v\n", err)
				status = 1
			}
			continue
		}
		pid, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintf(s.files[2], "kill: invalid pid %s\n", arg)
			status = 1
			continue
		}
		if err := unix.Kill(pid, sig); err != nil {
			fmt.Fprintf(s.files[2], "kill: %v\n", err)
			status = 1
		}
	}
	return status
}

var signalsByName = map[string]unix.Signal{
	"HUP":  unix.SIGHUP,
	"INT":  unix.SIGINT,
	"QUIT": unix.SIGQUIT,
	"KILL": unix.SIGKILL,
	"TERM": unix.SIGTERM,
	"CONT": unix.SIGCONT,
	"STOP": unix.SIGSTOP,
	"USR1": unix.SIGUSR1,
	"USR2": unix.SIGUSR2,
}

func parseSignal(name string) (unix.Signal, bool) {
	if num, err := strconv.Atoi(name); err == nil {
		return unix.Signal(num), true
	}
	sig, ok := signalsByName[strings.TrimPrefix(strings.ToUpper(name), "SIG")]
	return sig, ok
}

func builtinWait(s *Session, argv []string) int {
	for _, job := range s.Jobs() {
		s.BlockOnJob(job)
	}
	return 0
}
