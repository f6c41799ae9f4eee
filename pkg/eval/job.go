package eval

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"src.mar.sh/pkg/sys"
)

// Job is a handle to a child pipeline. It is created on spawn, stays
// waitable while the process runs, and is disowned once its exit has been
// observed and reported.
type Job struct {
	pid  int
	pgid int
	cmd  string
	id   int

	proc      *os.Process
	startTime time.Time

	mu                  sync.Mutex
	exited              bool
	exitCode            int
	runningInBackground bool
	suspended           bool

	// done is closed when the process has been waited on.
	done chan struct{}

	// OnExit is fired from the session's reaper, in the main goroutine.
	OnExit func(*Job)
}

// Pid returns the process id of the job.
func (j *Job) Pid() int { return j.pid }

// Pgid returns the process group id of the job. Each pipeline runs in its
// own process group, so this equals Pid.
func (j *Job) Pgid() int { return j.pgid }

// ID returns the shell-local job id.
func (j *Job) ID() int { return j.id }

// Cmd returns the command text the job was started with.
func (j *Job) Cmd() string { return j.cmd }

// StartTime returns the time the job was spawned.
func (j *Job) StartTime() time.Time { return j.startTime }

// Exited reports whether the job has exited.
func (j *Job) Exited() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.exited
}

// ExitCode returns the exit code of an exited job.
func (j *Job) ExitCode() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.exitCode
}

// Done returns a channel closed when the job has exited.
func (j *Job) Done() <-chan struct{} { return j.done }

// IsRunningInBackground reports whether the job runs in the background.
func (j *Job) IsRunningInBackground() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.runningInBackground
}

// SetRunningInBackground marks the job as running in the background.
func (j *Job) SetRunningInBackground(bg bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.runningInBackground = bg
}

// IsSuspended reports whether the job has been stopped.
func (j *Job) IsSuspended() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.suspended
}

// SetSuspended marks the job as stopped or resumed.
func (j *Job) SetSuspended(suspended bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.suspended = suspended
}

// Signal sends a signal to the job's process group.
func (j *Job) Signal(sig unix.Signal) error {
	return sys.Killpg(j.pgid, sig)
}

func (j *Job) finish(code int) {
	j.mu.Lock()
	j.exited = true
	j.exitCode = code
	j.mu.Unlock()
	close(j.done)
}

// addJob registers a freshly spawned process as a job. The job id is one
// above the largest id in the table.
func (s *Session) addJob(proc *os.Process, cmd string) *Job {
	job := &Job{
		pid:       proc.Pid,
		pgid:      proc.Pid,
		cmd:       cmd,
		id:        s.lastJobID() + 1,
		proc:      proc,
		startTime: time.Now(),
		done:      make(chan struct{}),
	}
	job.OnExit = func(j *Job) {
		if j.IsRunningInBackground() {
			fmt.Fprintf(s.files[2], "marsh: Job %d(%s) exited\n", j.pid, j.cmd)
		}
		s.disownJob(j)
	}
	s.jobs[job.pid] = job

	go func() {
		state, err := proc.Wait()
		if err != nil {
			job.finish(127)
			return
		}
		job.finish(exitCodeOf(state))
	}()

	return job
}

func exitCodeOf(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return state.ExitCode()
}

func (s *Session) lastJobID() int {
	id := 0
	for _, job := range s.jobs {
		if job.id > id {
			id = job.id
		}
	}
	return id
}

// FindJob returns the job with the given shell-local id, or nil.
func (s *Session) FindJob(id int) *Job {
	for _, job := range s.jobs {
		if job.id == id {
			return job
		}
	}
	return nil
}

// Jobs returns the jobs currently tracked, in job id order.
func (s *Session) Jobs() []*Job {
	var jobs []*Job
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	for i := 1; i < len(jobs); i++ {
		for j := i; j > 0 && jobs[j-1].id > jobs[j].id; j-- {
			jobs[j-1], jobs[j] = jobs[j], jobs[j-1]
		}
	}
	return jobs
}

func (s *Session) disownJob(j *Job) {
	delete(s.jobs, j.pid)
}

// Reap fires the exit callbacks of jobs that have exited since the last
// call. It runs in the main goroutine; the shell calls it before each
// prompt and after each foreground wait.
func (s *Session) Reap() {
	for _, job := range s.Jobs() {
		select {
		case <-job.done:
			if job.OnExit != nil {
				job.OnExit(job)
			}
		default:
		}
	}
}

// BlockOnJob blocks until the job exits. A SIGINT arriving while blocked is
// forwarded to the job's process group. Terminal attributes are restored
// before returning.
func (s *Session) BlockOnJob(job *Job) {
	if job == nil {
		return
	}
	prev := s.currentJob
	s.currentJob = job
	defer func() {
		s.currentJob = prev
		s.RestoreStdin()
	}()
	for {
		select {
		case <-job.done:
			s.Reap()
			return
		case sig := <-s.signals():
			if sig == syscall.SIGINT {
				job.Signal(unix.SIGINT)
			}
		}
	}
}

// StopAllJobs is the shutdown discipline: every job gets SIGCONT then
// SIGHUP; after a short grace window, the ones still tracked get SIGKILL
// via their process group.
func (s *Session) StopAllJobs() {
	if len(s.jobs) == 0 {
		return
	}
	fmt.Fprintln(s.files[2], "Killing active jobs")
	for _, job := range s.jobs {
		job.Signal(unix.SIGCONT)
		job.Signal(unix.SIGHUP)
	}

	time.Sleep(10 * time.Millisecond)

	for _, job := range s.jobs {
		if err := sys.Killpg(job.pgid, unix.SIGKILL); err != nil {
			if err == unix.ESRCH {
				// The process has exited all by itself.
				continue
			}
			fmt.Fprintf(s.files[2], "killpg: %v\n", err)
		}
	}
}
