//go:build unix

package sys

import "golang.org/x/sys/unix"

// Tcsetpgrp sets the terminal foreground process group.
func Tcsetpgrp(fd int, pid int) error {
	return unix.IoctlSetPointerInt(fd, unix.TIOCSPGRP, pid)
}

// Getpgrp returns the process group of the calling process.
func Getpgrp() int {
	return unix.Getpgrp()
}

// Killpg sends a signal to a process group.
func Killpg(pgid int, sig unix.Signal) error {
	return unix.Kill(-pgid, sig)
}
