//go:build darwin || freebsd || netbsd || openbsd

package sys

import "golang.org/x/sys/unix"

const (
	getTermiosReq = unix.TIOCGETA
	setTermiosReq = unix.TIOCSETA
)
