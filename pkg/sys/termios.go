//go:build unix

package sys

import "golang.org/x/sys/unix"

// Termios is the terminal attribute set.
type Termios = unix.Termios

// GetTermios reads the terminal attributes of the given fd.
func GetTermios(fd int) (*Termios, error) {
	return unix.IoctlGetTermios(fd, getTermiosReq)
}

// SetTermios applies terminal attributes to the given fd immediately.
func SetTermios(fd int, t *Termios) error {
	return unix.IoctlSetTermios(fd, setTermiosReq, t)
}
