//go:build darwin || freebsd || netbsd || openbsd

package sys

import "golang.org/x/sys/unix"

// Dup2 duplicates oldfd onto newfd.
func Dup2(oldfd, newfd int) error {
	return unix.Dup2(oldfd, newfd)
}
