package sys

import "golang.org/x/sys/unix"

// Dup2 duplicates oldfd onto newfd. Linux needs dup3 since arm64 has no
// dup2 syscall.
func Dup2(oldfd, newfd int) error {
	return unix.Dup3(oldfd, newfd, 0)
}
