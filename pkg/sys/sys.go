// Package sys provides thin wrappers around the syscalls marsh needs.
package sys

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsATTY reports whether the file is a terminal.
func IsATTY(file *os.File) bool {
	return isatty.IsTerminal(file.Fd()) ||
		isatty.IsCygwinTerminal(file.Fd())
}
