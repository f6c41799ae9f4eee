//go:build unix

package fsutil

import "os"

// IsExecutable reports whether the file is executable by anyone.
func IsExecutable(stat os.FileInfo) bool {
	return !stat.IsDir() && stat.Mode()&0o111 != 0
}
