// Package fsutil provides filesystem utilities.
package fsutil

import (
	"os"
	"path/filepath"
	"strings"

	"src.mar.sh/pkg/env"
)

// DontSearch reports whether the command name should be used as a path
// directly instead of being searched on $PATH.
func DontSearch(name string) bool {
	return name == ".." || strings.ContainsRune(name, '/')
}

// EachExternal calls f for each name that can resolve to an external
// command on $PATH.
func EachExternal(f func(string)) {
	for _, dir := range searchPaths() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			info, err := entry.Info()
			if err == nil && IsExecutable(info) {
				f(entry.Name())
			}
		}
	}
}

func searchPaths() []string {
	return filepath.SplitList(os.Getenv(env.PATH))
}
