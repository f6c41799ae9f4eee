package testutil

import "path/filepath"

func resolveSymlinks(p string) (string, error) {
	return filepath.EvalSymlinks(p)
}
