package testutil

import (
	"os"

	"src.mar.sh/pkg/must"
)

// Fataler wraps the Fatal method. It is a subset of [testing.TB].
type Fataler interface {
	Fatal(args ...any)
}

// TempDir creates a temporary directory that is removed after the test
// finishes. Symlinks in the path are resolved, so that the return value can
// be compared against the output of os.Getwd after chdir'ing into it.
func TempDir(c Cleanuper) string {
	dir, err := os.MkdirTemp("", "marsh-test")
	if err != nil {
		panic(err)
	}
	dir = must.OK1(resolveSymlinks(dir))
	c.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// InTempDir is like TempDir, but also changes into the directory, changing
// back when the test finishes.
func InTempDir(c Cleanuper) string {
	dir := TempDir(c)
	oldWd := must.OK1(os.Getwd())
	must.Chdir(dir)
	c.Cleanup(func() { must.Chdir(oldWd) })
	return dir
}

// ApplyDir creates the given files and directories, relative to the current
// directory. A string value is a file with that content; a Dir value is a
// subdirectory.
func ApplyDir(dir Dir) {
	applyDir(dir, "")
}

// Dir describes the contents of a directory, keyed by base name.
type Dir map[string]any

func applyDir(dir Dir, prefix string) {
	for name, file := range dir {
		path := prefix + name
		switch file := file.(type) {
		case string:
			must.OK(os.WriteFile(path, []byte(file), 0644))
		case Dir:
			must.OK(os.MkdirAll(path, 0755))
			applyDir(file, path+"/")
		default:
			panic("file must be string or Dir")
		}
	}
}
