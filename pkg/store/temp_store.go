package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// MustGetTempStore returns a Store backed by a file in a temporary
// directory, and a cleanup function that should be called when the Store is
// no longer used.
func MustGetTempStore() (*Store, func()) {
	dir, err := os.MkdirTemp("", "marsh.test")
	if err != nil {
		panic(fmt.Sprintf("failed to create temp dir: %v", err))
	}
	st, err := NewStore(filepath.Join(dir, "db.bolt"))
	if err != nil {
		panic(fmt.Sprintf("failed to create Store instance: %v", err))
	}
	return st, func() {
		st.Close()
		os.RemoveAll(dir)
	}
}
