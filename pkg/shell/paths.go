package shell

import (
	"errors"
	"os"
	"path/filepath"

	"src.mar.sh/pkg/eval"
)

// DBPath returns the path of the persistent store:
// $XDG_STATE_HOME/marsh/db.bolt, defaulting the state directory to
// ~/.local/state. The directory is created if missing.
func DBPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.New("cannot determine state directory: " + err.Error())
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	dir := filepath.Join(stateHome, "marsh")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "db.bolt"), nil
}

// RCPath returns the default rc file path: $HOME/.marshrc.yaml.
func RCPath(s *eval.Session) string {
	return filepath.Join(s.Home(), ".marshrc.yaml")
}
