package shell

import (
	"os"
	"path/filepath"
	"strings"

	"src.mar.sh/pkg/eval"
)

// HistoryPath returns the path of the history file: $HOME/.history.
func HistoryPath(s *eval.Session) string {
	return filepath.Join(s.Home(), ".history")
}

// LoadHistory reads the history file, one entry per line. A missing file
// is an empty history.
func LoadHistory(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var history []string
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			history = append(history, line)
		}
	}
	return history
}

// SaveHistory writes the history file, one entry per line, mode 0600.
func SaveHistory(path string, history []string) error {
	var b strings.Builder
	for _, line := range history {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0600)
}
