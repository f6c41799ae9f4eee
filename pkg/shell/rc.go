package shell

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"src.mar.sh/pkg/eval"
)

// rcConfig is the shape of the rc file: initial options and aliases.
type rcConfig struct {
	Options map[string]bool   `yaml:"options"`
	Aliases map[string]string `yaml:"aliases"`
}

// applyRC loads the rc file and applies it to the session. A missing file
// is fine; a malformed one is reported and otherwise ignored.
func applyRC(s *eval.Session, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var cfg rcConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		fmt.Fprintf(s.File(2), "marsh: cannot parse %s: %v\n", path, err)
		return
	}
	for name, value := range cfg.Options {
		if !s.SetOption(name, value) {
			fmt.Fprintf(s.File(2), "marsh: %s: unknown option %q\n", path, name)
		}
	}
	for name, body := range cfg.Aliases {
		s.SetAlias(name, body)
	}
	if len(cfg.Aliases) > 0 {
		s.CachePath()
	}
}
