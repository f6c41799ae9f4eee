// Package glob implements globbing for marsh.
package glob

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Glob returns the list of filesystem entries matching the given pattern,
// resolved against the base directory. Results are relative to base and
// sorted lexicographically. A pattern with no metacharacters matches itself
// iff it exists.
func Glob(pattern, base string) []string {
	if strings.HasPrefix(pattern, "/") {
		base = "/"
	}
	segs := splitPath(pattern)

	info, err := os.Lstat(base)
	if err != nil {
		return nil
	}
	resolved, err := filepath.EvalSymlinks(base)
	if err != nil {
		resolved = filepath.Clean(base)
	}
	if info.IsDir() && !strings.HasSuffix(resolved, "/") {
		resolved += "/"
	}

	results := expand(segs, resolved)

	for i, entry := range results {
		entry = strings.TrimPrefix(entry, resolved)
		if entry == "" {
			entry = "."
		}
		results[i] = entry
	}
	sort.Strings(results)
	return results
}

// splitPath splits a path on /, dropping empty segments.
func splitPath(path string) []string {
	var parts []string
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func expand(segs []string, base string) []string {
	if len(segs) == 0 {
		if _, err := os.Lstat(base); err == nil {
			return []string{base}
		}
		return nil
	}

	first, rest := segs[0], segs[1:]
	if !HasMeta(first) {
		return expand(rest, joinDir(base, first))
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}

	var results []string
	for _, entry := range entries {
		name := entry.Name()
		// Dotfiles have to be explicitly requested.
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(first, ".") {
			continue
		}
		if matchElement(first, name) {
			results = append(results, expand(rest, joinDir(base, name))...)
		}
	}
	return results
}

func joinDir(base, elem string) string {
	if strings.HasSuffix(base, "/") {
		return base + elem
	}
	return base + "/" + elem
}
