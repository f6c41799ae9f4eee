package edit

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"src.mar.sh/pkg/eval"
	"src.mar.sh/pkg/parse"
)

// Complete parses nothing itself: it dispatches on the node under the
// cursor of an already parsed line and returns completion candidates.
func Complete(ed Editor, s *eval.Session, root parse.Node, offset int) []Suggestion {
	result := parse.HitTest(root, offset)
	if result.Matching == nil {
		return nil
	}

	switch matching := result.Matching.(type) {
	case *parse.SimpleVariable:
		corrected := offset - matching.Range().From - 1
		if corrected < 0 || corrected > len(matching.Name) {
			return nil
		}
		return CompleteVariable(ed, s, matching.Name, corrected)
	case *parse.Tilde:
		corrected := offset - matching.Range().From - 1
		if corrected < 0 || corrected > len(matching.Username) {
			return nil
		}
		return CompleteUser(ed, matching.Username, corrected)
	}

	bareword, ok := result.Matching.(*parse.Bareword)
	if !ok {
		return nil
	}
	corrected := offset - bareword.Range().From
	if corrected < 0 || corrected > len(bareword.Text) {
		return nil
	}

	// ~/path juxtapositions complete against the resolved home directory.
	if jux, ok := result.ClosestSemantic.(*parse.Juxtaposition); ok {
		if tilde, ok := jux.Left.(*parse.Tilde); ok && corrected >= 1 {
			base := s.ExpandTilde(tilde.Text())
			return CompletePath(ed, s, base, bareword.Text[1:], corrected-1)
		}
	}

	switch result.ClosestSemantic.(type) {
	case *parse.Execute, *parse.CastToCommand:
		return CompleteProgramName(ed, s, bareword.Text, corrected)
	case *parse.Redirection:
		return CompletePath(ed, s, "", bareword.Text, corrected)
	}

	if strings.HasPrefix(bareword.Text, "-") && bareword.Text != "-" &&
		result.ClosestCommand != nil {
		if program := programName(result.ClosestCommand); program != "" {
			return CompleteOption(ed, s, program, bareword.Text, corrected)
		}
		return nil
	}

	return CompletePath(ed, s, "", bareword.Text, corrected)
}

// programName recovers the program name of a command node from its
// leftmost literal.
func programName(commandNode parse.Node) string {
	switch literal := parse.LeftmostTrivialLiteral(commandNode).(type) {
	case *parse.Bareword:
		return literal.Text
	case *parse.StringLiteral:
		return literal.Text
	default:
		return ""
	}
}

// CompletePath completes a path relative to base, or to the working
// directory when base is empty. Directories suggest a trailing slash,
// everything else a space.
func CompletePath(ed Editor, s *eval.Session, base, part string, offset int) []Suggestion {
	token := part
	if offset < len(part) {
		token = part[:offset]
	}
	originalToken := token

	lastSlash := strings.LastIndexByte(token, '/')
	initSlashPart := ""
	if lastSlash >= 0 {
		initSlashPart = token[:lastSlash+1]
		token = token[lastSlash+1:]
	}

	var pathB strings.Builder
	if base == "" {
		if !strings.HasPrefix(originalToken, "/") {
			pathB.WriteString(s.Cwd())
		}
	} else {
		if !strings.HasPrefix(base, "/") {
			pathB.WriteString(s.Cwd())
			pathB.WriteString("/")
		}
		pathB.WriteString(base)
	}
	pathB.WriteString("/")
	pathB.WriteString(initSlashPart)
	dir := pathB.String()

	// Only the last path segment is being replaced.
	tokenLength := len(parse.EscapeToken(token))
	ed.Suggest(tokenLength, len(originalToken)-tokenLength)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var suggestions []Suggestion
	for _, entry := range entries {
		name := entry.Name()
		// Only suggest dotfiles if the token starts with a dot.
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(token, ".") {
			continue
		}
		if !strings.HasPrefix(name, token) {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		trailing := " "
		if info.IsDir() {
			trailing = "/"
		}
		suggestions = append(suggestions,
			Suggestion{Text: parse.EscapeToken(name), Trailing: trailing})
	}
	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Text < suggestions[j].Text
	})
	return suggestions
}

// CompleteProgramName completes a program name against the session's
// sorted path cache by binary search, expanding around the match to cover
// all entries sharing the prefix. An unmatched token falls back to path
// completion.
func CompleteProgramName(ed Editor, s *eval.Session, name string, offset int) []Suggestion {
	cache := s.CachedPath()
	index := sort.SearchStrings(cache, name)
	if index >= len(cache) || !strings.HasPrefix(cache[index], name) {
		return CompletePath(ed, s, "", name, offset)
	}

	ed.Suggest(len(parse.EscapeToken(name)), 0)

	var suggestions []Suggestion
	for i := index; i < len(cache) && strings.HasPrefix(cache[i], name); i++ {
		suggestions = append(suggestions,
			Suggestion{Text: cache[i], Trailing: " "})
	}
	return suggestions
}

// CompleteVariable completes a variable name from the session's locals and
// the environment.
func CompleteVariable(ed Editor, s *eval.Session, name string, offset int) []Suggestion {
	pattern := name
	if offset < len(name) {
		pattern = name[:offset]
	}

	ed.Suggest(offset, 0)

	var suggestions []Suggestion
	seen := make(map[string]struct{})
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		suggestions = append(suggestions, Suggestion{Text: name})
	}

	for _, name := range s.LocalVariableNames() {
		if strings.HasPrefix(name, pattern) {
			add(name)
		}
	}
	for _, entry := range os.Environ() {
		if !strings.HasPrefix(entry, pattern) {
			continue
		}
		if i := strings.IndexByte(entry, '='); i > 0 {
			add(entry[:i])
		}
	}
	return suggestions
}

// CompleteUser completes a username from the home directories under
// /home.
func CompleteUser(ed Editor, name string, offset int) []Suggestion {
	pattern := name
	if offset < len(name) {
		pattern = name[:offset]
	}

	ed.Suggest(offset, 0)

	entries, err := os.ReadDir("/home")
	if err != nil {
		return nil
	}
	var suggestions []Suggestion
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), pattern) {
			suggestions = append(suggestions, Suggestion{Text: entry.Name()})
		}
	}
	return suggestions
}

// CompleteOption completes the options of a builtin. Only setopt publishes
// its option names.
func CompleteOption(ed Editor, s *eval.Session, program, option string, offset int) []Suggestion {
	start := 0
	for start < len(option) && option[start] == '-' && start < 2 {
		start++
	}
	pattern := ""
	if offset > start {
		pattern = option[start:offset]
	}

	ed.Suggest(offset, 0)

	if !eval.HasBuiltin(program) || program != "setopt" {
		return nil
	}

	negate := false
	if strings.HasPrefix(pattern, "no_") {
		negate = true
		pattern = pattern[len("no_"):]
	}
	var suggestions []Suggestion
	for _, name := range eval.OptionNames {
		if !strings.HasPrefix(name, pattern) {
			continue
		}
		full := "--" + name
		if negate {
			full = "--no_" + name
		}
		suggestions = append(suggestions, Suggestion{Text: full})
	}
	return suggestions
}
