// Package parse implements the marsh parser.
//
// The parser builds a typed AST. Positions are byte offsets into the
// original source, carried by every node as a half-open [From, To) range,
// so that the editor can correlate the cursor to a node. Parse failures
// become SyntaxError nodes inside an otherwise intact tree.
package parse

import (
	"strings"

	"src.mar.sh/pkg/diag"
)

// Tree represents a parsed tree. Root is nil for source with no commands.
type Tree struct {
	Root   Node
	Source Source
}

// Source describes a piece of source code.
type Source struct {
	Name string
	Code string
}

// Parse parses the given source. The returned tree is usable even when the
// error is non-nil; in that case the error has type *diag.Error and points
// at the deepest syntax error node.
func Parse(src Source) (Tree, error) {
	ps := &parser{src: src.Code}
	root := ps.parseToplevel()
	tree := Tree{Root: root, Source: src}
	if root != nil {
		if errNode := root.SyntaxErrorNode(); errNode != nil {
			return tree, &diag.Error{
				Type:    "parse error",
				Message: errNode.Message,
				Context: *diag.NewContext(src.Name, src.Code, errNode),
			}
		}
	}
	return tree, nil
}

// parser maintains the mutable state of parsing.
//
// The src member is assumed to be valid UTF-8.
type parser struct {
	src string
	pos int
}

const eof byte = 0xff

func (ps *parser) peek() byte {
	if ps.pos >= len(ps.src) {
		return eof
	}
	return ps.src[ps.pos]
}

func (ps *parser) peekAt(off int) byte {
	if ps.pos+off >= len(ps.src) {
		return eof
	}
	return ps.src[ps.pos+off]
}

func (ps *parser) next() byte {
	b := ps.peek()
	if b != eof {
		ps.pos++
	}
	return b
}

func (ps *parser) hasPrefix(prefix string) bool {
	return strings.HasPrefix(ps.src[ps.pos:], prefix)
}

func (ps *parser) skipSpaces() {
	for ps.peek() == ' ' || ps.peek() == '\t' {
		ps.pos++
	}
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' }

// wordTerminators are the bytes that end a bareword.
const wordTerminators = " \t\n;|&<>\"'$#()"

func isWordByte(b byte) bool {
	return b != eof && !strings.ContainsRune(wordTerminators, rune(b))
}

func isNameByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') ||
		('0' <= b && b <= '9')
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

// parseToplevel parses the whole source. A non-empty source yields a single
// Execute node wrapping the command sequence, mirroring the fact that only
// Execute nodes may fork during evaluation.
func (ps *parser) parseToplevel() Node {
	seq := ps.parseSequence()
	if ps.pos != len(ps.src) {
		bad := newSyntaxError(diag.Ranging{From: ps.pos, To: len(ps.src)},
			"unexpected '"+string(ps.src[ps.pos])+"'")
		ps.pos = len(ps.src)
		if seq == nil {
			seq = bad
		} else {
			n := &Sequence{Left: seq, Right: bad}
			n.Ranging = diag.MixedRanging(seq, bad)
			n.adopt(seq, bad)
			seq = n
		}
	}
	if seq == nil {
		return nil
	}
	ex := &Execute{Command: seq}
	ex.Ranging = seq.Range()
	ex.adopt(seq)
	return ex
}

// parseSequence parses and/or groups separated by ; or newlines, with a
// trailing & turning the group before it into a background command.
func (ps *parser) parseSequence() Node {
	ps.skipSpaces()
	left := ps.parseAndOr()
	ps.skipSpaces()
	if ps.peek() == '&' && ps.peekAt(1) != '&' {
		start := ps.pos
		ps.next()
		if left != nil {
			bg := &Background{Command: left}
			bg.Ranging = diag.Ranging{From: left.Range().From, To: ps.pos}
			bg.adopt(left)
			left = bg
		} else {
			left = newSyntaxError(diag.Ranging{From: start, To: ps.pos},
				"'&' with nothing to run in the background")
		}
		ps.skipSpaces()
		// 'a & b' runs b after backgrounding a.
		if b := ps.peek(); b != eof && b != ';' && b != '\n' && b != ')' && b != '#' {
			right := ps.parseSequence()
			if right != nil {
				seq := &Sequence{Left: left, Right: right}
				seq.Ranging = diag.MixedRanging(left, right)
				seq.adopt(left, right)
				return seq
			}
		}
	}
	if ps.peek() == '#' {
		comment := ps.parseComment()
		if left == nil {
			return comment
		}
		seq := &Sequence{Left: left, Right: comment}
		seq.Ranging = diag.MixedRanging(left, comment)
		seq.adopt(left, comment)
		left = seq
	}
	if ps.peek() == ';' || ps.peek() == '\n' {
		ps.next()
		right := ps.parseSequence()
		if right == nil {
			return left
		}
		if left == nil {
			return right
		}
		seq := &Sequence{Left: left, Right: right}
		seq.Ranging = diag.MixedRanging(left, right)
		seq.adopt(left, right)
		return seq
	}
	return left
}

// parseAndOr parses pipelines separated by && or ||. Each side is wrapped
// in an Execute node since And/Or need jobs to branch on.
func (ps *parser) parseAndOr() Node {
	left := ps.parsePipeline()
	if left == nil {
		return nil
	}
	ps.skipSpaces()
	for ps.hasPrefix("&&") || ps.hasPrefix("||") {
		isAnd := ps.peek() == '&'
		ps.next()
		ps.next()
		ps.skipSpaces()
		right := ps.parsePipeline()
		var rightEx Node
		if right == nil {
			rightEx = newSyntaxError(diag.PointRanging(ps.pos),
				"expected a command after '&&' or '||'")
		} else {
			rightEx = NewExecute(right.Range(), right)
		}
		leftEx := NewExecute(left.Range(), left)
		r := diag.MixedRanging(leftEx, rightEx)
		if isAnd {
			n := &And{Left: leftEx, Right: rightEx}
			n.Ranging = r
			n.adopt(leftEx, rightEx)
			left = n
		} else {
			n := &Or{Left: leftEx, Right: rightEx}
			n.Ranging = r
			n.adopt(leftEx, rightEx)
			left = n
		}
		ps.skipSpaces()
	}
	return left
}

// parsePipeline parses commands separated by |.
func (ps *parser) parsePipeline() Node {
	left := ps.parseCommand()
	if left == nil {
		return nil
	}
	ps.skipSpaces()
	if ps.peek() == '|' && ps.peekAt(1) != '|' {
		ps.next()
		ps.skipSpaces()
		right := ps.parsePipeline()
		if right == nil {
			right = newSyntaxError(diag.PointRanging(ps.pos),
				"expected a command after '|'")
		}
		pipe := &Pipe{Left: left, Right: right}
		pipe.Ranging = diag.MixedRanging(left, right)
		pipe.adopt(left, right)
		return pipe
	}
	return left
}

// parseCommand parses one command: optional variable declarations, then
// words and redirections in written order.
func (ps *parser) parseCommand() Node {
	ps.skipSpaces()
	if ps.peek() == '#' {
		return ps.parseComment()
	}

	decls := ps.parseVariableDeclarations()

	var words []Node
	var redirs []Node
	var base Node
	for {
		ps.skipSpaces()
		b := ps.peek()
		if b == eof || b == ';' || b == '\n' || b == ')' || b == '#' {
			break
		}
		if b == '&' || b == '|' {
			break
		}
		if startsRedirection(ps.src[ps.pos:]) {
			redirs = append(redirs, ps.parseRedirection())
			continue
		}
		word := ps.parseWord()
		if word == nil {
			break
		}
		words = append(words, word)
	}

	if len(words) > 0 {
		list := words[len(words)-1]
		for i := len(words) - 2; i >= 0; i-- {
			lc := &ListConcatenate{Element: words[i], List: list}
			lc.Ranging = diag.MixedRanging(words[i], list)
			lc.adopt(words[i], list)
			list = lc
		}
		cast := &CastToCommand{Inner: list}
		cast.Ranging = list.Range()
		cast.adopt(list)
		base = cast
	}
	for _, redir := range redirs {
		if base == nil {
			base = redir
			continue
		}
		join := &Join{Left: base, Right: redir}
		join.Ranging = diag.Ranging{From: minFrom(base, redir), To: maxTo(base, redir)}
		join.adopt(base, redir)
		base = join
	}

	switch {
	case decls == nil:
		return base
	case base == nil:
		return decls
	default:
		seq := &Sequence{Left: decls, Right: base}
		seq.Ranging = diag.MixedRanging(decls, base)
		seq.adopt(decls, base)
		return seq
	}
}

func minFrom(a, b Node) int {
	if a.Range().From < b.Range().From {
		return a.Range().From
	}
	return b.Range().From
}

func maxTo(a, b Node) int {
	if a.Range().To > b.Range().To {
		return a.Range().To
	}
	return b.Range().To
}

func (ps *parser) parseComment() Node {
	start := ps.pos
	for ps.peek() != eof && ps.peek() != '\n' {
		ps.next()
	}
	n := &Comment{Text: ps.src[start+1 : ps.pos]}
	n.Ranging = diag.Ranging{From: start, To: ps.pos}
	return n
}

// parseVariableDeclarations parses a run of name=value pairs. It returns
// nil if the command does not start with one.
func (ps *parser) parseVariableDeclarations() Node {
	var decls []Declaration
	start := ps.pos
	for {
		ps.skipSpaces()
		if !ps.startsVariableDeclaration() {
			break
		}
		nameStart := ps.pos
		for isNameByte(ps.peek()) {
			ps.next()
		}
		name := &Bareword{Text: ps.src[nameStart:ps.pos]}
		name.Ranging = diag.Ranging{From: nameStart, To: ps.pos}
		ps.next() // the '='
		var value Node
		if b := ps.peek(); b == eof || isSpace(b) || b == ';' || b == '\n' {
			value = &StringLiteral{Text: ""}
			value.(*StringLiteral).Ranging = diag.PointRanging(ps.pos)
		} else {
			value = ps.parseWord()
		}
		decls = append(decls, Declaration{Name: name, Value: value})
	}
	if len(decls) == 0 {
		return nil
	}
	n := &VariableDeclarations{Declarations: decls}
	n.Ranging = diag.Ranging{From: start, To: ps.pos}
	for _, d := range decls {
		n.adopt(d.Name, d.Value)
	}
	return n
}

func (ps *parser) startsVariableDeclaration() bool {
	i := ps.pos
	if i >= len(ps.src) || isDigit(ps.src[i]) {
		return false
	}
	for i < len(ps.src) && isNameByte(ps.src[i]) {
		i++
	}
	return i > ps.pos && i < len(ps.src) && ps.src[i] == '='
}

// startsRedirection reports whether the remaining source starts with a
// redirection operator, possibly preceded by an fd number.
func startsRedirection(s string) bool {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i < len(s) && (s[i] == '<' || s[i] == '>')
}

func (ps *parser) parseRedirection() Node {
	start := ps.pos
	fd := -1
	if isDigit(ps.peek()) {
		fd = 0
		for isDigit(ps.peek()) {
			fd = fd*10 + int(ps.next()-'0')
		}
	}

	switch {
	case ps.hasPrefix(">>"):
		ps.next()
		ps.next()
		return ps.finishPathRedirection(start, WriteAppend, orDefault(fd, 1))
	case ps.hasPrefix(">&"):
		ps.next()
		ps.next()
		src := orDefault(fd, 1)
		if ps.peek() == '-' {
			ps.next()
			n := &CloseFdRedirection{Fd: src}
			n.Ranging = diag.Ranging{From: start, To: ps.pos}
			return n
		}
		if !isDigit(ps.peek()) {
			return newSyntaxError(diag.Ranging{From: start, To: ps.pos},
				"expected a file descriptor or '-' after '>&'")
		}
		dst := 0
		for isDigit(ps.peek()) {
			dst = dst*10 + int(ps.next()-'0')
		}
		n := &Fd2FdRedirection{SourceFd: src, DestFd: dst}
		n.Ranging = diag.Ranging{From: start, To: ps.pos}
		return n
	case ps.hasPrefix("<>"):
		ps.next()
		ps.next()
		return ps.finishPathRedirection(start, ReadWrite, orDefault(fd, 0))
	case ps.peek() == '>':
		ps.next()
		return ps.finishPathRedirection(start, Write, orDefault(fd, 1))
	default: // '<'
		ps.next()
		return ps.finishPathRedirection(start, Read, orDefault(fd, 0))
	}
}

func orDefault(fd, def int) int {
	if fd == -1 {
		return def
	}
	return fd
}

func (ps *parser) finishPathRedirection(start int, mode RedirMode, fd int) Node {
	ps.skipSpaces()
	path := ps.parseWord()
	if path == nil {
		return newSyntaxError(diag.Ranging{From: start, To: ps.pos},
			"expected a path after redirection")
	}
	n := &Redirection{Mode: mode, Fd: fd, Path: path}
	n.Ranging = diag.Ranging{From: start, To: path.Range().To}
	n.adopt(path)
	return n
}

// parseWord parses a word: atoms juxtaposed with no whitespace in between.
func (ps *parser) parseWord() Node {
	left := ps.parseAtom(true)
	if left == nil {
		return nil
	}
	for {
		b := ps.peek()
		if b == eof || isSpace(b) || b == '\n' || b == ';' || b == '&' ||
			b == '|' || b == '<' || b == '>' || b == ')' || b == '#' {
			return left
		}
		right := ps.parseAtom(false)
		if right == nil {
			return left
		}
		jux := &Juxtaposition{Left: left, Right: right}
		jux.Ranging = diag.MixedRanging(left, right)
		jux.adopt(left, right)
		left = jux
	}
}

// parseAtom parses one atom of a word. atWordStart enables tilde
// recognition.
func (ps *parser) parseAtom(atWordStart bool) Node {
	switch b := ps.peek(); {
	case b == '\'':
		return ps.parseSingleQuoted()
	case b == '"':
		return ps.parseDoubleQuoted()
	case b == '$':
		return ps.parseDollar()
	case b == '~' && atWordStart:
		return ps.parseTilde()
	default:
		return ps.parseBareword()
	}
}

func (ps *parser) parseTilde() Node {
	start := ps.pos
	ps.next()
	nameStart := ps.pos
	for isWordByte(ps.peek()) && ps.peek() != '/' && ps.peek() != '*' && ps.peek() != '?' {
		ps.next()
	}
	n := &Tilde{Username: ps.src[nameStart:ps.pos]}
	n.Ranging = diag.Ranging{From: start, To: ps.pos}
	return n
}

func (ps *parser) parseBareword() Node {
	start := ps.pos
	var b strings.Builder
	isGlob := false
	for {
		c := ps.peek()
		if c == '\\' {
			ps.next()
			if e := ps.peek(); e != eof {
				b.WriteByte(ps.next())
			} else {
				b.WriteByte('\\')
			}
			continue
		}
		if !isWordByte(c) {
			break
		}
		if c == '*' || c == '?' {
			isGlob = true
		}
		b.WriteByte(ps.next())
	}
	if ps.pos == start {
		// A stray special byte; consume it so the parser makes progress.
		c := ps.next()
		return newSyntaxError(diag.Ranging{From: start, To: ps.pos},
			"unexpected '"+string(c)+"'")
	}
	r := diag.Ranging{From: start, To: ps.pos}
	if isGlob {
		n := &Glob{Text: ps.src[start:ps.pos]}
		n.Ranging = r
		return n
	}
	n := &Bareword{Text: b.String()}
	n.Ranging = r
	return n
}

func (ps *parser) parseSingleQuoted() Node {
	start := ps.pos
	ps.next()
	textStart := ps.pos
	for ps.peek() != '\'' && ps.peek() != eof {
		ps.next()
	}
	if ps.peek() == eof {
		return newSyntaxError(diag.Ranging{From: start, To: ps.pos},
			"string not terminated")
	}
	text := ps.src[textStart:ps.pos]
	ps.next()
	n := &StringLiteral{Text: text}
	n.Ranging = diag.Ranging{From: start, To: ps.pos}
	return n
}

func (ps *parser) parseDoubleQuoted() Node {
	start := ps.pos
	ps.next()
	var parts []Node
	var lit strings.Builder
	litStart := ps.pos
	flushLit := func(end int) {
		if lit.Len() > 0 {
			n := &StringLiteral{Text: lit.String()}
			n.Ranging = diag.Ranging{From: litStart, To: end}
			parts = append(parts, n)
			lit.Reset()
		}
	}
	for {
		switch c := ps.peek(); c {
		case eof:
			flushLit(ps.pos)
			return newSyntaxError(diag.Ranging{From: start, To: ps.pos},
				"string not terminated")
		case '"':
			flushLit(ps.pos)
			ps.next()
			inner := composeStringParts(parts, diag.Ranging{From: start + 1, To: ps.pos - 1})
			n := &DoubleQuotedString{Inner: inner}
			n.Ranging = diag.Ranging{From: start, To: ps.pos}
			n.adopt(inner)
			return n
		case '\\':
			ps.next()
			if e := ps.peek(); e == '"' || e == '\\' || e == '$' {
				lit.WriteByte(ps.next())
			} else {
				lit.WriteByte('\\')
			}
		case '$':
			flushLit(ps.pos)
			parts = append(parts, ps.parseDollar())
			litStart = ps.pos
		default:
			lit.WriteByte(ps.next())
		}
	}
}

func composeStringParts(parts []Node, r diag.Ranging) Node {
	if len(parts) == 0 {
		n := &StringLiteral{Text: ""}
		n.Ranging = r
		return n
	}
	left := parts[0]
	for _, right := range parts[1:] {
		c := &StringPartCompose{Left: left, Right: right}
		c.Ranging = diag.MixedRanging(left, right)
		c.adopt(left, right)
		left = c
	}
	return left
}

func (ps *parser) parseDollar() Node {
	start := ps.pos
	ps.next()
	switch c := ps.peek(); {
	case c == '(':
		return ps.parseCaptureExecute(start)
	case c == '$' && ps.peekAt(1) == '(':
		ps.next()
		inner := ps.parseCaptureExecute(start + 1)
		n := &DynamicEvaluate{Inner: inner}
		n.Ranging = diag.Ranging{From: start, To: ps.pos}
		n.adopt(inner)
		return n
	case c == '?' || c == '$':
		ps.next()
		n := &SpecialVariable{Name: c}
		n.Ranging = diag.Ranging{From: start, To: ps.pos}
		return n
	case isNameByte(c) && !isDigit(c):
		nameStart := ps.pos
		for isNameByte(ps.peek()) {
			ps.next()
		}
		n := &SimpleVariable{Name: ps.src[nameStart:ps.pos]}
		n.Ranging = diag.Ranging{From: start, To: ps.pos}
		return n
	default:
		n := &StringLiteral{Text: "$"}
		n.Ranging = diag.Ranging{From: start, To: ps.pos}
		return n
	}
}

// parseCaptureExecute parses $( sequence ), yielding an Execute node that
// captures stdout.
func (ps *parser) parseCaptureExecute(start int) Node {
	ps.next() // the '('
	seq := ps.parseSequence()
	if ps.peek() != ')' {
		return newSyntaxError(diag.Ranging{From: start, To: ps.pos},
			"expected ')'")
	}
	ps.next()
	if seq == nil {
		seq = &StringLiteral{Text: ""}
		seq.(*StringLiteral).Ranging = diag.PointRanging(start + 2)
	}
	n := &Execute{Command: seq, Capture: true}
	n.Ranging = diag.Ranging{From: start, To: ps.pos}
	n.adopt(seq)
	return n
}
