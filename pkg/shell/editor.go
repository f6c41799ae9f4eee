package shell

import (
	"bufio"
	"io"
	"os"

	"src.mar.sh/pkg/strutil"
)

// minEditor is a minimal line editor: it shows the prompt and reads one
// line, with no editing, highlighting or completion. A richer line editor
// is an external collaborator that plugs in through the same ReadCode
// shape and the callbacks in the edit package.
type minEditor struct {
	in  *bufio.Reader
	out io.Writer
}

func newMinEditor(in, out *os.File) *minEditor {
	return &minEditor{bufio.NewReader(in), out}
}

// ReadCode shows the prompt and reads one line.
func (ed *minEditor) ReadCode(prompt string) (string, error) {
	ed.out.Write([]byte(prompt))
	line, err := ed.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return line, nil
		}
		return "", err
	}
	return strutil.ChopLineEnding(line), nil
}
