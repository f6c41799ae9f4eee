package diag

import (
	"fmt"
	"io"
)

// Shower wraps the Show method.
type Shower interface {
	// Show shows the receiver, possibly with colored output.
	Show() string
}

// ShowError shows an error to the given writer. It uses the Show method if
// the error implements [Shower], and prints the message in bold red
// otherwise.
func ShowError(w io.Writer, err error) {
	if shower, ok := err.(Shower); ok {
		fmt.Fprintln(w, shower.Show())
	} else {
		Complain(w, err.Error())
	}
}

// Complain prints a message in bold and red, adding a trailing newline.
func Complain(w io.Writer, msg string) {
	fmt.Fprintf(w, "\033[31;1m%s\033[m\n", msg)
}
