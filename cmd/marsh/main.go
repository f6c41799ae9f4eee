// Command marsh is an interactive Unix command shell.
package main

import (
	"os"

	"src.mar.sh/pkg/prog"
	"src.mar.sh/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		shell.Program{}))
}
