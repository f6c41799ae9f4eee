// Command marsh-lsp is a language server for the marsh command language.
package main

import (
	"os"

	"src.mar.sh/pkg/lsp"
	"src.mar.sh/pkg/prog"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		lsp.Program{}))
}
