// Package lsp implements a language server for the marsh command
// language: parse diagnostics and completion over the same AST the shell
// itself uses.
package lsp

import (
	"context"
	"os"

	"github.com/sourcegraph/jsonrpc2"

	"src.mar.sh/pkg/prog"
)

// Program is the language-server subprogram.
type Program struct{}

// Run serves LSP over stdin/stdout until the client disconnects.
func (p Program) Run(fds [3]*os.File, _ *prog.Flags, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := newServer()
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(transport{fds[0], fds[1]}, jsonrpc2.VSCodeObjectCodec{}),
		handler(s))
	<-conn.DisconnectNotify()
	return nil
}

type transport struct{ in, out *os.File }

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	if err := c.in.Close(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}
