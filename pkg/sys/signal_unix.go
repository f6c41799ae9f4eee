//go:build unix

package sys

import (
	"os"
	"os/signal"
	"syscall"
)

const sigsChanBufferSize = 32

// NotifySignals returns a channel on which all incoming signals are
// delivered.
func NotifySignals() chan os.Signal {
	sigCh := make(chan os.Signal, sigsChanBufferSize)
	signal.Notify(sigCh)
	// Calling signal.Notify resets the signal ignore status, so these have
	// to be re-ignored every time. Without this, running an external
	// command from an interactive prompt can stop the whole shell.
	signal.Ignore(syscall.SIGTTIN, syscall.SIGTTOU, syscall.SIGTSTP)
	return sigCh
}
