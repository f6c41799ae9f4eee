// Package testutil contains common test utilities.
package testutil

// Cleanuper wraps the Cleanup method. It is a subset of [testing.TB], thus
// satisfied by [*testing.T] and [*testing.B].
type Cleanuper interface {
	Cleanup(func())
}

// Set sets the value of a variable for the duration of a test.
func Set[T any](c Cleanuper, p *T, v T) {
	old := *p
	*p = v
	c.Cleanup(func() { *p = old })
}
