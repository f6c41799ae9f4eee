package eval

import (
	"os"
	"path/filepath"
	"testing"

	"src.mar.sh/pkg/must"
	"src.mar.sh/pkg/testutil"
)

// testSession builds a session in a fresh temp directory with stdout and
// stderr wired to files.
type testSession struct {
	*Session
	dir     string
	outPath string
	errPath string
}

func newTestSession(t *testing.T) *testSession {
	t.Helper()
	dir := testutil.InTempDir(t)

	stdin := must.OK1(os.Open(os.DevNull))
	t.Cleanup(func() { stdin.Close() })
	outPath := filepath.Join(dir, ".test-stdout")
	out := must.OK1(os.Create(outPath))
	t.Cleanup(func() { out.Close() })
	errPath := filepath.Join(dir, ".test-stderr")
	errFile := must.OK1(os.Create(errPath))
	t.Cleanup(func() { errFile.Close() })

	s := NewSession([3]*os.File{stdin, out, errFile})
	t.Cleanup(s.StopAllJobs)
	return &testSession{Session: s, dir: dir, outPath: outPath, errPath: errPath}
}

func (ts *testSession) stdout() string {
	return must.ReadFileString(ts.outPath)
}

func (ts *testSession) stderr() string {
	return must.ReadFileString(ts.errPath)
}

func (ts *testSession) run(t *testing.T, codes ...string) int {
	t.Helper()
	code := 0
	for _, c := range codes {
		code = ts.RunCommand(c)
	}
	return code
}

func checkOutput(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}
