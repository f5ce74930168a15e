package runner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polarzero/runwatch/internal/process"
)

type listResult struct {
	files    []string
	errText  string
	exitCode *int
	calls    int
}

func newListListener(t *testing.T) (*ListTestFilesListener, *listResult) {
	t.Helper()
	session, _ := newTestSession(nil)
	res := &listResult{}
	l := NewListTestFilesListener(session, func(files []string, errText string, exitCode *int) {
		res.files = files
		res.errText = errText
		res.exitCode = exitCode
		res.calls++
	})
	return l, res
}

func TestListReportsFilesOnCleanExit(t *testing.T) {
	l, res := newListListener(t)
	h := newFakeProc(process.Request{Type: process.ListTestFiles})

	l.OnEvent(h, process.StdoutData{Chunk: []byte(`["/a.test.js","/b.test.js"]` + "\n")})
	l.OnEvent(h, process.Exited{Code: intPtr(0)})
	l.OnEvent(h, process.Closed{Code: intPtr(0)})

	require.Equal(t, 1, res.calls)
	require.Empty(t, res.errText)
	require.Equal(t, []string{"/a.test.js", "/b.test.js"}, res.files)
}

func TestListConcatenatesMultipleArraysInOrder(t *testing.T) {
	l, res := newListListener(t)
	h := newFakeProc(process.Request{Type: process.ListTestFiles})

	l.OnEvent(h, process.StdoutData{Chunk: []byte("noise before\n" + `["/a.test.js"]` + "\nbetween\n")})
	l.OnEvent(h, process.StdoutData{Chunk: []byte(`["/b.test.js","","/c.test.js"]` + "\n")})
	l.OnEvent(h, process.Exited{Code: intPtr(0)})
	l.OnEvent(h, process.Closed{Code: intPtr(0)})

	require.Equal(t, 1, res.calls)
	require.Equal(t, []string{"/a.test.js", "/b.test.js", "/c.test.js"}, res.files, "empty entries dropped, discovery order kept")
}

func TestListNormalizesPaths(t *testing.T) {
	l, res := newListListener(t)
	h := newFakeProc(process.Request{Type: process.ListTestFiles})

	l.OnEvent(h, process.StdoutData{Chunk: []byte(`["/repo//src/../a.test.js"]` + "\n")})
	l.OnEvent(h, process.Exited{Code: intPtr(0)})
	l.OnEvent(h, process.Closed{Code: intPtr(0)})

	require.Equal(t, []string{"/repo/a.test.js"}, res.files)
}

func TestListNoArraysMeansNoTestFiles(t *testing.T) {
	l, res := newListListener(t)
	h := newFakeProc(process.Request{Type: process.ListTestFiles})

	l.OnEvent(h, process.StdoutData{Chunk: []byte("No tests found\n")})
	l.OnEvent(h, process.Exited{Code: intPtr(0)})
	l.OnEvent(h, process.Closed{Code: intPtr(0)})

	require.Equal(t, 1, res.calls)
	require.Empty(t, res.errText)
	require.NotNil(t, res.files)
	require.Empty(t, res.files)
}

func TestListNonZeroExitReportsStderr(t *testing.T) {
	l, res := newListListener(t)
	h := newFakeProc(process.Request{Type: process.ListTestFiles})

	l.OnEvent(h, process.StdoutData{Chunk: []byte(`["/a.test.js"]` + "\n")})
	l.OnEvent(h, process.StderrData{Chunk: []byte("boom\n")})
	l.OnEvent(h, process.Exited{Code: intPtr(2)})
	l.OnEvent(h, process.Closed{Code: intPtr(2)})

	require.Equal(t, 1, res.calls)
	require.Nil(t, res.files)
	require.Equal(t, "boom", res.errText)
	require.Equal(t, 2, *res.exitCode)
}

func TestListMalformedArrayReportsParseError(t *testing.T) {
	l, res := newListListener(t)
	h := newFakeProc(process.Request{Type: process.ListTestFiles})

	l.OnEvent(h, process.StdoutData{Chunk: []byte(`[{"not": "a string"}]` + "\n")})
	l.OnEvent(h, process.Exited{Code: intPtr(0)})
	l.OnEvent(h, process.Closed{Code: intPtr(0)})

	require.Equal(t, 1, res.calls)
	require.Nil(t, res.files)
	require.NotEmpty(t, res.errText)
	require.Equal(t, 0, *res.exitCode)
}

func TestListCallbackFiresExactlyOnce(t *testing.T) {
	l, res := newListListener(t)
	h := newFakeProc(process.Request{Type: process.ListTestFiles})

	l.OnEvent(h, process.Exited{Code: intPtr(0)})
	l.OnEvent(h, process.Closed{Code: intPtr(0)})
	l.OnEvent(h, process.Closed{Code: intPtr(0)})

	require.Equal(t, 1, res.calls)
}
