package runner

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/polarzero/runwatch/internal/process"
)

// The listing runner may print several bracketed arrays across one stream;
// each is parsed independently and concatenated in discovery order.
var testFileArrayRe = regexp.MustCompile(`(?s)\[.*?\]`)

// ListFilesCallback receives the listing outcome exactly once per process:
// either the ordered file paths, or an error text with the last observed
// exit code.
type ListFilesCallback func(files []string, errText string, exitCode *int)

// ListTestFilesListener accumulates all stdout of a list-test-files process
// and reports the discovered paths after close. There is no streaming
// interpretation; the buffer is only examined once the process is done.
type ListTestFilesListener struct {
	baseListener
	callback ListFilesCallback

	stdout   bytes.Buffer
	stderr   bytes.Buffer
	exitCode *int
	reported bool
}

// NewListTestFilesListener wires the listener to its session and callback.
func NewListTestFilesListener(session *Session, callback ListFilesCallback) *ListTestFilesListener {
	return &ListTestFilesListener{
		baseListener: newBaseListener(session),
		callback:     callback,
	}
}

// OnEvent buffers output until close, then reports once.
func (l *ListTestFilesListener) OnEvent(h process.Handle, ev process.Event) {
	switch ev := ev.(type) {
	case process.StdoutData:
		l.stdout.Write(ev.Chunk)
	case process.StderrData:
		l.stderr.Write(ev.Chunk)
		l.baseListener.OnEvent(h, ev)
	case process.Exited:
		l.exitCode = ev.Code
		l.baseListener.OnEvent(h, ev)
	case process.Closed:
		if l.exitCode == nil {
			l.exitCode = ev.Code
		}
		l.report(h)
	default:
		l.baseListener.OnEvent(h, ev)
	}
}

func (l *ListTestFilesListener) report(h process.Handle) {
	if l.reported || l.callback == nil {
		return
	}
	l.reported = true

	if l.exitCode != nil && *l.exitCode != 0 {
		l.callback(nil, strings.TrimSpace(CleanANSI(l.stderr.String())), l.exitCode)
		return
	}

	output := l.stdout.String()
	matches := testFileArrayRe.FindAllString(output, -1)
	// No bracketed array means no test files exist, which is not an error.
	files := []string{}
	for _, match := range matches {
		var entries []string
		if err := json.Unmarshal([]byte(match), &entries); err != nil {
			l.session.Log.Debug().Str("process", h.ID()).Str("output", output).Msg("unparseable test file listing")
			l.callback(nil, err.Error(), l.exitCode)
			return
		}
		for _, entry := range entries {
			if entry == "" {
				continue
			}
			files = append(files, filepath.Clean(entry))
		}
	}
	l.callback(files, "", l.exitCode)
}
