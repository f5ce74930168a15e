package run

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/polarzero/runwatch/internal/process"
	"github.com/polarzero/runwatch/internal/results"
	"github.com/polarzero/runwatch/internal/runner"
)

type sessionStartedMsg struct {
	stream <-chan tea.Msg
	stop   func()
	sup    *process.Supervisor
	err    error
}

type eventMsg struct {
	ev runner.Event
}

type resultMsg struct {
	payload *results.Payload
}

type promptMsg struct {
	message string
	reply   chan<- bool
}

type listFilesMsg struct {
	files    []string
	errText  string
	exitCode *int
}

type streamClosedMsg struct{}

// startSessionCmd wires a supervisor and listener session, then schedules the
// initial request. Every runner event crosses into the program as a tea.Msg
// through one buffered stream channel; the stream closes once the supervisor
// loop has fully stopped.
func startSessionCmd(opts Options, initial process.Request) tea.Cmd {
	return func() tea.Msg {
		if opts.Settings == nil {
			return sessionStartedMsg{err: errors.New("run settings are required")}
		}

		stream := make(chan tea.Msg, 64)
		ctx, cancel := context.WithCancel(context.Background())
		push := func(msg tea.Msg) {
			select {
			case stream <- msg:
			case <-ctx.Done():
			}
		}

		session := &runner.Session{
			Workspace: opts.Settings.Workspace,
			Settings:  opts.Settings,
			Log:       opts.Log,
			Emit: func(ev runner.Event) {
				push(eventMsg{ev: ev})
			},
			Prompt: func(message string) bool {
				reply := make(chan bool, 1)
				select {
				case stream <- promptMsg{message: message, reply: reply}:
				case <-ctx.Done():
					return false
				}
				select {
				case answer := <-reply:
					return answer
				case <-ctx.Done():
					return false
				}
			},
		}

		sup := process.NewSupervisor(opts.Settings, opts.Log, func(req process.Request) process.Listener {
			if req.Type == process.ListTestFiles {
				return runner.NewListTestFilesListener(session, func(files []string, errText string, exitCode *int) {
					push(listFilesMsg{files: files, errText: errText, exitCode: exitCode})
				})
			}
			return &payloadTap{inner: runner.NewRunTestListener(session), push: push}
		})
		session.Schedule = sup.Schedule

		go func() {
			sup.Run(ctx)
			close(stream)
		}()
		sup.Schedule(initial)

		return sessionStartedMsg{stream: stream, stop: cancel, sup: sup}
	}
}

// payloadTap forwards every raw event to the wrapped listener and additionally
// surfaces parsed result payloads to the program, which the normalized event
// stream intentionally flattens to text.
type payloadTap struct {
	inner process.Listener
	push  func(tea.Msg)
}

func (t *payloadTap) OnEvent(h process.Handle, ev process.Event) {
	if data, ok := ev.(process.JSONData); ok && data.Result != nil {
		t.push(resultMsg{payload: data.Result})
	}
	t.inner.OnEvent(h, ev)
}

func listenStream(ch <-chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return msg
	}
}
