package process

import "fmt"

// RequestType tags why a runner process was started.
type RequestType string

const (
	// WatchTests runs the runner's VCS-based watch mode.
	WatchTests RequestType = "watch-tests"
	// WatchAllTests runs watch mode over every file, the fallback when the
	// VCS-based mode is unavailable.
	WatchAllTests RequestType = "watch-all-tests"
	// AllTests runs the full suite once and exits.
	AllTests RequestType = "all-tests"
	// UpdateSnapshot re-runs the superseded request with snapshot updating.
	UpdateSnapshot RequestType = "update-snapshot"
	// ListTestFiles enumerates discoverable test files without running them.
	ListTestFiles RequestType = "list-test-files"
)

// Request describes one runner invocation. BaseRequest is set only for
// update-snapshot requests and records the request being superseded.
type Request struct {
	Type        RequestType
	BaseRequest *Request
}

// IsWatch reports whether the request keeps a persistent watcher alive.
func (r Request) IsWatch() bool {
	return r.Type == WatchTests || r.Type == WatchAllTests
}

// Args returns the runner arguments implied by the request type.
func (r Request) Args() []string {
	switch r.Type {
	case WatchTests:
		return []string{"--watch"}
	case WatchAllTests:
		return []string{"--watchAll"}
	case AllTests:
		return nil
	case UpdateSnapshot:
		// Snapshot updates run once, never in watch mode, regardless of the
		// request they supersede.
		return []string{"-u"}
	case ListTestFiles:
		return []string{"--listTests"}
	default:
		return nil
	}
}

func (r Request) String() string {
	if r.Type == UpdateSnapshot && r.BaseRequest != nil {
		return fmt.Sprintf("%s (superseding %s)", r.Type, r.BaseRequest.Type)
	}
	return string(r.Type)
}
