package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Payload models the aggregate JSON result object emitted by the runner's
// json reporter. Only the fields runwatch consumes are declared; unknown
// fields are ignored so reporter drift does not break parsing.
type Payload struct {
	NumTotalTestSuites  int             `json:"numTotalTestSuites"`
	NumPassedTestSuites int             `json:"numPassedTestSuites"`
	NumFailedTestSuites int             `json:"numFailedTestSuites"`
	NumTotalTests       int             `json:"numTotalTests"`
	NumPassedTests      int             `json:"numPassedTests"`
	NumFailedTests      int             `json:"numFailedTests"`
	NumPendingTests     int             `json:"numPendingTests"`
	Snapshot            SnapshotSummary `json:"snapshot"`
	Success             bool            `json:"success"`
	StartTime           int64           `json:"startTime"`
	TestResults         []SuiteResult   `json:"testResults"`
}

// SnapshotSummary carries the runner's per-run snapshot bookkeeping.
type SnapshotSummary struct {
	Added     int  `json:"added"`
	Matched   int  `json:"matched"`
	Unmatched int  `json:"unmatched"`
	Updated   int  `json:"updated"`
	DidUpdate bool `json:"didUpdate"`
	Failure   bool `json:"failure"`
}

// SuiteResult is the per-file slice of the payload.
type SuiteResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Parse decodes a runner result payload.
func Parse(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse runner result: %w", err)
	}
	return &p, nil
}

// LooksLikeResult reports whether a stdout line plausibly carries a result
// payload, cheap enough to call on every line.
func LooksLikeResult(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	return bytes.HasPrefix(trimmed, []byte("{")) &&
		bytes.Contains(trimmed, []byte(`"numTotalTestSuites"`))
}

// ParseFile decodes the result payload the runner wrote to disk, the file
// named by its "Test results written to" notice.
func ParseFile(path string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	return Parse(data)
}

// Summary renders a one-line human summary for data events and the TUI.
func (p *Payload) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d suites, %d tests: %d passed", p.NumTotalTestSuites, p.NumTotalTests, p.NumPassedTests)
	if p.NumFailedTests > 0 {
		fmt.Fprintf(&b, ", %d failed", p.NumFailedTests)
	}
	if p.NumPendingTests > 0 {
		fmt.Fprintf(&b, ", %d pending", p.NumPendingTests)
	}
	if p.Snapshot.Unmatched > 0 {
		fmt.Fprintf(&b, " (%d snapshot mismatches)", p.Snapshot.Unmatched)
	}
	return b.String()
}

// FailedSuites lists the names of suites that did not pass.
func (p *Payload) FailedSuites() []string {
	var failed []string
	for _, suite := range p.TestResults {
		if suite.Status != "" && suite.Status != "passed" {
			failed = append(failed, suite.Name)
		}
	}
	return failed
}
