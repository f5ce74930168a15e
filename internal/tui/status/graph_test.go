package status

import (
	"strings"
	"testing"

	"github.com/polarzero/runwatch/internal/results"
)

func samplePayload() *results.Payload {
	return &results.Payload{
		NumTotalTestSuites: 3,
		TestResults: []results.SuiteResult{
			{Name: "/src/b.test.js", Status: "failed", Message: "expected 2\n\nreceived 3"},
			{Name: "/src/a.test.js", Status: "passed"},
			{Name: "/src/c.test.js", Status: "failed", Message: ""},
		},
	}
}

func TestBuildSuiteLinesOrdersAndAnnotates(t *testing.T) {
	lines := buildSuiteLines(samplePayload(), false)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines (3 suites + 2 message lines), got %d: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "/src/a.test.js") {
		t.Fatalf("expected suites sorted by path, got %q first", lines[0])
	}
	if !strings.Contains(lines[2], "├─") || !strings.Contains(lines[3], "└─") {
		t.Fatalf("expected tree connectors under the failing suite, got %q / %q", lines[2], lines[3])
	}
}

func TestBuildSuiteLinesFailedOnly(t *testing.T) {
	lines := buildSuiteLines(samplePayload(), true)
	for _, line := range lines {
		if strings.Contains(line, "/src/a.test.js") {
			t.Fatalf("expected passing suite filtered out, got %v", lines)
		}
	}
}

func TestBuildSuiteLinesEmptyStates(t *testing.T) {
	if lines := buildSuiteLines(nil, false); len(lines) != 1 {
		t.Fatalf("expected placeholder for nil payload, got %v", lines)
	}
	passed := &results.Payload{TestResults: []results.SuiteResult{{Name: "/a", Status: "passed"}}}
	lines := buildSuiteLines(passed, true)
	if len(lines) != 1 || lines[0] != "No failing suites." {
		t.Fatalf("expected no-failures placeholder, got %v", lines)
	}
}

func TestMessageLinesCapsLongOutput(t *testing.T) {
	suite := results.SuiteResult{
		Name:    "/long.test.js",
		Status:  "failed",
		Message: strings.Repeat("line\n", 20),
	}
	lines := messageLines(suite)
	if len(lines) != 9 || lines[8] != "…" {
		t.Fatalf("expected 8 lines plus ellipsis, got %d: %v", len(lines), lines)
	}
}
