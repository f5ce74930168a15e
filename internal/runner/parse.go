package runner

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// The runner's json reporter writes machine-readable run markers to stderr,
// interleaved with human-readable diagnostics. Classification is a set of
// pure functions over chunk text so it stays testable without processes or
// timers.
var (
	runStartRe    = regexp.MustCompile(`(?im)onRunStart:?\s*numTotalTestSuites:\s*(\d+)`)
	runCompleteRe = regexp.MustCompile(`(?im)onRunComplete`)
	execErrorRe   = regexp.MustCompile(`(?im)onRunComplete:\s*execError:\s*(.+)`)

	// Lines the UI must never see: internal markers and reporter chatter.
	controlNoiseRe = regexp.MustCompile(`(?im)^(onRunStart|onRunComplete|Test results written to)[^\n]*\n?`)

	// Two alternative shapes of "VCS-based watch mode cannot run here".
	watchNotSupportedRe = regexp.MustCompile(`(?im)--watch is not supported without git/hg, please use --watchAll`)
	outsideRepositoryRe = regexp.MustCompile(`(?is)Test suite failed to run.*fatal:\s*Not a git repository`)

	snapshotFailureRe = regexp.MustCompile(`(?i)(snapshots?\s+failed)|(snapshot\s+test\s+failed)`)
)

// watchUsageMarker appears in the runner's live watch-mode key legend, which
// is noise for any consumer of the event stream.
const watchUsageMarker = "Watch Usage"

// ParseRunStart extracts the total suite count from a run-start marker.
func ParseRunStart(text string) (total int, ok bool) {
	m := runStartRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// HasRunComplete reports whether the text carries a run-complete marker.
func HasRunComplete(text string) bool {
	return runCompleteRe.MatchString(text)
}

// ExecError extracts the execError message attached to a run-complete marker.
func ExecError(text string) (string, bool) {
	m := execErrorRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// StripControlNoise removes marker and reporter-chatter lines from text that
// will be forwarded as ordinary output.
func StripControlNoise(text string) string {
	return controlNoiseRe.ReplaceAllString(text, "")
}

// IsWatchNotSupported reports whether the runner said its VCS-based watch
// mode cannot run in this tree, in either known phrasing.
func IsWatchNotSupported(text string) bool {
	return watchNotSupportedRe.MatchString(text) || outsideRepositoryRe.MatchString(text)
}

// HasSnapshotFailure reports whether the text indicates failed snapshots.
func HasSnapshotFailure(text string) bool {
	return snapshotFailureRe.MatchString(text)
}

// IsIgnorable marks text that should never be forwarded as a data event:
// blank chunks and the watch-mode usage legend. Marker detection still runs
// on the unfiltered text first.
func IsIgnorable(text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	return strings.Contains(text, watchUsageMarker)
}

// CleanANSI strips terminal control sequences, keeping the raw form for
// callers that need it.
func CleanANSI(text string) string {
	return ansi.Strip(text)
}
