package status

import (
	"fmt"
	"sort"
	"strings"

	"github.com/polarzero/runwatch/internal/results"
	"github.com/polarzero/runwatch/internal/tui/theme"
)

// buildSuiteLines renders one tree branch per suite, failure message lines
// attached as children. Suites are ordered by path for stable output.
func buildSuiteLines(p *results.Payload, failedOnly bool) []string {
	if p == nil || len(p.TestResults) == 0 {
		return []string{"No suites in this result file."}
	}

	suites := make([]results.SuiteResult, 0, len(p.TestResults))
	for _, suite := range p.TestResults {
		if failedOnly && suitePassed(suite) {
			continue
		}
		suites = append(suites, suite)
	}
	if len(suites) == 0 {
		return []string{"No failing suites."}
	}
	sort.Slice(suites, func(i, j int) bool { return suites[i].Name < suites[j].Name })

	var lines []string
	for _, suite := range suites {
		lines = append(lines, formatSuite(suite))
		children := messageLines(suite)
		for i, child := range children {
			connector := "├─ "
			if i == len(children)-1 {
				connector = "└─ "
			}
			lines = append(lines, "   "+connector+theme.HintStyle.Render(child))
		}
	}
	return lines
}

func suitePassed(s results.SuiteResult) bool {
	return s.Status == "" || s.Status == "passed"
}

func formatSuite(s results.SuiteResult) string {
	badge := theme.BadgePassed.Render("PASS")
	if !suitePassed(s) {
		badge = theme.BadgeFailed.Render("FAIL")
	}
	return fmt.Sprintf("%s %s", badge, s.Name)
}

// messageLines trims a suite failure message to its informative lines.
func messageLines(s results.SuiteResult) []string {
	if suitePassed(s) || strings.TrimSpace(s.Message) == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(s.Message, "\n") {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == 8 {
			lines = append(lines, "…")
			break
		}
	}
	return lines
}
