package framework

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// TestID identifies a test or subtest by its path in the suite tree.
type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// TestResult is the outcome of a single test.
type TestResult struct {
	TestID     TestID
	Errors     []error
	Skipped    bool
	SkipReason string
}

// Results accumulates the outcomes of an entire suite run.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// PrintResults writes the end-of-run summary to standard output.
func PrintResults(results Results) {
	if results.OK() {
		color.Green("All tests passed (%d)", len(results.Tests))
		return
	}
	color.Red("%d tests failed (out of %d):", len(results.Failures), len(results.Tests))
	for _, f := range results.Failures {
		color.Red("  %s", f.TestID)
		for _, err := range f.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Printf("    %s\n", line)
			}
		}
	}
}
