package converter

import (
	"time"

	"github.com/bitrise-steplib/steps-cucumber-junit/junit"
)

// Stats summarizes converted test suites.
type Stats struct {
	Suites   int
	Tests    int
	Failures int
	Skipped  int
	Duration time.Duration
}

// NewStats ...
func NewStats(report junit.TestSuites) Stats {
	var stats Stats
	for _, suite := range report.TestSuites {
		stats.add(suite)
	}
	return stats
}

// Merge ...
func (s Stats) Merge(other Stats) Stats {
	return Stats{
		Suites:   s.Suites + other.Suites,
		Tests:    s.Tests + other.Tests,
		Failures: s.Failures + other.Failures,
		Skipped:  s.Skipped + other.Skipped,
		Duration: s.Duration + other.Duration,
	}
}

// Passed is the number of tests neither failed nor skipped.
func (s Stats) Passed() int {
	return s.Tests - s.Failures - s.Skipped
}

// Failed ...
func (s Stats) Failed() bool {
	return s.Failures > 0
}

func (s *Stats) add(suite junit.TestSuite) {
	if suite.IsPlaceholder() {
		return
	}

	s.Suites++
	s.Tests += suite.Tests
	s.Failures += suite.Failures
	s.Duration += suite.Duration
	for _, testCase := range suite.TestCases {
		if testCase.Failure == nil && testCase.Skipped != nil {
			s.Skipped++
		}
	}
}
