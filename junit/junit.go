package junit

import (
	"strings"
	"time"
)

// Hostname is reported on every generated test suite.
const Hostname = "localhost"

// TestSuites is the root of the JUnit report.
type TestSuites struct {
	TestSuites []TestSuite
}

// TestSuite ...
type TestSuite struct {
	Name      string
	Package   string
	ID        string
	Timestamp string
	Hostname  string
	Tests     int
	Failures  int
	// Errors is always 0, errors and failures are not distinguished.
	Errors     int
	Duration   time.Duration
	Properties []Property
	TestCases  []TestCase

	placeholder bool
}

// EmptySuite returns the attribute-less suite written when a report has no features.
func EmptySuite() TestSuite {
	return TestSuite{placeholder: true}
}

// IsPlaceholder ...
func (s TestSuite) IsPlaceholder() bool {
	return s.placeholder
}

// Time is the value of the suite's time attribute.
func (s TestSuite) Time() float64 {
	return reportedTime(s.Duration)
}

// TestCase ...
type TestCase struct {
	Name       string
	Classname  string
	Duration   time.Duration
	Properties []Property
	Failure    *Failure
	Skipped    *Skipped
}

// Time is the value of the test case's time attribute.
func (c TestCase) Time() float64 {
	return reportedTime(c.Duration)
}

// Property ...
type Property struct {
	Name  string
	Value string
}

// TagProperty encodes a tag as a boolean property.
func TagProperty(tag string) Property {
	return Property{Name: tag, Value: "true"}
}

// Failure ...
type Failure struct {
	Message string
	Type    string
	Body    string
}

// NewFailure builds a Failure from an error text: the message is its first line,
// the type is its first whitespace delimited token and the body is the full text.
func NewFailure(text string) *Failure {
	message := text
	if idx := strings.IndexAny(message, "\r\n"); idx >= 0 {
		message = message[:idx]
	}

	var failureType string
	if fields := strings.Fields(text); len(fields) > 0 {
		failureType = fields[0]
	}

	return &Failure{
		Message: message,
		Type:    failureType,
		Body:    text,
	}
}

// Skipped ...
type Skipped struct {
	Message string
}

// reportedTime writes the summed step durations as nanoseconds / 1e6, so 2000ns is reported as 0.002.
func reportedTime(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}
