package cucumber

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status ...
type Status string

// Step result statuses of the Cucumber JSON report.
const (
	StatusPassed    Status = "passed"
	StatusFailed    Status = "failed"
	StatusPending   Status = "pending"
	StatusUndefined Status = "undefined"
	StatusSkipped   Status = "skipped"
)

// Feature is the top level entry of a Cucumber JSON report.
type Feature struct {
	Name        string     `json:"name"`
	ID          string     `json:"id"`
	URI         string     `json:"uri,omitempty"`
	Keyword     string     `json:"keyword,omitempty"`
	Description string     `json:"description,omitempty"`
	Line        int        `json:"line,omitempty"`
	Tags        []Tag      `json:"tags,omitempty"`
	Elements    []Scenario `json:"elements,omitempty"`
	// Mock replaces the suite timestamp with a fixed placeholder.
	Mock bool `json:"mock,omitempty"`
}

// Scenario ...
type Scenario struct {
	Name        string `json:"name"`
	ID          string `json:"id"`
	Keyword     string `json:"keyword,omitempty"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Line        int    `json:"line,omitempty"`
	Tags        []Tag  `json:"tags,omitempty"`
	Steps       []Step `json:"steps,omitempty"`
}

// Step ...
type Step struct {
	Keyword string `json:"keyword"`
	Name    string `json:"name"`
	Line    int    `json:"line,omitempty"`
	Result  Result `json:"result"`
}

// Result ...
type Result struct {
	Status Status `json:"status"`
	// Duration is reported in nanoseconds, some formatters emit it as a float.
	Duration     float64 `json:"duration,omitempty"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

// DurationTime returns the step duration, zero when it was not reported.
func (r Result) DurationTime() time.Duration {
	if r.Duration <= 0 {
		return 0
	}
	return time.Duration(r.Duration)
}

// Tag is either a bare name (`"@smoke"`) or an object carrying a name
// (`{"name": "@smoke", "line": 3}`). Both forms decode into Tag and are read through Name.
type Tag struct {
	Name string `json:"name"`
	Line int    `json:"line,omitempty"`
}

// UnmarshalJSON ...
func (t *Tag) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*t = Tag{Name: name}
		return nil
	}

	type namedTag Tag
	var named namedTag
	if err := json.Unmarshal(data, &named); err != nil {
		return fmt.Errorf("tag should be a string or an object with a name: %w", err)
	}
	*t = Tag(named)
	return nil
}
