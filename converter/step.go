package converter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/acarl005/stripansi"

	"github.com/bitrise-steplib/steps-cucumber-junit/cucumber"
	"github.com/bitrise-steplib/steps-cucumber-junit/junit"
)

const pendingMessage = "Pending"

// StepResult is the contribution of a single step to its test case.
// At most one of Failure and Skipped is set.
type StepResult struct {
	Duration time.Duration
	Failure  *junit.Failure
	Skipped  *junit.Skipped
}

// ConvertStep classifies a step result. The scenario is only used for error reporting.
func ConvertStep(step cucumber.Step, scenario cucumber.Scenario, opts Options) (StepResult, error) {
	result := StepResult{Duration: step.Result.DurationTime()}

	switch step.Result.Status {
	case cucumber.StatusPassed:
	case cucumber.StatusFailed:
		result.Failure = junit.NewFailure(errorMessage(step.Result, opts))
	case cucumber.StatusPending:
		if opts.Strict {
			result.Failure = junit.NewFailure(pendingMessage)
		} else {
			result.Skipped = &junit.Skipped{}
		}
	case cucumber.StatusUndefined:
		if opts.Strict {
			result.Failure = junit.NewFailure(undefinedStepSnippet(step))
		} else {
			result.Skipped = &junit.Skipped{}
		}
	case cucumber.StatusSkipped:
		result.Skipped = &junit.Skipped{}
	default:
		return StepResult{}, &UnknownStatusError{
			Status:   step.Result.Status,
			Step:     strings.TrimSpace(step.Keyword) + " " + step.Name,
			Scenario: scenario.Name,
		}
	}

	return result, nil
}

func errorMessage(result cucumber.Result, opts Options) string {
	if opts.StripANSI {
		return stripansi.Strip(result.ErrorMessage)
	}
	return result.ErrorMessage
}

func undefinedStepSnippet(step cucumber.Step) string {
	keyword := strings.TrimSpace(step.Keyword)
	pattern := "^" + strings.ReplaceAll(regexp.QuoteMeta(step.Name), "/", `\/`) + "$"

	return fmt.Sprintf(`Undefined step. Implement with the following snippet:

  this.%s(/%s/, function(callback) {
    // Write code here that turns the phrase above into concrete actions
    callback(null, 'pending');
  });`, keyword, pattern)
}
