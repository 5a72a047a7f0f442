package converter

import (
	"errors"
	"fmt"

	"github.com/bitrise-steplib/steps-cucumber-junit/cucumber"
)

// UnknownStatusError is returned for a step result status outside of
// passed, failed, pending, undefined and skipped.
type UnknownStatusError struct {
	Status   cucumber.Status
	Step     string
	Scenario string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown status (%s) of step (%s) in scenario (%s)", e.Status, e.Step, e.Scenario)
}

// IsUnknownStatusError checks if the error is or wraps an UnknownStatusError
func IsUnknownStatusError(err error) bool {
	var statusErr *UnknownStatusError
	return err != nil && errors.As(err, &statusErr)
}
