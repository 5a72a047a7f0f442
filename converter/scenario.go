package converter

import (
	"github.com/bitrise-steplib/steps-cucumber-junit/cucumber"
	"github.com/bitrise-steplib/steps-cucumber-junit/junit"
)

// ConvertScenario builds the test case of a scenario. Its duration is the sum of the step durations.
// The first failing step's failure is kept; a skipped marker is set only when no step failed.
func ConvertScenario(scenario cucumber.Scenario, feature cucumber.Feature, opts Options) (junit.TestCase, error) {
	testCase := junit.TestCase{
		Name:       scenario.Name,
		Classname:  feature.Name,
		Properties: tagProperties(scenario.Tags),
	}

	var skipped *junit.Skipped
	for _, step := range scenario.Steps {
		result, err := ConvertStep(step, scenario, opts)
		if err != nil {
			return junit.TestCase{}, err
		}

		testCase.Duration += result.Duration

		if result.Failure != nil && testCase.Failure == nil {
			testCase.Failure = result.Failure
		}
		if result.Skipped != nil && skipped == nil {
			skipped = result.Skipped
		}
	}

	if testCase.Failure == nil {
		testCase.Skipped = skipped
	}

	return testCase, nil
}

func tagProperties(tags []cucumber.Tag) []junit.Property {
	if len(tags) == 0 {
		return nil
	}

	properties := make([]junit.Property, 0, len(tags))
	for _, tag := range tags {
		properties = append(properties, junit.TagProperty(tag.Name))
	}
	return properties
}
