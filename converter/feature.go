package converter

import (
	"fmt"
	"net/http"

	"github.com/bitrise-steplib/steps-cucumber-junit/cucumber"
	"github.com/bitrise-steplib/steps-cucumber-junit/junit"
)

// MockTimestamp replaces the wall clock timestamp of mock features.
const MockTimestamp = "--"

// ConvertFeature builds the test suite of a feature, one test case per scenario.
func ConvertFeature(feature cucumber.Feature, opts Options) (junit.TestSuite, error) {
	suite := junit.TestSuite{
		Name:       feature.Name,
		Package:    feature.Name,
		ID:         feature.ID,
		Timestamp:  timestamp(feature, opts),
		Hostname:   junit.Hostname,
		Tests:      len(feature.Elements),
		Properties: tagProperties(feature.Tags),
		TestCases:  make([]junit.TestCase, 0, len(feature.Elements)),
	}

	for _, scenario := range feature.Elements {
		testCase, err := ConvertScenario(scenario, feature, opts)
		if err != nil {
			return junit.TestSuite{}, fmt.Errorf("feature (%s): %w", feature.Name, err)
		}

		suite.Duration += testCase.Duration
		if testCase.Failure != nil {
			suite.Failures++
		}
		suite.TestCases = append(suite.TestCases, testCase)
	}

	return suite, nil
}

func timestamp(feature cucumber.Feature, opts Options) string {
	if feature.Mock {
		return MockTimestamp
	}
	return opts.now().UTC().Format(http.TimeFormat)
}
