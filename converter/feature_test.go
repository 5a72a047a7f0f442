package converter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitrise-steplib/steps-cucumber-junit/cucumber"
	"github.com/bitrise-steplib/steps-cucumber-junit/junit"
)

func fixedClock() time.Time {
	return time.Date(2024, time.March, 5, 14, 7, 9, 0, time.FixedZone("CET", 3600))
}

func Test_GivenFeature_WhenConverting_ThenAggregatesScenarios(t *testing.T) {
	// Given
	feature := cucumber.Feature{
		Name: "F1",
		ID:   "f1",
		Tags: []cucumber.Tag{{Name: "@smoke"}},
		Elements: []cucumber.Scenario{
			{Name: "S1", Steps: []cucumber.Step{timedStep(cucumber.StatusPassed, "", 2000)}},
			{Name: "S2", Steps: []cucumber.Step{timedStep(cucumber.StatusFailed, "Error: no", 3000)}},
			{Name: "S3", Steps: []cucumber.Step{timedStep(cucumber.StatusSkipped, "", 0)}},
		},
	}

	// When
	suite, err := ConvertFeature(feature, Options{Clock: fixedClock})

	// Then
	require.NoError(t, err)
	assert.Equal(t, "F1", suite.Name)
	assert.Equal(t, "F1", suite.Package)
	assert.Equal(t, "f1", suite.ID)
	assert.Equal(t, "Tue, 05 Mar 2024 13:07:09 GMT", suite.Timestamp)
	assert.Equal(t, junit.Hostname, suite.Hostname)
	assert.Equal(t, 3, suite.Tests)
	assert.Equal(t, 1, suite.Failures)
	assert.Equal(t, 0, suite.Errors)
	assert.Equal(t, 5*time.Microsecond, suite.Duration)
	assert.Equal(t, []junit.Property{junit.TagProperty("@smoke")}, suite.Properties)

	require.Len(t, suite.TestCases, 3)
	assert.Equal(t, "S1", suite.TestCases[0].Name)
	assert.Equal(t, "S2", suite.TestCases[1].Name)
	assert.Equal(t, "S3", suite.TestCases[2].Name)

	var total time.Duration
	for _, testCase := range suite.TestCases {
		total += testCase.Duration
	}
	assert.Equal(t, total, suite.Duration)
}

func Test_GivenMockFeature_WhenConverting_ThenTimestampIsPlaceholder(t *testing.T) {
	suite, err := ConvertFeature(cucumber.Feature{Name: "F", Mock: true}, Options{Clock: fixedClock})

	require.NoError(t, err)
	assert.Equal(t, MockTimestamp, suite.Timestamp)
}

func Test_GivenFeatureWithoutScenarios_WhenConverting_ThenSuiteIsEmpty(t *testing.T) {
	suite, err := ConvertFeature(cucumber.Feature{Name: "F"}, Options{Clock: fixedClock})

	require.NoError(t, err)
	assert.Equal(t, 0, suite.Tests)
	assert.Empty(t, suite.TestCases)
	assert.Nil(t, suite.Properties)
}

func Test_GivenBrokenScenario_WhenConvertingFeature_ThenErrorNamesFeature(t *testing.T) {
	feature := cucumber.Feature{
		Name:     "Checkout",
		Elements: []cucumber.Scenario{{Name: "Pay", Steps: []cucumber.Step{timedStep("ambiguous", "", 0)}}},
	}

	_, err := ConvertFeature(feature, Options{})

	require.Error(t, err)
	assert.True(t, IsUnknownStatusError(err))
	assert.Contains(t, err.Error(), "Checkout")
}
