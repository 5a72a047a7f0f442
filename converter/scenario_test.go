package converter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitrise-steplib/steps-cucumber-junit/cucumber"
	"github.com/bitrise-steplib/steps-cucumber-junit/junit"
)

func Test_GivenPassingSteps_WhenConvertingScenario_ThenNoFailureNorSkip(t *testing.T) {
	// Given
	scenario := cucumber.Scenario{
		Name: "S1",
		Steps: []cucumber.Step{
			timedStep(cucumber.StatusPassed, "", 2000),
			timedStep(cucumber.StatusPassed, "", 3000),
		},
	}

	// When
	testCase, err := ConvertScenario(scenario, cucumber.Feature{Name: "F1"}, Options{})

	// Then
	require.NoError(t, err)
	assert.Equal(t, "S1", testCase.Name)
	assert.Equal(t, "F1", testCase.Classname)
	assert.Equal(t, 5*time.Microsecond, testCase.Duration)
	assert.Equal(t, 0.005, testCase.Time())
	assert.Nil(t, testCase.Failure)
	assert.Nil(t, testCase.Skipped)
	assert.Empty(t, testCase.Properties)
}

func Test_GivenScenarioTags_WhenConverting_ThenEachBecomesTrueProperty(t *testing.T) {
	// Given
	scenario := cucumber.Scenario{
		Name: "S1",
		Tags: []cucumber.Tag{{Name: "@b"}, {Name: "@a", Line: 4}, {Name: "@c"}},
	}

	// When
	testCase, err := ConvertScenario(scenario, cucumber.Feature{}, Options{})

	// Then
	require.NoError(t, err)
	assert.Equal(t, []junit.Property{
		{Name: "@b", Value: "true"},
		{Name: "@a", Value: "true"},
		{Name: "@c", Value: "true"},
	}, testCase.Properties)
}

func Test_GivenFailingStepFollowedBySkipped_WhenConverting_ThenOnlyFailureIsKept(t *testing.T) {
	// Given
	scenario := cucumber.Scenario{
		Name: "S1",
		Steps: []cucumber.Step{
			timedStep(cucumber.StatusPassed, "", 1000),
			timedStep(cucumber.StatusFailed, "TypeError: x is undefined", 1000),
			timedStep(cucumber.StatusSkipped, "", 0),
		},
	}

	// When
	testCase, err := ConvertScenario(scenario, cucumber.Feature{}, Options{})

	// Then
	require.NoError(t, err)
	require.NotNil(t, testCase.Failure)
	assert.Equal(t, "TypeError:", testCase.Failure.Type)
	assert.Nil(t, testCase.Skipped)
}

func Test_GivenSeveralFailingSteps_WhenConverting_ThenFirstFailureIsKept(t *testing.T) {
	// Given
	scenario := cucumber.Scenario{
		Steps: []cucumber.Step{
			timedStep(cucumber.StatusFailed, "First: boom", 0),
			timedStep(cucumber.StatusFailed, "Second: boom", 0),
		},
	}

	// When
	testCase, err := ConvertScenario(scenario, cucumber.Feature{}, Options{})

	// Then
	require.NoError(t, err)
	assert.Equal(t, junit.NewFailure("First: boom"), testCase.Failure)
}

func Test_GivenPendingStep_WhenTogglingStrict_ThenSkipOrFailure(t *testing.T) {
	// Given
	scenario := cucumber.Scenario{
		Steps: []cucumber.Step{
			timedStep(cucumber.StatusPassed, "", 0),
			timedStep(cucumber.StatusPending, "", 0),
		},
	}

	// When
	lenient, err := ConvertScenario(scenario, cucumber.Feature{}, Options{})
	require.NoError(t, err)
	strict, err := ConvertScenario(scenario, cucumber.Feature{}, Options{Strict: true})
	require.NoError(t, err)

	// Then
	assert.Nil(t, lenient.Failure)
	assert.Equal(t, &junit.Skipped{}, lenient.Skipped)

	assert.Equal(t, junit.NewFailure("Pending"), strict.Failure)
	assert.Nil(t, strict.Skipped)
}

func Test_GivenUnknownStatus_WhenConvertingScenario_ThenFails(t *testing.T) {
	scenario := cucumber.Scenario{Steps: []cucumber.Step{timedStep("flaky", "", 0)}}

	_, err := ConvertScenario(scenario, cucumber.Feature{}, Options{})

	assert.True(t, IsUnknownStatusError(err))
}

func timedStep(status cucumber.Status, errorMessage string, duration float64) cucumber.Step {
	s := step(status, errorMessage)
	s.Result.Duration = duration
	return s
}
