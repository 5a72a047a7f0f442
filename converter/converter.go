package converter

import (
	"io"

	"github.com/bitrise-io/go-utils/v2/log"

	"github.com/bitrise-steplib/steps-cucumber-junit/cucumber"
	"github.com/bitrise-steplib/steps-cucumber-junit/junit"
)

// Converter turns Cucumber JSON reports into JUnit XML reports.
// It holds no state between calls, a single instance can be used concurrently.
type Converter struct {
	opts   Options
	logger log.Logger
}

// NewConverter ...
func NewConverter(opts Options, logger log.Logger) Converter {
	return Converter{
		opts:   opts,
		logger: logger,
	}
}

// Build parses the report and converts every feature, keeping their order.
// A report without features yields a single placeholder suite.
func (c Converter) Build(report []byte) (junit.TestSuites, error) {
	features, err := cucumber.Parse(report)
	if err != nil {
		return junit.TestSuites{}, err
	}

	suites := make([]junit.TestSuite, 0, len(features))
	for _, feature := range features {
		suite, err := c.convertFeature(feature)
		if err != nil {
			return junit.TestSuites{}, err
		}
		suites = append(suites, suite)
	}

	if len(suites) == 0 {
		c.logger.Debugf("No features found in the report")
		suites = append(suites, junit.EmptySuite())
	}

	return junit.TestSuites{TestSuites: suites}, nil
}

// Render serializes a converted report.
func (c Converter) Render(report junit.TestSuites) ([]byte, error) {
	return junit.Marshal(report, c.opts.encoderOptions())
}

// Convert parses, converts and serializes the report.
func (c Converter) Convert(report []byte) ([]byte, error) {
	suites, err := c.Build(report)
	if err != nil {
		return nil, err
	}
	return c.Render(suites)
}

// Stream converts the report read from r feature by feature, writing each suite to w
// as soon as it is converted. On error the output written so far is incomplete.
func (c Converter) Stream(r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats
	enc := junit.NewEncoder(w, c.opts.encoderOptions())

	if err := enc.Begin(); err != nil {
		return Stats{}, err
	}

	if err := cucumber.Decode(r, func(feature cucumber.Feature) error {
		suite, err := c.convertFeature(feature)
		if err != nil {
			return err
		}
		stats.add(suite)
		return enc.EncodeSuite(suite)
	}); err != nil {
		return Stats{}, err
	}

	if err := enc.End(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func (c Converter) convertFeature(feature cucumber.Feature) (junit.TestSuite, error) {
	suite, err := ConvertFeature(feature, c.opts)
	if err != nil {
		return junit.TestSuite{}, err
	}

	c.logger.Debugf("Converted feature (%s): %d scenarios, %d failed", feature.Name, suite.Tests, suite.Failures)

	return suite, nil
}
