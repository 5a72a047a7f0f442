package output

import (
	"fmt"
	"path/filepath"

	"github.com/bitrise-io/bitrise/configs"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"

	"github.com/bitrise-steplib/steps-cucumber-junit/testaddon"
)

const (
	// TestResultKey holds the outcome of the converted test run: succeeded or failed.
	TestResultKey = "BITRISE_CUCUMBER_TEST_RESULT"
	// JunitXMLPathKey holds the path of the JUnit report when a single report was converted.
	JunitXMLPathKey = "BITRISE_CUCUMBER_JUNIT_XML_PATH"
	// JunitXMLZipPathKey holds the path of the zipped JUnit reports when several reports were converted.
	JunitXMLZipPathKey = "BITRISE_CUCUMBER_JUNIT_XML_ZIP_PATH"

	junitReportsZipName = "cucumber-junit-reports.zip"
)

// Exporter ...
type Exporter interface {
	ExportTestRunResult(failed bool)
	ExportJunitReports(deployDir string, reportPaths []string) error
	ExportTestResults(reportPaths []string, testName string)
}

// OutputExporter is implemented by *export.Exporter of go-steputils.
type OutputExporter interface {
	ExportOutputFile(key, sourcePath, destinationPath string) error
	ExportOutputFilesZip(key string, sourcePaths []string, zipPath string) error
}

type exporter struct {
	envRepository     env.Repository
	logger            log.Logger
	outputExporter    OutputExporter
	testAddonExporter testaddon.Exporter
}

// NewExporter ...
func NewExporter(envRepository env.Repository, logger log.Logger, outputExporter OutputExporter, testAddonExporter testaddon.Exporter) Exporter {
	return &exporter{
		envRepository:     envRepository,
		logger:            logger,
		outputExporter:    outputExporter,
		testAddonExporter: testAddonExporter,
	}
}

func (e exporter) ExportTestRunResult(failed bool) {
	status := "succeeded"
	if failed {
		status = "failed"
	}
	if err := e.envRepository.Set(TestResultKey, status); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", TestResultKey, err)
	}
}

func (e exporter) ExportJunitReports(deployDir string, reportPaths []string) error {
	if len(reportPaths) == 0 {
		return nil
	}
	if deployDir == "" {
		e.logger.Warnf("BITRISE_DEPLOY_DIR is not set, skipping JUnit report export")
		return nil
	}

	if len(reportPaths) == 1 {
		deployPth := filepath.Join(deployDir, filepath.Base(reportPaths[0]))
		if err := e.outputExporter.ExportOutputFile(JunitXMLPathKey, reportPaths[0], deployPth); err != nil {
			return fmt.Errorf("failed to export %s: %w", JunitXMLPathKey, err)
		}
		e.logger.Donef("%s: %s", JunitXMLPathKey, deployPth)
		return nil
	}

	zipPth := filepath.Join(deployDir, junitReportsZipName)
	if err := e.outputExporter.ExportOutputFilesZip(JunitXMLZipPathKey, reportPaths, zipPth); err != nil {
		return fmt.Errorf("failed to export %s: %w", JunitXMLZipPathKey, err)
	}
	e.logger.Donef("%s: %s", JunitXMLZipPathKey, zipPth)

	return nil
}

func (e exporter) ExportTestResults(reportPaths []string, testName string) {
	addonResultPath := e.envRepository.Get(configs.BitrisePerStepTestResultDirEnvKey)
	if len(addonResultPath) == 0 {
		e.logger.Debugf("%s is not set, skipping test result export", configs.BitrisePerStepTestResultDirEnvKey)
		return
	}

	e.logger.Println()
	e.logger.Infof("Exporting test results")

	if err := e.testAddonExporter.CopyAndSaveMetadata(testaddon.AddonCopy{
		SourceTestOutputPaths: reportPaths,
		TargetAddonPath:       addonResultPath,
		TargetAddonBundleName: testName,
	}); err != nil {
		e.logger.Warnf("Failed to export test results: %s", err)
	}
}
