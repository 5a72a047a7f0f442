package main

import (
	"os"

	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-steputils/v2/stepenv"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/exitcode"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"

	"github.com/bitrise-steplib/steps-cucumber-junit/output"
	"github.com/bitrise-steplib/steps-cucumber-junit/step"
	"github.com/bitrise-steplib/steps-cucumber-junit/testaddon"
)

func main() {
	os.Exit(int(run()))
}

func run() exitcode.ExitCode {
	logger := log.NewLogger()

	configParser := createConfigParser(logger)
	config, err := configParser.ProcessConfig()
	if err != nil {
		logger.Errorf("Process config: %s", err)
		return exitcode.Failure
	}

	cucumberJunit := createStep(logger)

	result, runErr := cucumberJunit.Run(config)

	exportErr := cucumberJunit.Export(result)

	if runErr != nil {
		logger.Errorf("Run: %s", runErr)
		return exitcode.Failure
	}

	if exportErr != nil {
		logger.Errorf("Export outputs: %s", exportErr)
		return exitcode.Failure
	}

	return exitcode.Success
}

func createConfigParser(logger log.Logger) step.CucumberJunitConfigParser {
	envRepository := env.NewRepository()
	inputParser := stepconf.NewInputParser(envRepository)
	pathModifier := pathutil.NewPathModifier()

	return step.NewCucumberJunitConfigParser(inputParser, logger, pathModifier)
}

func createStep(logger log.Logger) step.CucumberJunitStep {
	envRepository := env.NewRepository()
	stepEnvRepository := stepenv.NewRepository(envRepository)
	cmdFactory := command.NewFactory(envRepository)
	fileManager := fileutil.NewFileManager()

	outputExporter := export.NewExporter(cmdFactory)
	testAddonExporter := testaddon.NewExporter(testaddon.NewTestAddon(logger, cmdFactory, fileManager))
	exporter := output.NewExporter(stepEnvRepository, logger, &outputExporter, testAddonExporter)

	return step.NewCucumberJunitStep(logger, fileManager, exporter)
}
