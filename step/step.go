package step

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/kballard/go-shellquote"
	"golang.org/x/sync/errgroup"

	"github.com/bitrise-steplib/steps-cucumber-junit/converter"
	"github.com/bitrise-steplib/steps-cucumber-junit/junit"
	"github.com/bitrise-steplib/steps-cucumber-junit/output"
)

const defaultTestResultName = "cucumber"

// ErrTestFailures is returned by Run when fail_on_test_failure is set and a converted report has failures.
var ErrTestFailures = errors.New("cucumber reports contain failed test cases")

// Input ...
type Input struct {
	// Report Parameters
	ReportPaths string `env:"cucumber_report_paths,required"`
	OutputDir   string `env:"output_dir,required"`

	// Conversion Configs
	Strict              bool   `env:"strict,opt[yes,no]"`
	IndentWidth         int    `env:"indent_width,range[1..16]"`
	DeclarationEncoding string `env:"xml_declaration_encoding"`
	StripANSI           bool   `env:"strip_ansi,opt[yes,no]"`

	// Result Configs
	FailOnTestFailure bool   `env:"fail_on_test_failure,opt[yes,no]"`
	TestResultName    string `env:"test_result_name"`

	// Debug
	Verbose bool `env:"verbose,opt[yes,no]"`

	// Output export
	DeployDir string `env:"BITRISE_DEPLOY_DIR"`
}

// Config ...
type Config struct {
	ReportPatterns []string
	OutputDir      string

	ConverterOptions converter.Options

	FailOnTestFailure bool
	TestResultName    string

	DeployDir string
}

// PathModifier ...
type PathModifier interface {
	AbsPath(pth string) (string, error)
}

// CucumberJunitConfigParser ...
type CucumberJunitConfigParser struct {
	inputParser  stepconf.InputParser
	logger       log.Logger
	pathModifier PathModifier
}

// NewCucumberJunitConfigParser ...
func NewCucumberJunitConfigParser(inputParser stepconf.InputParser, logger log.Logger, pathModifier PathModifier) CucumberJunitConfigParser {
	return CucumberJunitConfigParser{
		inputParser:  inputParser,
		logger:       logger,
		pathModifier: pathModifier,
	}
}

// ProcessConfig ...
func (p CucumberJunitConfigParser) ProcessConfig() (Config, error) {
	var input Input
	if err := p.inputParser.Parse(&input); err != nil {
		return Config{}, err
	}

	stepconf.Print(input)
	p.logger.Println()

	p.logger.EnableDebugLog(input.Verbose)

	patterns, err := shellquote.Split(input.ReportPaths)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse Cucumber report paths (%s): %w", input.ReportPaths, err)
	}
	if len(patterns) == 0 {
		return Config{}, errors.New("no Cucumber report path provided (cucumber_report_paths)")
	}

	outputDir, err := p.pathModifier.AbsPath(input.OutputDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute output directory path: %w", err)
	}

	opts := converter.Options{
		Indent:    junit.DefaultIndent,
		Strict:    input.Strict,
		StripANSI: input.StripANSI,
	}
	if input.IndentWidth > 0 {
		opts.Indent = strings.Repeat(" ", input.IndentWidth)
	}
	if input.DeclarationEncoding != "" {
		opts.Declaration = &junit.Declaration{Encoding: input.DeclarationEncoding}
	}

	testResultName := input.TestResultName
	if testResultName == "" {
		testResultName = defaultTestResultName
	}

	return Config{
		ReportPatterns: patterns,
		OutputDir:      outputDir,

		ConverterOptions: opts,

		FailOnTestFailure: input.FailOnTestFailure,
		TestResultName:    testResultName,

		DeployDir: input.DeployDir,
	}, nil
}

// CucumberJunitStep ...
type CucumberJunitStep struct {
	logger         log.Logger
	fileManager    fileutil.FileManager
	outputExporter output.Exporter
}

// NewCucumberJunitStep ...
func NewCucumberJunitStep(logger log.Logger, fileManager fileutil.FileManager, outputExporter output.Exporter) CucumberJunitStep {
	return CucumberJunitStep{
		logger:         logger,
		fileManager:    fileManager,
		outputExporter: outputExporter,
	}
}

// ConvertedReport ...
type ConvertedReport struct {
	SourcePath string
	OutputPath string
	Stats      converter.Stats
}

// Result ...
type Result struct {
	Reports []ConvertedReport
	Stats   converter.Stats
	// RunFailed is set when a report could not be converted. Reports converted before the failure are kept.
	RunFailed bool

	TestResultName string
	DeployDir      string
}

// Failed reports whether the step outcome is a failure: a conversion error or a failed test case.
func (r Result) Failed() bool {
	return r.RunFailed || r.Stats.Failed()
}

// OutputPaths ...
func (r Result) OutputPaths() []string {
	paths := make([]string, 0, len(r.Reports))
	for _, report := range r.Reports {
		paths = append(paths, report.OutputPath)
	}
	return paths
}

// Run converts every report matching the configured patterns into the output directory.
// The returned Result is valid for Export even when an error is returned.
func (s CucumberJunitStep) Run(cfg Config) (Result, error) {
	result := Result{
		TestResultName: cfg.TestResultName,
		DeployDir:      cfg.DeployDir,
	}

	reportPaths, err := expandReportPatterns(cfg.ReportPatterns)
	if err != nil {
		result.RunFailed = true
		return result, err
	}
	if len(reportPaths) == 0 {
		result.RunFailed = true
		return result, fmt.Errorf("no Cucumber report found matching: %s", strings.Join(cfg.ReportPatterns, ", "))
	}

	s.logger.Infof("Converting %d Cucumber report(s)", len(reportPaths))

	outputPaths := outputPathsFor(cfg.OutputDir, reportPaths)
	converted := make([]*ConvertedReport, len(reportPaths))
	conv := converter.NewConverter(cfg.ConverterOptions, s.logger)

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())

	for i := range reportPaths {
		g.Go(func() error {
			report, err := s.convertReport(conv, reportPaths[i], outputPaths[i])
			if err != nil {
				return err
			}
			converted[i] = &report
			return nil
		})
	}
	runErr := g.Wait()

	for _, report := range converted {
		if report == nil {
			continue
		}
		s.logger.Printf("- %s -> %s", report.SourcePath, report.OutputPath)
		result.Reports = append(result.Reports, *report)
		result.Stats = result.Stats.Merge(report.Stats)
	}

	if len(result.Reports) > 0 {
		s.logger.Println()
		printSummary(s.logger, result)
	}

	if runErr != nil {
		result.RunFailed = true
		return result, runErr
	}

	if cfg.FailOnTestFailure && result.Stats.Failed() {
		return result, fmt.Errorf("%w: %d of %d test case(s) failed", ErrTestFailures, result.Stats.Failures, result.Stats.Tests)
	}

	return result, nil
}

func (s CucumberJunitStep) convertReport(conv converter.Converter, reportPath, outputPath string) (ConvertedReport, error) {
	content, err := s.readReport(reportPath)
	if err != nil {
		return ConvertedReport{}, fmt.Errorf("failed to read Cucumber report (%s): %w", reportPath, err)
	}

	suites, err := conv.Build(content)
	if err != nil {
		return ConvertedReport{}, fmt.Errorf("failed to convert Cucumber report (%s): %w", reportPath, err)
	}

	xml, err := conv.Render(suites)
	if err != nil {
		return ConvertedReport{}, fmt.Errorf("failed to render JUnit report (%s): %w", outputPath, err)
	}

	// Write creates the output directory if needed.
	if err := s.fileManager.Write(outputPath, string(xml), 0644); err != nil {
		return ConvertedReport{}, fmt.Errorf("failed to write JUnit report (%s): %w", outputPath, err)
	}

	return ConvertedReport{
		SourcePath: reportPath,
		OutputPath: outputPath,
		Stats:      converter.NewStats(suites),
	}, nil
}

func (s CucumberJunitStep) readReport(reportPath string) ([]byte, error) {
	f, err := s.fileManager.Open(reportPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warnf("Failed to close %s: %s", reportPath, err)
		}
	}()

	return io.ReadAll(f)
}

// Export ...
func (s CucumberJunitStep) Export(result Result) error {
	s.outputExporter.ExportTestRunResult(result.Failed())

	if len(result.Reports) == 0 {
		return nil
	}

	if err := s.outputExporter.ExportJunitReports(result.DeployDir, result.OutputPaths()); err != nil {
		return err
	}

	s.outputExporter.ExportTestResults(result.OutputPaths(), result.TestResultName)

	return nil
}

func expandReportPatterns(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var paths []string

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid report path pattern (%s): %w", pattern, err)
		}
		sort.Strings(matches)

		for _, match := range matches {
			abs, err := filepath.Abs(match)
			if err != nil {
				return nil, err
			}
			if seen[abs] {
				continue
			}
			seen[abs] = true
			paths = append(paths, abs)
		}
	}

	return paths, nil
}
