package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/spf13/cobra"

	"github.com/bitrise-steplib/steps-cucumber-junit/converter"
	"github.com/bitrise-steplib/steps-cucumber-junit/junit"
)

// Version information set at build time.
var version = "dev"

type options struct {
	strict        bool
	indent        int
	stream        bool
	encoding      string
	noDeclaration bool
	stripANSI     bool
	output        string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "cucumber-junit [report.json]",
		Short: "Convert a Cucumber JSON report into JUnit XML",
		Long: `cucumber-junit reads a Cucumber JSON report from the given file, or from
stdin when no file (or "-") is given, and writes the equivalent JUnit XML
report to stdout or to the --output file.`,
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.strict, "strict", false, "Report pending and undefined steps as failures")
	flags.IntVar(&opts.indent, "indent", len(junit.DefaultIndent), "Number of spaces used for indentation")
	flags.BoolVar(&opts.stream, "stream", false, "Write every testsuite as soon as its feature is converted")
	flags.StringVar(&opts.encoding, "encoding", "UTF-8", "Encoding named in the XML declaration")
	flags.BoolVar(&opts.noDeclaration, "no-declaration", false, "Omit the XML declaration")
	flags.BoolVar(&opts.stripANSI, "strip-ansi", false, "Remove ANSI escape sequences from failure messages")
	flags.StringVarP(&opts.output, "output", "o", "", "Write the JUnit report to this file instead of stdout")

	return cmd
}

func (o options) converterOptions() (converter.Options, error) {
	if o.indent < 1 {
		return converter.Options{}, fmt.Errorf("invalid indent (%d): must be at least 1", o.indent)
	}

	opts := converter.Options{
		Indent:    strings.Repeat(" ", o.indent),
		Strict:    o.strict,
		Stream:    o.stream,
		StripANSI: o.stripANSI,
	}
	if !o.noDeclaration {
		opts.Declaration = &junit.Declaration{Encoding: o.encoding}
	}

	return opts, nil
}

func runConvert(cmd *cobra.Command, args []string, o options) (err error) {
	convOpts, err := o.converterOptions()
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open Cucumber report: %w", err)
		}
		defer f.Close() //nolint:errcheck
		in = f
	}

	out := cmd.OutOrStdout()
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return fmt.Errorf("failed to create JUnit report: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		out = f
	}

	conv := converter.NewConverter(convOpts, log.NewLogger())

	stats, err := convert(conv, in, out, o.stream)
	if err != nil {
		return err
	}

	if o.output != "" {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d suite(s), %d test(s), %d failure(s), %d skipped\n",
			o.output, stats.Suites, stats.Tests, stats.Failures, stats.Skipped)
	}

	return nil
}

func convert(conv converter.Converter, in io.Reader, out io.Writer, stream bool) (converter.Stats, error) {
	if stream {
		return conv.Stream(in, out)
	}

	report, err := io.ReadAll(in)
	if err != nil {
		return converter.Stats{}, fmt.Errorf("failed to read Cucumber report: %w", err)
	}

	suites, err := conv.Build(report)
	if err != nil {
		return converter.Stats{}, err
	}

	xml, err := conv.Render(suites)
	if err != nil {
		return converter.Stats{}, err
	}

	if _, err := out.Write(xml); err != nil {
		return converter.Stats{}, fmt.Errorf("failed to write JUnit report: %w", err)
	}

	return converter.NewStats(suites), nil
}
