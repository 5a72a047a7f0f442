package step

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-utils/colorstring"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/jedib0t/go-pretty/v6/table"
)

// outputPathsFor maps every report to <output dir>/<report name>.xml, numbering reports sharing the same name.
func outputPathsFor(outputDir string, reportPaths []string) []string {
	used := map[string]int{}
	paths := make([]string, 0, len(reportPaths))

	for _, reportPath := range reportPaths {
		base := filepath.Base(reportPath)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		if name == "" {
			name = "report"
		}

		used[name]++
		if n := used[name]; n > 1 {
			name = fmt.Sprintf("%s-%d", name, n)
		}

		paths = append(paths, filepath.Join(outputDir, name+".xml"))
	}

	return paths
}

func printSummary(logger log.Logger, result Result) {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Report", "Suites", "Tests", "Passed", "Failed", "Skipped", "Duration"})

	for _, report := range result.Reports {
		stats := report.Stats
		t.AppendRow(table.Row{
			filepath.Base(report.SourcePath),
			stats.Suites,
			stats.Tests,
			stats.Passed(),
			stats.Failures,
			stats.Skipped,
			stats.Duration.String(),
		})
	}

	total := result.Stats
	t.AppendFooter(table.Row{"Total", total.Suites, total.Tests, total.Passed(), total.Failures, total.Skipped, total.Duration.String()})

	logger.Infof("Summary")
	logger.Printf("%s", t.Render())
	logger.Println()

	if total.Failed() {
		logger.Printf("%s", colorstring.Red(fmt.Sprintf("%d of %d test case(s) failed", total.Failures, total.Tests)))
	} else {
		logger.Printf("%s", colorstring.Green(fmt.Sprintf("All %d test case(s) passed", total.Tests)))
	}
}
