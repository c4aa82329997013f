package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/screenlint/screenlint/pkg/imaging"
	"github.com/screenlint/screenlint/pkg/pipeline"
)

// analyzeFlags holds the output options of the analyze command.
type analyzeFlags struct {
	output      string
	format      string
	pretty      bool
	noCache     bool
	markDir     string
	interactive bool
}

// analyzeCommand creates the analyze command, the main entry point.
func (c *CLI) analyzeCommand() *cobra.Command {
	var flags analyzeFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "analyze <hierarchy.xml> <screenshot>",
		Short: "Analyze a screen for accessibility issues",
		Long: `Analyze a screen for accessibility issues.

The analyze command parses the serialized view hierarchy, inspects the
screenshot, and reports defects grouped by category: interactive elements
without content descriptions, touch targets below the platform minimum,
text with insufficient color contrast, and heading structure problems.

Both inputs may be local file paths or HTTP(S) URLs. The report is written
to stdout as JSON unless --output or --format say otherwise; status output
goes to stderr so reports can be piped.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.XMLSource = args[0]
			opts.ImageSource = args[1]
			return c.runAnalyze(cmd.Context(), opts, flags)
		},
	}

	// Output flags
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", formatJSON, "output format: json (default), yaml")
	cmd.Flags().BoolVar(&flags.pretty, "pretty", false, "indent JSON output")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.interactive, "interactive", false, "browse issues in an interactive list")

	// Analysis flags
	cmd.Flags().BoolVar(&opts.DetectRegions, "regions", false, "scan auto-detected text regions for low contrast")
	cmd.Flags().BoolVar(&opts.Mark, "mark", false, "write marked screenshots, one per issue category")
	cmd.Flags().StringVar(&flags.markDir, "mark-dir", imaging.DefaultMarkDir, "directory for marked screenshots")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the cache and re-analyze")

	return cmd
}

// runAnalyze executes the analysis pipeline and writes the report.
func (c *CLI) runAnalyze(ctx context.Context, opts pipeline.Options, flags analyzeFlags) error {
	if err := validateFormat(flags.format); err != nil {
		return err
	}

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Analyzing screen...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Analysis failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	out, err := encodeDoc(result.Report, flags.format, flags.pretty)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := writeDoc(out, flags.output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if flags.output != "" {
		printSuccess("Report written")
		printFile(flags.output)
	}

	if opts.Mark && len(result.Marked) > 0 {
		if err := imaging.WriteAll(flags.markDir, result.Marked); err != nil {
			return fmt.Errorf("write marked screenshots: %w", err)
		}
		printSuccess("Marked %d categories", len(result.Marked))
		for _, name := range sortedKeys(result.Marked) {
			printFile(filepath.Join(flags.markDir, name))
		}
	}

	rep := result.Report
	if rep.TotalIssues > 0 {
		printWarning("%d accessibility issues found", rep.TotalIssues)
		printSummary(rep)
	} else {
		printSuccess("No accessibility issues found")
	}
	printScanStats(result.Stats.ElementCount, rep.TotalIssues, result.CacheInfo.ReportHit)

	if flags.interactive {
		return runIssueBrowser(rep)
	}

	if rep.TotalIssues > 0 && !opts.Mark {
		printNewline()
		printNextStep("Mark issues on the screenshot", fmt.Sprintf("%s analyze %s %s --mark", appName, opts.XMLSource, opts.ImageSource))
	}

	return nil
}

// sortedKeys returns map keys in lexical order for stable output.
func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
