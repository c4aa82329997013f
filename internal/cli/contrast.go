package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/screenlint/screenlint/pkg/contrast"
	"github.com/screenlint/screenlint/pkg/fetch"
	"github.com/screenlint/screenlint/pkg/imaging"
)

// contrastCommand creates the standalone contrast scan command.
func (c *CLI) contrastCommand() *cobra.Command {
	var (
		output  string
		format  string
		pretty  bool
		regions bool
	)

	cmd := &cobra.Command{
		Use:   "contrast <screenshot>",
		Short: "Scan a screenshot for low-contrast text",
		Long: `Scan a screenshot for text with insufficient color contrast.

The contrast command works on the image alone, without a view hierarchy.
By default the whole image is scanned as a single region. With --regions,
candidate text regions are detected first and each one is scanned
separately, which localizes findings at the cost of extra work.

Findings report the estimated foreground and background colors, the
contrast ratio, and WCAG-compliant replacement colors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runContrast(cmd.Context(), args[0], output, format, pretty, regions)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json (default), yaml")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	cmd.Flags().BoolVar(&regions, "regions", false, "scan auto-detected text regions instead of the whole image")

	return cmd
}

// runContrast fetches the image, scans it, and writes the findings.
func (c *CLI) runContrast(ctx context.Context, source, output, format string, pretty, regions bool) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	prog := newProgress(c.Logger)

	fetcher := fetch.New(nil, c.Logger.Debugf)
	data, err := fetcher.Fetch(ctx, source)
	if err != nil {
		return fmt.Errorf("fetch image: %w", err)
	}
	img, err := imaging.Decode(data)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	name := fetch.ImageName(source)
	scan := contrast.NewScan(name, contrast.NewEngine().AnalyzeImage(img, regions))
	prog.done(fmt.Sprintf("Scanned %s", name))

	out, err := encodeDoc(scan, format, pretty)
	if err != nil {
		return fmt.Errorf("encode findings: %w", err)
	}
	if err := writeDoc(out, output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if output != "" {
		printSuccess("Findings written")
		printFile(output)
	}

	if scan.Count > 0 {
		printWarning("%d low-contrast findings", scan.Count)
	} else {
		printSuccess("No contrast issues found")
	}

	return nil
}
