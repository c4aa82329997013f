package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/screenlint/screenlint/pkg/contrast"
	"github.com/screenlint/screenlint/pkg/detect"
	"github.com/screenlint/screenlint/pkg/errors"
	"github.com/screenlint/screenlint/pkg/fetch"
	"github.com/screenlint/screenlint/pkg/imaging"
	"github.com/screenlint/screenlint/pkg/layout"
	"github.com/screenlint/screenlint/pkg/render/hierarchy"
)

// treeCommand creates the hierarchy rendering command.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		output      string
		format      string
		imageSource string
	)

	cmd := &cobra.Command{
		Use:   "tree <hierarchy.xml>",
		Short: "Render the view hierarchy as a graph",
		Long: `Render the view hierarchy as a graph.

The tree command parses the serialized view hierarchy and renders its
parent-child structure with Graphviz. When --image is given, the full
analysis runs first and elements with issues are shaded by their worst
severity.

Formats: svg (default), png, dot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd.Context(), args[0], imageSource, format, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg (default), png, dot")
	cmd.Flags().StringVar(&imageSource, "image", "", "screenshot to analyze for issue highlighting")

	return cmd
}

// runTree parses the hierarchy and renders it in the requested format.
func (c *CLI) runTree(ctx context.Context, input, imageSource, format, output string) error {
	switch format {
	case "svg", "png", "dot":
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s (use svg, png, or dot)", format)
	}

	fetcher := fetch.New(nil, c.Logger.Debugf)
	data, err := fetcher.Fetch(ctx, input)
	if err != nil {
		return fmt.Errorf("fetch hierarchy: %w", err)
	}
	elements, err := layout.Parse(data, layout.Options{Logger: c.Logger.Warnf})
	if err != nil {
		return fmt.Errorf("parse hierarchy: %w", err)
	}

	var highlight map[int]string
	if imageSource != "" {
		imgData, err := fetcher.Fetch(ctx, imageSource)
		if err != nil {
			return fmt.Errorf("fetch image: %w", err)
		}
		img, err := imaging.Decode(imgData)
		if err != nil {
			return fmt.Errorf("decode image: %w", err)
		}
		issues := detect.Run(ctx, elements, img, contrast.NewEngine())
		highlight = issueHighlights(elements, issues)
	}

	dot := hierarchy.ToDOT(elements, highlight)

	spinner := newSpinnerWithContext(ctx, "Rendering hierarchy...")
	spinner.Start()

	var out []byte
	switch format {
	case "dot":
		out = []byte(dot)
	case "svg":
		out, err = hierarchy.RenderSVG(dot)
	case "png":
		out, err = hierarchy.RenderPNG(dot)
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render %s: %w", format, err)
	}
	if ctx.Err() != nil {
		spinner.Stop()
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		if strings.Contains(input, "://") {
			base = fetch.ImageName(input)
		}
		outputPath = base + "." + format
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		spinner.StopWithError("Write failed")
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	spinner.StopWithSuccess("Hierarchy rendered")

	printFile(outputPath)
	if highlight != nil {
		printDetail("%d elements, %d with issues", len(elements), len(highlight))
	} else {
		printDetail("%d elements", len(elements))
	}

	return nil
}

// issueHighlights maps element indices to the worst severity of any issue
// whose bounds match the element exactly. Contrast findings cover padded
// regions rather than elements and rarely match.
func issueHighlights(elements []layout.Element, issues []detect.Issue) map[int]string {
	highlight := make(map[int]string)
	for _, issue := range issues {
		if issue.Bounds == nil {
			continue
		}
		for i, el := range elements {
			if el.Bounds != *issue.Bounds {
				continue
			}
			if highlight[i] != detect.SeverityHigh {
				highlight[i] = issue.Severity
			}
		}
	}
	return highlight
}
