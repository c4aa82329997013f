// Package hierarchy renders parsed view hierarchies as Graphviz
// diagrams, with issue severities highlighted per element.
package hierarchy

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/screenlint/screenlint/pkg/layout"
)

// severityFills maps issue severities to node fill colors.
var severityFills = map[string]string{
	"High":   "lightcoral",
	"Medium": "khaki",
}

// maxLabelText bounds how much element text appears in a node label.
const maxLabelText = 20

// ToDOT converts a parsed hierarchy to Graphviz DOT format. highlight
// maps element indexes to severities; highlighted nodes are filled
// according to their severity. The resulting DOT string can be
// rendered with [RenderSVG] or [RenderPNG].
func ToDOT(elements []layout.Element, highlight map[int]string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph hierarchy {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i, el := range elements {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(el))}
		if fill, ok := severityFills[highlight[i]]; ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", i, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i, el := range elements {
		if el.Parent >= 0 {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", el.Parent, i)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(el layout.Element) string {
	parts := []string{shortType(el.ElementType)}
	if el.ResourceID != "" {
		parts = append(parts, el.ResourceID)
	}
	if text := truncate(el.Text, maxLabelText); text != "" {
		parts = append(parts, fmt.Sprintf("%q", text))
	}
	if !el.Bounds.IsZero() {
		parts = append(parts, el.Bounds.String())
	}
	return strings.Join(parts, "\n")
}

// shortType strips the package prefix from an Android widget type,
// "android.widget.Button" becoming "Button".
func shortType(elementType string) string {
	if i := strings.LastIndex(elementType, "."); i >= 0 && i+1 < len(elementType) {
		return elementType[i+1:]
	}
	return elementType
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	svg, err := renderDOT(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderDOT(dot, graphviz.PNG)
}

func renderDOT(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the svg tag so the diagram scales cleanly
// when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
