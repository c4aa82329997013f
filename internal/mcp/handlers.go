package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/screenlint/screenlint/pkg/contrast"
	"github.com/screenlint/screenlint/pkg/fetch"
	"github.com/screenlint/screenlint/pkg/imaging"
	"github.com/screenlint/screenlint/pkg/pipeline"
)

func (s *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	xmlSource := stringParam(params, "xml", "")
	imageSource := stringParam(params, "image", "")
	if xmlSource == "" {
		return mcp.NewToolResultError("xml parameter is required"), nil
	}
	if imageSource == "" {
		return mcp.NewToolResultError("image parameter is required"), nil
	}

	result, err := s.runner.Execute(ctx, pipeline.Options{
		XMLSource:     xmlSource,
		ImageSource:   imageSource,
		DetectRegions: boolParam(params, "regions", false),
		Refresh:       boolParam(params, "refresh", false),
		Logger:        s.logger,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(result.JSON)), nil
}

func (s *Server) handleContrast(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	imageSource := stringParam(params, "image", "")
	if imageSource == "" {
		return mcp.NewToolResultError("image parameter is required"), nil
	}

	data, err := s.fetcher.Fetch(ctx, imageSource)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	img, err := imaging.Decode(data)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	scan := contrast.NewScan(fetch.ImageName(imageSource), contrast.NewEngine().AnalyzeImage(img, true))
	out, err := json.Marshal(scan)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func stringParam(params map[string]any, key, def string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return def
}

func boolParam(params map[string]any, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}
