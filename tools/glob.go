package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/quickfind/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Globber matches stored paths against a doublestar pattern.
type Globber interface {
	Glob(pattern string, maxResults int) ([]index.IndexedFile, error)
}

// GlobArgs defines the input parameters for the quickfind_glob tool.
type GlobArgs struct {
	Pattern    string `json:"pattern" jsonschema:"Glob pattern matched against absolute paths (e.g. **/*.pdf or /home/me/Projects/**/README.md)"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to return (default 50)"`
}

// GlobHandler holds the dependencies for the glob tool.
type GlobHandler struct {
	Store  Globber
	Logger *slog.Logger
}

// Handle processes a quickfind_glob request.
func (h *GlobHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args GlobArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Pattern == "" {
		h.Logger.Warn("quickfind_glob called with empty pattern")
		return errorResult("Error: pattern parameter is required"), nil, nil
	}

	files, err := h.Store.Glob(args.Pattern, args.MaxResults)
	if err != nil {
		h.Logger.Error("quickfind_glob failed", "pattern", args.Pattern, "error", err)
		return errorResult("Glob error: %v", err), nil, nil
	}

	h.Logger.Info("quickfind_glob",
		"pattern", args.Pattern,
		"results", len(files),
		"elapsed", time.Since(start),
	)

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return textResult(FormatPaths(paths, len(paths))), nil, nil
}
