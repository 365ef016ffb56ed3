package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultMaxResults caps search output when the caller gives no limit.
const DefaultMaxResults = 50

// Querier runs the interactive search semantics against the index.
type Querier interface {
	Query(term string) ([]string, error)
	AddHistory(term string) error
}

// SearchArgs defines the input parameters for the quickfind_search tool.
type SearchArgs struct {
	Query      string `json:"query" jsonschema:"Search term. Whitespace-separated words must all appear in the path (case-insensitive). A term starting with a dot such as .pdf matches that file suffix"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of paths to return (default 50)"`
	Remember   bool   `json:"remember,omitempty" jsonschema:"If true record the term in the search history"`
}

// SearchHandler holds the dependencies for the search tool.
type SearchHandler struct {
	Store  Querier
	Logger *slog.Logger
}

// Handle processes a quickfind_search request.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Query == "" {
		h.Logger.Warn("quickfind_search called with empty query")
		return errorResult("Error: query parameter is required"), nil, nil
	}

	paths, err := h.Store.Query(args.Query)
	if err != nil {
		h.Logger.Error("quickfind_search failed", "query", args.Query, "error", err)
		return errorResult("Search error: %v", err), nil, nil
	}

	if args.Remember && len(paths) > 0 {
		if err := h.Store.AddHistory(args.Query); err != nil {
			h.Logger.Warn("failed to record history", "query", args.Query, "error", err)
		}
	}

	maxResults := args.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	total := len(paths)
	if total > maxResults {
		paths = paths[:maxResults]
	}

	h.Logger.Info("quickfind_search",
		"query", args.Query,
		"results", total,
		"elapsed", time.Since(start),
	)

	return textResult(FormatPaths(paths, total)), nil, nil
}
