package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReindexArgs defines the input parameters for the quickfind_reindex tool.
type ReindexArgs struct{}

// ReindexResult summarises one pass over all configured roots.
type ReindexResult struct {
	Roots   int
	Files   int
	Added   int
	Elapsed time.Duration
}

// ReindexFunc is the function signature for the reindex operation.
// It is provided by main.go to avoid circular dependencies.
type ReindexFunc func(ctx context.Context) (ReindexResult, error)

// ReindexHandler holds the dependencies for the reindex tool.
type ReindexHandler struct {
	DoReindex ReindexFunc
	Logger    *slog.Logger
}

// Handle processes a quickfind_reindex request.
func (h *ReindexHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReindexArgs) (*mcp.CallToolResult, any, error) {
	h.Logger.Info("quickfind_reindex started")

	res, err := h.DoReindex(ctx)
	if err != nil {
		h.Logger.Error("quickfind_reindex failed", "error", err)
		return errorResult("Reindex error: %v", err), nil, nil
	}

	h.Logger.Info("quickfind_reindex complete",
		"roots", res.Roots,
		"files", res.Files,
		"added", res.Added,
		"elapsed", res.Elapsed,
	)

	return textResult(formatReindex(res)), nil, nil
}

func formatReindex(res ReindexResult) string {
	return "Reindex complete: " + humanize.Comma(int64(res.Files)) + " files in " +
		humanize.Comma(int64(res.Roots)) + " roots (" + humanize.Comma(int64(res.Added)) +
		" new) in " + res.Elapsed.Round(time.Millisecond).String()
}
