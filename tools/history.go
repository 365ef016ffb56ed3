package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/quickfind/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// HistoryReader lists remembered search terms.
type HistoryReader interface {
	History(limit int) ([]index.HistoryEntry, error)
}

// HistoryArgs defines the input parameters for the quickfind_history tool.
type HistoryArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of terms to return (default 20)"`
}

// HistoryHandler holds the dependencies for the history tool.
type HistoryHandler struct {
	Store  HistoryReader
	Logger *slog.Logger
	now    func() time.Time
}

// Handle processes a quickfind_history request.
func (h *HistoryHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args HistoryArgs) (*mcp.CallToolResult, any, error) {
	entries, err := h.Store.History(args.Limit)
	if err != nil {
		h.Logger.Error("quickfind_history failed", "error", err)
		return errorResult("History error: %v", err), nil, nil
	}

	h.Logger.Info("quickfind_history", "entries", len(entries))

	now := time.Now
	if h.now != nil {
		now = h.now
	}
	return textResult(FormatHistory(entries, now())), nil, nil
}
