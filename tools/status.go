package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lexandro/quickfind/filetype"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusSource reports the state of the index.
type StatusSource interface {
	Path() string
	Count() (int, error)
	LastIndexed() (time.Time, error)
	Each(fn func(path string) error) error
}

// StatusArgs defines the input parameters for the quickfind_status tool (none required).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Store     StatusSource
	Roots     []string
	StartTime time.Time
	Logger    *slog.Logger
}

// Handle processes a quickfind_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	count, err := h.Store.Count()
	if err != nil {
		h.Logger.Error("quickfind_status failed", "error", err)
		return errorResult("Status error: %v", err), nil, nil
	}
	last, err := h.Store.LastIndexed()
	if err != nil {
		h.Logger.Error("quickfind_status failed", "error", err)
		return errorResult("Status error: %v", err), nil, nil
	}
	kinds := filetype.Counter{}
	if err := h.Store.Each(kinds.Add); err != nil {
		h.Logger.Error("quickfind_status failed", "error", err)
		return errorResult("Status error: %v", err), nil, nil
	}
	uptime := time.Since(h.StartTime)

	h.Logger.Info("quickfind_status", "files", count, "uptime", uptime)

	var builder strings.Builder
	builder.WriteString("=== quickfind Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Database: %s\n", h.Store.Path()))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("Indexed files: %s\n", humanize.Comma(int64(count))))
	if last.IsZero() {
		builder.WriteString("Last indexed: never\n")
	} else {
		builder.WriteString(fmt.Sprintf("Last indexed: %s\n", humanize.Time(last)))
	}

	if len(h.Roots) > 0 {
		builder.WriteString("\nRoots:\n")
		for _, root := range h.Roots {
			builder.WriteString(fmt.Sprintf("  %s\n", root))
		}
	}

	if len(kinds) > 0 {
		builder.WriteString("\nFile types:\n")

		type kindEntry struct {
			kind  string
			count int
		}
		entries := make([]kindEntry, 0, len(kinds))
		for kind, n := range kinds {
			entries = append(entries, kindEntry{kind, n})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].count != entries[j].count {
				return entries[i].count > entries[j].count
			}
			return entries[i].kind < entries[j].kind
		})

		for _, entry := range entries {
			builder.WriteString(fmt.Sprintf("  %-20s %d files\n", entry.kind, entry.count))
		}
	}

	return textResult(builder.String()), nil, nil
}
