package tools

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lexandro/quickfind/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FormatPaths formats matched paths as human-readable text. total is the
// number of matches before truncation.
func FormatPaths(paths []string, total int) string {
	if len(paths) == 0 {
		return "No files matched."
	}

	var builder strings.Builder
	if total > len(paths) {
		builder.WriteString(fmt.Sprintf("Found %d files (showing first %d):\n\n", total, len(paths)))
	} else {
		builder.WriteString(fmt.Sprintf("Found %d files:\n\n", len(paths)))
	}
	for _, p := range paths {
		builder.WriteString("  ")
		builder.WriteString(p)
		builder.WriteString("\n")
	}
	return builder.String()
}

// FormatHistory lists remembered search terms, most recent first.
func FormatHistory(entries []index.HistoryEntry, now time.Time) string {
	if len(entries) == 0 {
		return "No search history."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%d recent searches:\n\n", len(entries)))
	for _, e := range entries {
		builder.WriteString(fmt.Sprintf("  %-30s %s\n", e.Term, humanize.RelTime(e.LastUsed, now, "ago", "from now")))
	}
	return builder.String()
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
