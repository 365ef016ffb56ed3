package tools

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/lexandro/quickfind/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T, paths ...string) *index.Store {
	t.Helper()
	store, err := index.Open(filepath.Join(t.TempDir(), "db.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	for _, p := range paths {
		_, err := store.Insert(p)
		require.NoError(t, err)
	}
	return store
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}
