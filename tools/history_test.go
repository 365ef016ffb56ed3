package tools

import (
	"context"
	"testing"
	"time"

	"github.com/lexandro/quickfind/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticHistory []index.HistoryEntry

func (s staticHistory) History(limit int) ([]index.HistoryEntry, error) {
	if limit > 0 && limit < len(s) {
		return s[:limit], nil
	}
	return s, nil
}

func Test_HistoryHandler_ListsEntries(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h := &HistoryHandler{
		Store: staticHistory{
			{Term: "invoice", LastUsed: now.Add(-2 * time.Hour)},
			{Term: ".pdf", LastUsed: now.Add(-3 * 24 * time.Hour)},
		},
		Logger: discardLogger(),
		now:    func() time.Time { return now },
	}

	result, _, err := h.Handle(context.Background(), nil, HistoryArgs{})
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "2 recent searches:")
	assert.Contains(t, text, "invoice")
	assert.Contains(t, text, "2 hours ago")
	assert.Contains(t, text, "3 days ago")
}

func Test_HistoryHandler_Empty(t *testing.T) {
	h := &HistoryHandler{Store: newTestStore(t), Logger: discardLogger()}

	result, _, err := h.Handle(context.Background(), nil, HistoryArgs{})
	require.NoError(t, err)

	assert.Equal(t, "No search history.", resultText(t, result))
}

func Test_HistoryHandler_ClosedStore(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Close())
	h := &HistoryHandler{Store: store, Logger: discardLogger()}

	result, _, err := h.Handle(context.Background(), nil, HistoryArgs{})
	require.NoError(t, err)

	assert.True(t, result.IsError)
}
