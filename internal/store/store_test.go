package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndReadTurns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordTurn(ctx, "c1", RoleUser, "price of wheat in agra"))
	require.NoError(t, s.RecordTurn(ctx, "c1", RoleBot, "Which date are you interested in?"))
	require.NoError(t, s.RecordTurn(ctx, "c2", RoleUser, "unrelated"))

	turns, err := s.History(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, RoleUser, turns[0].Role)
	assert.Equal(t, "price of wheat in agra", turns[0].Content)
	assert.Equal(t, RoleBot, turns[1].Role)

	empty, err := s.History(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRecordAndReadQueries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordQuery(ctx, QueryRecord{
		ConversationID: "c1",
		Commodity:      "wheat",
		Area:           "agra",
		Date:           "2025-08-25",
		Source:         SourceLive,
		RowCount:       7,
	}))
	require.NoError(t, s.RecordQuery(ctx, QueryRecord{
		ConversationID: "c2",
		Commodity:      "onion",
		Area:           "lucknow",
		Date:           "2025-08-26",
		Source:         SourceSynthetic,
		RowCount:       2,
	}))

	records, err := s.RecentQueries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.NotEmpty(t, r.ID)
		assert.False(t, r.CreatedAt.IsZero())
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, s.RecordTurn(ctx, "c1", RoleUser, "hello"))
	require.NoError(t, s.Close())

	s, err = New(dir)
	require.NoError(t, err)
	defer s.Close()
	turns, err := s.History(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, turns, 1)
}
