package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "brief.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndMessages(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	seq, err := s.Append(ctx, "c1", Record{Role: "user", Content: "Build me a brief"})
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	seq, err = s.Append(ctx, "c1", Record{Role: "assistant", Content: "Sure", AudioPath: "/tmp/a.ogg"})
	require.NoError(t, err)
	assert.Equal(t, 2, seq)

	got, err := s.Messages(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "user", got[0].Role)
	assert.Equal(t, "Build me a brief", got[0].Content)
	assert.Equal(t, "/tmp/a.ogg", got[1].AudioPath)
	assert.False(t, got[1].CreatedAt.IsZero())
}

func TestMessagesNotFound(t *testing.T) {
	s := openTest(t)

	_, err := s.Messages(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrderAndTitle(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.Append(ctx, "old", Record{Role: "assistant", Content: "Hi", CreatedAt: base})
	require.NoError(t, err)
	_, err = s.Append(ctx, "old", Record{Role: "user", Content: "  first   question  ", CreatedAt: base.Add(time.Second)})
	require.NoError(t, err)
	_, err = s.Append(ctx, "old", Record{Role: "user", Content: "second question", CreatedAt: base.Add(2 * time.Second)})
	require.NoError(t, err)
	_, err = s.Append(ctx, "new", Record{Role: "user", Content: strings.Repeat("long ", 30), CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)

	list, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "new", list[0].ID)
	assert.Len(t, []rune(list[0].Title), titleLen)
	assert.True(t, strings.HasSuffix(list[0].Title, "..."))

	assert.Equal(t, "old", list[1].ID)
	assert.Equal(t, "first question", list[1].Title)
	assert.Equal(t, 3, list[1].Messages)
	assert.Equal(t, base.UnixMilli(), list[1].CreatedAt.UnixMilli())
}

func TestDelete(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	_, err := s.Append(ctx, "c1", Record{Role: "user", Content: "x"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "c1"))
	_, err = s.Messages(ctx, "c1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "c1"), ErrNotFound)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brief.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Append(ctx, "c1", Record{Role: "user", Content: "persist me"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Messages(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "persist me", got[0].Content)
}
