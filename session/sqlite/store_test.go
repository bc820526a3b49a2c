package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreLoadUnknown(t *testing.T) {
	s := newTestStore(t)
	h, found, err := s.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, h)
}

func TestStoreSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Save(ctx, "a", testutil.NewHistoryBuilder().User("hi").Assistant("hello").Build()))
	require.NoError(t, s.Save(ctx, "a", testutil.NewHistoryBuilder().User("hi").Assistant("hello").User("louder").Assistant("ok").Build()))

	h, found, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, h, 4)
	assert.Equal(t, core.NewUserMessage("louder"), h[2])
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.db")

	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "a", []core.Message{core.NewUserMessage("persisted")}))
	require.NoError(t, s.Close())

	s, err = NewStore(path)
	require.NoError(t, err)
	defer s.Close()
	h, found, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []core.Message{core.NewUserMessage("persisted")}, h)
}

func TestStorePrune(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, s.Save(ctx, "old", nil))
	s.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, s.Save(ctx, "new", nil))

	n, err := s.Prune(ctx, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, found, err := s.Load(ctx, "old")
	require.NoError(t, err)
	assert.False(t, found)
	h, found, err := s.Load(ctx, "new")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, h)
}
