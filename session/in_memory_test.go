package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreLoadUnknown(t *testing.T) {
	s := NewInMemoryStore()
	h, found, err := s.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, h)
}

func TestInMemoryStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	require.NoError(t, s.Save(ctx, "a", testutil.NewHistoryBuilder().User("1").Assistant("2").Build()))
	require.NoError(t, s.Save(ctx, "a", testutil.NewHistoryBuilder().User("3").Build()))

	h, found, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []core.Message{core.NewUserMessage("3")}, h)
}

func TestInMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	in := testutil.NewHistoryBuilder().User("x").Build()
	require.NoError(t, s.Save(ctx, "a", in))
	in[0].Content = "mutated"

	out, _, _ := s.Load(ctx, "a")
	assert.Equal(t, "x", out[0].Content)
	out[0].Content = "mutated"

	again, _, _ := s.Load(ctx, "a")
	assert.Equal(t, "x", again[0].Content)
}

func TestInMemoryStoreEmptyHistoryIsFound(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	require.NoError(t, s.Save(ctx, "a", nil))

	h, found, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, h)

	require.NoError(t, s.Delete(ctx, "a"))
	assert.Equal(t, 0, s.Len())
}

func TestInMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i%5)
			_ = s.Save(ctx, id, []core.Message{core.NewUserMessage(id)})
			_, _, _ = s.Load(ctx, id)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 5, s.Len())
}
