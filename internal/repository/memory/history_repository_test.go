package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"solemate-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesEmptyHistory(t *testing.T) {
	repo := NewHistoryRepository(0)

	turns, err := repo.Load(context.Background(), "s1")

	require.NoError(t, err)
	assert.NotNil(t, turns)
	assert.Empty(t, turns)
	assert.Equal(t, 1, repo.Count())
}

func TestAppendPreservesOrder(t *testing.T) {
	repo := NewHistoryRepository(0)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(ctx, "s1", store.UserTurn(fmt.Sprintf("msg %d", i))))
	}

	turns, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 5)
	for i, turn := range turns {
		assert.Equal(t, fmt.Sprintf("msg %d", i), turn.Content)
	}
}

func TestLoadReturnsCopy(t *testing.T) {
	repo := NewHistoryRepository(0)
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, "s1", store.UserTurn("original")))

	turns, _ := repo.Load(ctx, "s1")
	turns[0].Content = "mutated"

	again, _ := repo.Load(ctx, "s1")
	assert.Equal(t, "original", again[0].Content)
}

func TestDeleteResets(t *testing.T) {
	repo := NewHistoryRepository(0)
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, "s1", store.UserTurn("hi")))
	require.NoError(t, repo.Append(ctx, "s2", store.UserTurn("hey")))

	require.NoError(t, repo.Delete(ctx, "s1"))

	turns, _ := repo.Load(ctx, "s1")
	assert.Empty(t, turns)
	other, _ := repo.Load(ctx, "s2")
	assert.Len(t, other, 1)
}

func TestConcurrentAppendsAcrossSessions(t *testing.T) {
	repo := NewHistoryRepository(0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for s := 0; s < 8; s++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				_ = repo.Append(ctx, id, store.UserTurn("x"))
			}
		}(fmt.Sprintf("s%d", s))
	}
	wg.Wait()

	for s := 0; s < 8; s++ {
		turns, _ := repo.Load(ctx, fmt.Sprintf("s%d", s))
		assert.Len(t, turns, 20)
	}
}
