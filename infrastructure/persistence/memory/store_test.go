package memory_test

import (
	"context"
	"testing"

	"trevelo-backend/infrastructure/persistence/abstractions"
	"trevelo-backend/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	PK     string `dynamodbav:"PK"`
	SK     string `dynamodbav:"SK"`
	GSI1PK string `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK string `dynamodbav:"GSI1SK,omitempty"`
	Name   string `dynamodbav:"name"`
	Status string `dynamodbav:"status,omitempty"`
	Count  int    `dynamodbav:"count,omitempty"`
}

func TestPutAndGet(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	item := testItem{PK: "A#1", SK: "META", Name: "first", Count: 3}
	require.NoError(t, store.Put(ctx, item))

	var got testItem
	found, err := store.Get(ctx, abstractions.Key{PK: "A#1", SK: "META"}, &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, item, got)
}

func TestGetMissingRow(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	var got testItem
	found, err := store.Get(ctx, abstractions.Key{PK: "A#1", SK: "META"}, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPutOverwrites(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Put(ctx, testItem{PK: "A#1", SK: "META", Name: "first"}))
	require.NoError(t, store.Put(ctx, testItem{PK: "A#1", SK: "META", Name: "second"}))

	var got testItem
	found, err := store.Get(ctx, abstractions.Key{PK: "A#1", SK: "META"}, &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "second", got.Name)
}

func TestPutPair(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	first := testItem{PK: "G#1", SK: "METADATA", Name: "group"}
	second := testItem{PK: "G#1", SK: "MEMBER#u1", Name: "owner"}
	require.NoError(t, store.PutPair(ctx, first, second))

	var got testItem
	found, err := store.Get(ctx, abstractions.Key{PK: "G#1", SK: "METADATA"}, &got)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = store.Get(ctx, abstractions.Key{PK: "G#1", SK: "MEMBER#u1"}, &got)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	key := abstractions.Key{PK: "A#1", SK: "META"}

	t.Run("merges deltas and returns the new image", func(t *testing.T) {
		store := memory.NewStore()
		require.NoError(t, store.Put(ctx, testItem{PK: key.PK, SK: key.SK, Name: "x", Status: "queued"}))

		var got testItem
		err := store.Update(ctx, key, abstractions.Update{
			Set: map[string]interface{}{"status": "running", "count": 7},
		}, &got)
		require.NoError(t, err)
		assert.Equal(t, "running", got.Status)
		assert.Equal(t, 7, got.Count)
		assert.Equal(t, "x", got.Name)
	})

	t.Run("missing row is ErrNotFound", func(t *testing.T) {
		store := memory.NewStore()
		err := store.Update(ctx, key, abstractions.Update{
			Set: map[string]interface{}{"status": "running"},
		}, nil)
		assert.ErrorIs(t, err, abstractions.ErrNotFound)
	})

	t.Run("violated condition is ErrConditionFailed", func(t *testing.T) {
		store := memory.NewStore()
		require.NoError(t, store.Put(ctx, testItem{PK: key.PK, SK: key.SK, Status: "completed"}))

		err := store.Update(ctx, key, abstractions.Update{
			Set:       map[string]interface{}{"status": "running"},
			Condition: &abstractions.Condition{Attribute: "status", In: []string{"queued"}},
		}, nil)
		assert.ErrorIs(t, err, abstractions.ErrConditionFailed)
	})

	t.Run("satisfied condition applies", func(t *testing.T) {
		store := memory.NewStore()
		require.NoError(t, store.Put(ctx, testItem{PK: key.PK, SK: key.SK, Status: "queued"}))

		err := store.Update(ctx, key, abstractions.Update{
			Set:       map[string]interface{}{"status": "running"},
			Condition: &abstractions.Condition{Attribute: "status", In: []string{"queued"}},
		}, nil)
		assert.NoError(t, err)
	})
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	key := abstractions.Key{PK: "A#1", SK: "META"}

	require.NoError(t, store.Put(ctx, testItem{PK: key.PK, SK: key.SK, Name: "x"}))
	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key))

	var got testItem
	found, err := store.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestQueryPrefix(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Put(ctx, testItem{PK: "G#1", SK: "MEMBER#b", Name: "bee"}))
	require.NoError(t, store.Put(ctx, testItem{PK: "G#1", SK: "MEMBER#a", Name: "ay"}))
	require.NoError(t, store.Put(ctx, testItem{PK: "G#1", SK: "GTRIP#1", Name: "trip"}))
	require.NoError(t, store.Put(ctx, testItem{PK: "G#2", SK: "MEMBER#a", Name: "other group"}))

	var got []testItem
	require.NoError(t, store.QueryPrefix(ctx, "G#1", "MEMBER#", &got))
	require.Len(t, got, 2)
	assert.Equal(t, "ay", got[0].Name)
	assert.Equal(t, "bee", got[1].Name)
}

func TestQueryPrefixNoMatches(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	var got []testItem
	require.NoError(t, store.QueryPrefix(ctx, "G#1", "MEMBER#", &got))
	assert.Empty(t, got)
}

func TestQueryIndex(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Put(ctx, testItem{
		PK: "G#1", SK: "METADATA", GSI1PK: "INVITE#code1", GSI1SK: "INVITE#G#1", Name: "invited",
	}))
	require.NoError(t, store.Put(ctx, testItem{
		PK: "G#2", SK: "METADATA", GSI1PK: "INVITE#code2", GSI1SK: "INVITE#G#2", Name: "other",
	}))
	require.NoError(t, store.Put(ctx, testItem{PK: "G#3", SK: "METADATA", Name: "unprojected"}))

	var got []testItem
	require.NoError(t, store.QueryIndex(ctx, "GSIInvite", "INVITE#code1", "INVITE#", &got))
	require.Len(t, got, 1)
	assert.Equal(t, "invited", got[0].Name)
}
