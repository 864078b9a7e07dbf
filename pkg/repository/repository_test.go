package repository

import (
	"context"
	"testing"

	"github.com/smallbiznis/nasiya/pkg/db/dbtest"
	"github.com/smallbiznis/nasiya/pkg/db/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kv struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

func TestStoreUpsertAndFind(t *testing.T) {
	ctx := context.Background()
	repo := ProvideStore[kv](dbtest.Open(t, &kv{}))

	require.NoError(t, repo.Upsert(ctx, &kv{Key: "b", Value: "1"}, "key", "value"))
	require.NoError(t, repo.Upsert(ctx, &kv{Key: "a", Value: "1"}, "key", "value"))
	require.NoError(t, repo.Upsert(ctx, &kv{Key: "b", Value: "2"}, "key", "value"))

	got, err := repo.FindOne(ctx, &kv{Key: "b"})
	require.NoError(t, err)
	assert.Equal(t, "2", got.Value)

	missing, err := repo.FindOne(ctx, &kv{Key: "zzz"})
	require.NoError(t, err)
	assert.Nil(t, missing)

	rows, err := repo.Find(ctx, nil, option.WithSortBy("key", false))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].Key)
}

func TestStoreUpsertWithoutColumnsKeepsExisting(t *testing.T) {
	ctx := context.Background()
	repo := ProvideStore[kv](dbtest.Open(t, &kv{}))

	require.NoError(t, repo.Upsert(ctx, &kv{Key: "a", Value: "first"}, "key"))
	require.NoError(t, repo.Upsert(ctx, &kv{Key: "a", Value: "second"}, "key"))

	got, err := repo.FindOne(ctx, &kv{Key: "a"})
	require.NoError(t, err)
	assert.Equal(t, "first", got.Value)
}
