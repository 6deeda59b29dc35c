package kv_test

import (
	"context"
	"testing"

	"github.com/linemk/levelup-shop/internal/storage/kv"
	"github.com/stretchr/testify/assert"
)

func TestMemoryStore(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	assert.NoError(t, store.Set(ctx, "key", "value"))
	value, err := store.Get(ctx, "key")
	assert.NoError(t, err)
	assert.Equal(t, "value", value)

	assert.NoError(t, store.Delete(ctx, "key"))
	_, err = store.Get(ctx, "key")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}
