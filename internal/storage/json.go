package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/linemk/levelup-shop/internal/storage/kv"
)

// loadJSON читает документ по ключу. Отсутствующий или битый документ
// считается отсутствующим: found=false без ошибки.
func loadJSON(ctx context.Context, store kv.Store, key string, dst interface{}) (bool, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, nil
	}
	return true, nil
}

func saveJSON(ctx context.Context, store kv.Store, key string, src interface{}) error {
	payload, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return store.Set(ctx, key, string(payload))
}
