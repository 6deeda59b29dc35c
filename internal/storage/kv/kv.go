// Package kv описывает key-value хранилище JSON-документов магазина.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Store описывает минимальный набор операций key-value хранилища
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
