package cache

import (
	"context"
	"fmt"
)

// Loader is a typed read-through cache.
type Loader[T any] interface {
	GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error)
	Invalidate(ctx context.Context, prefix string) error
}

// Memory adapts a Store to Loader[T].
type Memory[T any] struct {
	store *Store
}

func NewMemory[T any](store *Store) *Memory[T] {
	return &Memory[T]{store: store}
}

func (m *Memory[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	value, err := m.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("cache key=%s holds %T", key, value)
	}
	return typed, nil
}

func (m *Memory[T]) Invalidate(ctx context.Context, prefix string) error {
	m.store.DeletePrefix(ctx, prefix)
	return nil
}
