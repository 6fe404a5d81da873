package securestore

import "context"

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Batcher is implemented by stores that can write or delete several keys
// atomically.
type Batcher interface {
	SetAll(ctx context.Context, values map[string][]byte) error
	DeleteAll(ctx context.Context, keys ...string) error
}
