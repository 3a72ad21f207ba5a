package domain

import "context"

// Backend is the minimal abstraction over durable key→blob storage the
// record store needs. Load reports absence through the second return value
// so callers can distinguish an empty section from an I/O failure.
type Backend interface {
	Load(ctx context.Context, key string) (payload []byte, ok bool, err error)
	Save(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) (bool, error)
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// UpdateCallback is the notification hook invoked after every successful
// mutation. The store awaits it before returning; a failing callback is the
// callback's own responsibility to contain.
type UpdateCallback func(ctx context.Context)
