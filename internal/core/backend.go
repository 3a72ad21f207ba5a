package core

import (
	"bytes"
	"context"
	"errors"
	"io"

	"recipecards/internal/blob"
	blobcore "recipecards/internal/blob/core"
	"recipecards/pkg/domain"
)

// blobBackend adapts a blob.Store to the domain.Backend contract the
// record store persists through.
type blobBackend struct {
	store blob.Store
}

// NewBlobBackend wraps a blob store as a key→blob persistence backend.
func NewBlobBackend(store blob.Store) domain.Backend {
	return &blobBackend{store: store}
}

func (b *blobBackend) Load(ctx context.Context, key string) ([]byte, bool, error) {
	_, rc, err := b.store.Get(ctx, key)
	if errors.Is(err, blobcore.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = rc.Close() }()
	payload, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (b *blobBackend) Save(ctx context.Context, key string, payload []byte) error {
	_, err := b.store.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{ContentType: "application/json"})
	return err
}

func (b *blobBackend) Delete(ctx context.Context, key string) (bool, error) {
	return b.store.Delete(ctx, key)
}

func (b *blobBackend) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	infos, err := b.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(infos))
	for _, info := range infos {
		keys = append(keys, info.Key)
	}
	return keys, nil
}
