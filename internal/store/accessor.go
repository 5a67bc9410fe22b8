package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Accessor reads and writes JSON documents on top of a KV backend.
// A document that fails to decode is reported as absent and logged; callers
// never see decode errors.
type Accessor struct {
	kv  KV
	log *zap.Logger
	mu  sync.Mutex
}

func NewAccessor(kv KV, log *zap.Logger) *Accessor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Accessor{kv: kv, log: log.Named("store")}
}

// Read decodes the document under key into a fresh T.
func Read[T any](ctx context.Context, a *Accessor, key string) (T, bool, error) {
	var zero T
	raw, found, err := a.kv.Get(ctx, key)
	if err != nil || !found {
		return zero, false, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		a.log.Warn("stored value is corrupt, treating as absent",
			zap.String("key", key), zap.Int("bytes", len(raw)), zap.Error(err))
		return zero, false, nil
	}
	return v, true, nil
}

func (a *Accessor) Write(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	return a.kv.Set(ctx, key, raw)
}

func (a *Accessor) Remove(ctx context.Context, key string) error {
	return a.kv.Delete(ctx, key)
}

// Clear removes every document of the namespace.
func (a *Accessor) Clear(ctx context.Context) error {
	return a.kv.Clear(ctx)
}

// Exists reports whether key holds a value, decodable or not.
func (a *Accessor) Exists(ctx context.Context, key string) (bool, error) {
	_, found, err := a.kv.Get(ctx, key)
	return found, err
}

// Mutate runs fn with exclusive access to read-modify-write cycles. It is not
// reentrant: fn must not call Mutate.
func (a *Accessor) Mutate(fn func() error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn()
}
