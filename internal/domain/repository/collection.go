package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"logicode/internal/common"
	"logicode/internal/domain/model"
	"logicode/internal/store"
	"slices"

	"go.uber.org/zap"
)

// errUnchanged ends an update without writing and without failing.
var errUnchanged = errors.New("unchanged")

// collection is a JSON array of records stored under one key. Records that do
// not decode or fail validation are dropped on load, so the next write
// persists the repaired list.
type collection[T any] struct {
	store *store.Accessor
	key   string
	kind  string
	id    func(*T) string
	log   *zap.Logger
}

func newCollection[T any](s *store.Accessor, key, kind string, id func(*T) string, log *zap.Logger) collection[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return collection[T]{store: s, key: key, kind: kind, id: id, log: log.Named("repository")}
}

// load returns the records and whether the key held a readable array.
func (c *collection[T]) load(ctx context.Context) ([]T, bool, error) {
	raw, found, err := store.Read[[]json.RawMessage](ctx, c.store, c.key)
	if err != nil || !found {
		return nil, false, err
	}

	items := make([]T, 0, len(raw))
	for i, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			c.log.Warn("dropping undecodable record", zap.String("key", c.key), zap.Int("index", i), zap.Error(err))
			continue
		}
		if err := model.Validate(v); err != nil {
			c.log.Warn("dropping invalid record", zap.String("key", c.key), zap.Int("index", i), zap.Error(err))
			continue
		}
		items = append(items, v)
	}
	return items, true, nil
}

func (c *collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.store.Write(ctx, c.key, items)
}

// update runs a serialized load-modify-save cycle. fn returns the new list;
// returning an error leaves the stored list untouched.
func (c *collection[T]) update(ctx context.Context, fn func(items []T) ([]T, error)) error {
	return c.store.Mutate(func() error {
		items, _, err := c.load(ctx)
		if err != nil {
			return err
		}
		items, err = fn(items)
		if errors.Is(err, errUnchanged) {
			return nil
		}
		if err != nil {
			return err
		}
		return c.save(ctx, items)
	})
}

func (c *collection[T]) index(items []T, id string) int {
	return slices.IndexFunc(items, func(v T) bool { return c.id(&v) == id })
}

func (c *collection[T]) find(ctx context.Context, id string) (*T, error) {
	items, _, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	i := c.index(items, id)
	if i < 0 {
		return nil, c.notFound(id)
	}
	return &items[i], nil
}

func (c *collection[T]) insert(ctx context.Context, item T) error {
	return c.update(ctx, func(items []T) ([]T, error) {
		if c.index(items, c.id(&item)) >= 0 {
			return nil, fmt.Errorf("%s %s already exists: %w", c.kind, c.id(&item), common.ErrConflict)
		}
		return append(items, item), nil
	})
}

// replace swaps the record with the same id in place, keeping array order.
func (c *collection[T]) replace(ctx context.Context, item T) error {
	return c.update(ctx, func(items []T) ([]T, error) {
		i := c.index(items, c.id(&item))
		if i < 0 {
			return nil, c.notFound(c.id(&item))
		}
		items[i] = item
		return items, nil
	})
}

func (c *collection[T]) remove(ctx context.Context, id string) error {
	return c.update(ctx, func(items []T) ([]T, error) {
		i := c.index(items, id)
		if i < 0 {
			return nil, c.notFound(id)
		}
		return slices.Delete(items, i, i+1), nil
	})
}

func (c *collection[T]) notFound(id string) error {
	return fmt.Errorf("%s %s: %w", c.kind, id, common.ErrNotFound)
}
