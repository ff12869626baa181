// Package store keeps the client-side copies of the API's collections.
//
// Each Collection mirrors one remote collection and carries its own
// loading and error status. Collections never call each other; keeping
// buildings, rooms and tenants consistent is the job of the forms.
package store

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/lalith-99/pgdesk/internal/api"
	"go.uber.org/zap"
)

// Entity is anything with a server-assigned id.
type Entity interface {
	GetID() string
}

// Remote is the slice of the API a Collection synchronizes with.
type Remote[T Entity] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, rec T) (T, error)
	Delete(ctx context.Context, id string) error
}

// State is a point-in-time copy of a Collection.
type State[T Entity] struct {
	Loading bool
	Err     string
	Items   []T
}

type Collection[T Entity] struct {
	name   string
	remote Remote[T]
	logger *zap.Logger

	mu      sync.RWMutex
	loading bool
	err     string
	items   []T
}

func NewCollection[T Entity](name string, remote Remote[T], logger *zap.Logger) *Collection[T] {
	return &Collection[T]{
		name:   name,
		remote: remote,
		logger: logger.With(zap.String("collection", name)),
		items:  []T{},
	}
}

func (c *Collection[T]) Name() string { return c.name }

func (c *Collection[T]) State() State[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State[T]{Loading: c.loading, Err: c.err, Items: slices.Clone(c.items)}
}

func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Find returns the record with the given id.
func (c *Collection[T]) Find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.GetID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Filter returns the records matching keep, in collection order.
func (c *Collection[T]) Filter(keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// FetchAll replaces the collection with the server's list, in the order
// the server returned it. On failure the previous items are kept and Err
// holds the message.
func (c *Collection[T]) FetchAll(ctx context.Context) error {
	c.begin()

	items, err := c.remote.List(ctx)
	if c.abandoned(ctx) {
		return ctx.Err()
	}
	if err != nil {
		c.fail("fetch", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	c.err = ""
	c.items = slices.Clone(items)
	if c.items == nil {
		c.items = []T{}
	}
	c.logger.Debug("collection refreshed", zap.Int("count", len(c.items)))
	return nil
}

// Create sends rec to the server and puts the stored record first.
func (c *Collection[T]) Create(ctx context.Context, rec T) (T, error) {
	c.begin()

	created, err := c.remote.Create(ctx, rec)
	if c.abandoned(ctx) {
		var zero T
		return zero, ctx.Err()
	}
	if err != nil {
		c.fail("create", err)
		var zero T
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	c.err = ""
	c.items = slices.Insert(c.items, 0, created)
	c.logger.Debug("record created", zap.String("id", created.GetID()))
	return created, nil
}

// Delete removes the record once the server has confirmed. Nothing is
// removed locally if the request fails.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.begin()

	err := c.remote.Delete(ctx, id)
	if c.abandoned(ctx) {
		return ctx.Err()
	}
	if err != nil {
		c.fail("delete", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	c.err = ""
	c.items = slices.DeleteFunc(c.items, func(it T) bool { return it.GetID() == id })
	c.logger.Debug("record deleted", zap.String("id", id))
	return nil
}

func (c *Collection[T]) begin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = true
	c.err = ""
}

func (c *Collection[T]) fail(op string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	c.err = api.Message(err)
	c.logger.Info("collection request failed", zap.String("op", op), zap.Error(err))
}

// abandoned reports whether the caller gave up on the request. Its result,
// if any, is dropped so a view that went away cannot change the state.
func (c *Collection[T]) abandoned(ctx context.Context) bool {
	err := ctx.Err()
	if err == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if errors.Is(err, context.DeadlineExceeded) {
		c.err = "Request timed out"
	}
	c.logger.Debug("dropping result of abandoned request", zap.Error(err))
	return true
}
