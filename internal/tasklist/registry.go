package tasklist

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"todolists/internal/store"
)

// KeyPrefix marks the storage keys that hold task lists.
const KeyPrefix = "list-"

// Registry tracks every task list held by a backend.
type Registry struct {
	backend store.Store
	now     func() time.Time
	stores  map[string]*Store
	order   []string
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock sets the time source used to derive new list keys.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry creates an empty registry over backend.
func NewRegistry(backend store.Store, opts ...Option) *Registry {
	r := &Registry{
		backend: backend,
		now:     time.Now,
		stores:  make(map[string]*Store),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsListKey reports whether key names a task list.
func IsListKey(key string) bool {
	return strings.HasPrefix(key, KeyPrefix)
}

// LoadExisting opens one store per list key found in the backend,
// replacing anything the registry held before.
func (r *Registry) LoadExisting(ctx context.Context) error {
	keys, err := r.backend.Keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate lists: %w", err)
	}

	stores := make(map[string]*Store)
	order := make([]string, 0, len(keys))
	for _, key := range keys {
		if !IsListKey(key) {
			continue
		}
		s, err := Open(ctx, r.backend, key)
		if err != nil {
			return err
		}
		stores[key] = s
		order = append(order, key)
	}

	r.stores = stores
	r.order = order
	return nil
}

// CreateList creates and persists a new empty list with a fresh key.
func (r *Registry) CreateList(ctx context.Context) (*Store, error) {
	key, err := r.newKey(ctx)
	if err != nil {
		return nil, err
	}

	s := New(r.backend, key)
	if err := s.Persist(ctx); err != nil {
		return nil, err
	}

	r.stores[key] = s
	r.order = append(r.order, key)
	return s, nil
}

// newKey derives "list-<unix millis>", moving forward a millisecond at a
// time until the key is unused.
func (r *Registry) newKey(ctx context.Context) (string, error) {
	ms := r.now().UnixMilli()
	for {
		key := KeyPrefix + strconv.FormatInt(ms, 10)
		if _, taken := r.stores[key]; !taken {
			_, exists, err := r.backend.Get(ctx, key)
			if err != nil {
				return "", fmt.Errorf("failed to check list key %s: %w", key, err)
			}
			if !exists {
				return key, nil
			}
		}
		ms++
	}
}

// Get returns the list stored under key.
func (r *Registry) Get(key string) (*Store, error) {
	s, ok := r.stores[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrListNotFound, key)
	}
	return s, nil
}

// Lists returns every list in enumeration order.
func (r *Registry) Lists() []*Store {
	lists := make([]*Store, 0, len(r.order))
	for _, key := range r.order {
		lists = append(lists, r.stores[key])
	}
	return lists
}

// Keys returns the list keys in enumeration order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// DeleteList removes a list and its storage entry.
func (r *Registry) DeleteList(ctx context.Context, key string) error {
	s, err := r.Get(key)
	if err != nil {
		return err
	}

	if err := s.DeleteList(ctx); err != nil {
		return err
	}

	delete(r.stores, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
