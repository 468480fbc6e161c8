// Package memory keeps documents in process memory. It backs tests and
// STORE_BACKEND=memory for local development.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/yeremiapane/bakery-app/store"
)

type Collection[T store.Document] struct {
	mu        sync.RWMutex
	docs      map[string][]byte
	listeners store.Listeners[T]
}

func NewCollection[T store.Document]() *Collection[T] {
	return &Collection[T]{docs: make(map[string][]byte)}
}

func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listLocked()
}

func (c *Collection[T]) listLocked() ([]T, error) {
	ids := make([]string, 0, len(c.docs))
	for id := range c.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		var v T
		if err := json.Unmarshal(c.docs[id], &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", id, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var v T
	c.mu.RLock()
	raw, ok := c.docs[id]
	c.mu.RUnlock()
	if !ok {
		return v, store.ErrNotFound
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", id, err)
	}
	return v, nil
}

func (c *Collection[T]) Put(ctx context.Context, record T) error {
	id := record.DocumentID()
	if id == "" {
		return fmt.Errorf("document id is empty")
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.docs[id] = raw
	c.mu.Unlock()
	c.notify()
	return nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	if _, ok := c.docs[id]; !ok {
		c.mu.Unlock()
		return store.ErrNotFound
	}
	delete(c.docs, id)
	c.mu.Unlock()
	c.notify()
	return nil
}

func (c *Collection[T]) OnChange(fn func([]T)) func() {
	return c.listeners.Add(fn)
}

func (c *Collection[T]) notify() {
	if c.listeners.Len() == 0 {
		return
	}
	list, err := c.List(context.Background())
	if err != nil {
		return
	}
	c.listeners.Notify(list)
}

// KV is an in-memory store.KV.
type KV struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewKV() *KV {
	return &KV{values: make(map[string][]byte)}
}

func (k *KV) Load(ctx context.Context, key string, v any) error {
	k.mu.RLock()
	raw, ok := k.values[key]
	k.mu.RUnlock()
	if !ok {
		return store.ErrNotFound
	}
	return json.Unmarshal(raw, v)
}

func (k *KV) Save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	k.mu.Lock()
	k.values[key] = raw
	k.mu.Unlock()
	return nil
}

func (k *KV) Delete(ctx context.Context, key string) error {
	k.mu.Lock()
	delete(k.values, key)
	k.mu.Unlock()
	return nil
}
