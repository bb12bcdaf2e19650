package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-squad/internal/platform/resilience"
)

var errNoLoader = errors.New("cache: loader is required")

type item[V any] struct {
	value   V
	expires time.Time
	epoch   uint64
}

func (it item[V]) live(now time.Time) bool {
	return it.expires.IsZero() || now.Before(it.expires)
}

// Store is an in-process TTL cache keyed by string. A TTL <= 0 keeps entries
// until they are deleted. Each DeletePrefix bumps an epoch; loads that began
// under an older epoch return their value but do not store it.
type Store[V any] struct {
	ttl    time.Duration
	now    func() time.Time
	flight resilience.SingleFlight[V]

	mu    sync.RWMutex
	items map[string]item[V]
	epoch uint64
}

func NewStore[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]item[V]),
	}
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if ok && it.live(s.now()) {
		return it.value, true
	}
	var zero V
	return zero, false
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}
	s.mu.Lock()
	s.put(key, value, s.epoch)
	s.mu.Unlock()
}

// put stores value unless an invalidation happened after epoch. Callers hold s.mu.
func (s *Store[V]) put(key string, value V, epoch uint64) bool {
	if epoch != s.epoch {
		return false
	}
	it := item[V]{value: value, epoch: epoch}
	if s.ttl > 0 {
		it.expires = s.now().Add(s.ttl)
	}
	s.items[key] = it
	return true
}

// DeletePrefix drops every key starting with prefix and discards the result of
// any load still in flight.
func (s *Store[V]) DeletePrefix(_ context.Context, prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	for key := range s.items {
		if strings.HasPrefix(key, prefix) {
			delete(s.items, key)
			s.flight.Forget(key)
		}
	}
	if prefix != "" {
		s.flight.Forget(prefix)
	}
}

// Sweep removes expired entries and reports how many were dropped.
func (s *Store[V]) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for key, it := range s.items {
		if !it.live(now) {
			delete(s.items, key)
			dropped++
		}
	}
	return dropped
}

// GetOrLoad returns the cached value or runs loader once for all concurrent
// callers of key. Loader errors are returned and never cached.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	if loader == nil {
		var zero V
		return zero, errNoLoader
	}
	if key == "" {
		return loader(ctx)
	}
	if v, ok := s.Get(ctx, key); ok {
		return v, nil
	}

	s.mu.RLock()
	epoch := s.epoch
	s.mu.RUnlock()

	v, _, err := s.flight.Do(ctx, key, func() (V, error) {
		if v, ok := s.Get(ctx, key); ok {
			return v, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return loaded, err
		}
		s.mu.Lock()
		s.put(key, loaded, epoch)
		s.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v, nil
}
