package persist

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Hub is the shared data of a group of MemoryStores, the in-memory analogue
// of one browser origin with several tabs open.
type Hub struct {
	mu     sync.Mutex
	data   map[string][]byte
	stores map[*MemoryStore]struct{}
}

func NewHub() *Hub {
	return &Hub{
		data:   make(map[string][]byte),
		stores: make(map[*MemoryStore]struct{}),
	}
}

// Open returns a new Store attached to the hub.
func (h *Hub) Open() *MemoryStore {
	s := &MemoryStore{hub: h, origin: uuid.NewString()}
	h.mu.Lock()
	h.stores[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// write stores value (nil deletes) and notifies every other open store after
// releasing the hub lock.
func (h *Hub) write(from *MemoryStore, key string, value []byte) {
	h.mu.Lock()
	if value == nil {
		delete(h.data, key)
	} else {
		h.data[key] = cloneBytes(value)
	}
	others := make([]*MemoryStore, 0, len(h.stores))
	for s := range h.stores {
		if s != from {
			others = append(others, s)
		}
	}
	h.mu.Unlock()

	for _, s := range others {
		s.w.notify(key, value)
	}
}

type MemoryStore struct {
	hub    *Hub
	origin string
	w      watchers
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.w.isClosed() {
		return nil, ErrClosed
	}
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	return cloneBytes(s.hub.data[key]), nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if s.w.isClosed() {
		return ErrClosed
	}
	if value == nil {
		value = []byte{}
	}
	s.hub.write(s, key, value)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if s.w.isClosed() {
		return ErrClosed
	}
	s.hub.write(s, key, nil)
	return nil
}

func (s *MemoryStore) Watch(key string, fn ChangeFunc) (func(), error) {
	return s.w.add(key, fn)
}

func (s *MemoryStore) Origin() string { return s.origin }

// Close detaches the store from its hub. Data written through it stays in
// the hub.
func (s *MemoryStore) Close() error {
	s.hub.mu.Lock()
	delete(s.hub.stores, s)
	s.hub.mu.Unlock()
	s.w.close()
	return nil
}
