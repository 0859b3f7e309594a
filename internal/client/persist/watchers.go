package persist

import (
	"errors"
	"sync"
)

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("store is closed")

type watchers struct {
	mu     sync.Mutex
	next   int
	byKey  map[string]map[int]ChangeFunc
	closed bool
}

func (w *watchers) add(key string, fn ChangeFunc) (func(), error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrClosed
	}
	if w.byKey == nil {
		w.byKey = make(map[string]map[int]ChangeFunc)
	}
	if w.byKey[key] == nil {
		w.byKey[key] = make(map[int]ChangeFunc)
	}
	id := w.next
	w.next++
	w.byKey[key][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			delete(w.byKey[key], id)
			if len(w.byKey[key]) == 0 {
				delete(w.byKey, key)
			}
		})
	}, nil
}

// notify calls the watchers of key outside the lock so handlers may
// register or cancel watches themselves.
func (w *watchers) notify(key string, value []byte) {
	w.mu.Lock()
	fns := make([]ChangeFunc, 0, len(w.byKey[key]))
	for _, fn := range w.byKey[key] {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(cloneBytes(value))
	}
}

func (w *watchers) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.byKey = nil
}

func (w *watchers) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
