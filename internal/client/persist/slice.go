package persist

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/dmitrijs2005/storefront/internal/logging"
)

// Slice is a typed view of one key. Values that are absent, undecodable or
// rejected by the guard read as the default.
type Slice[T any] struct {
	store  Store
	key    string
	def    func() T
	guard  func(T) bool
	log    logging.Logger
	cancel func()
}

// NewSlice binds key of store to T. def produces the fallback value; guard,
// when non-nil, rejects decoded values of the wrong shape.
func NewSlice[T any](store Store, key string, def func() T, guard func(T) bool, log logging.Logger) *Slice[T] {
	if log == nil {
		log = logging.Nop()
	}
	return &Slice[T]{
		store: store,
		key:   key,
		def:   def,
		guard: guard,
		log:   log.With("key", key),
	}
}

// Load returns the stored value or the default.
func (s *Slice[T]) Load(ctx context.Context) T {
	raw, err := s.store.Get(ctx, s.key)
	if err != nil {
		s.log.Warn(ctx, "failed to read persisted value", "error", err)
		return s.def()
	}
	return s.decode(ctx, raw)
}

func (s *Slice[T]) decode(ctx context.Context, raw []byte) T {
	if len(raw) == 0 {
		return s.def()
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Warn(ctx, "discarding malformed persisted value", "error", err)
		return s.def()
	}
	if s.guard != nil && !s.guard(v) {
		s.log.Warn(ctx, "discarding persisted value of unexpected shape")
		return s.def()
	}
	return v
}

// Save writes v. Failures are logged and never returned: the in-memory value
// stays authoritative.
func (s *Slice[T]) Save(ctx context.Context, v T) {
	raw, err := json.Marshal(normalize(v))
	if err != nil {
		s.log.Error(ctx, "failed to encode value", "error", err)
		return
	}
	if err := s.store.Set(ctx, s.key, raw); err != nil {
		s.log.Warn(ctx, "failed to persist value", "error", err)
	}
}

// Clear removes the key.
func (s *Slice[T]) Clear(ctx context.Context) {
	if err := s.store.Delete(ctx, s.key); err != nil {
		s.log.Warn(ctx, "failed to delete persisted value", "error", err)
	}
}

// SubscribeExternal delivers every foreign change of the key to fn, decoded
// with the same default policy as Load. Only one subscription per Slice is
// kept; a second call replaces the first.
func (s *Slice[T]) SubscribeExternal(fn func(T)) error {
	cancel, err := s.store.Watch(s.key, func(raw []byte) {
		fn(s.decode(context.Background(), raw))
	})
	if err != nil {
		return err
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	return nil
}

// Unsubscribe cancels the external subscription, if any.
func (s *Slice[T]) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// normalize turns a nil slice into an empty one so it encodes as [] rather
// than null.
func normalize(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return reflect.MakeSlice(rv.Type(), 0, 0).Interface()
	}
	return v
}

// NonNil is a guard accepting any decoded slice except JSON null.
func NonNil[E any](v []E) bool { return v != nil }
