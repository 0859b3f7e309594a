package cart

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/client/persist"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/shopspring/decimal"
)

type Store struct {
	mu    sync.Mutex
	items []models.CartItem
	saved []models.CartItem

	// serialises persistence so the stored values follow mutation order;
	// never held while waiting for mu from a watcher callback
	writeMu sync.Mutex

	cartSlice  *persist.Slice[[]models.CartItem]
	savedSlice *persist.Slice[[]models.CartItem]
	log        logging.Logger
}

func emptyItems() []models.CartItem { return []models.CartItem{} }

// New loads the persisted cart and saved list from store and subscribes to
// changes made by other contexts.
func New(ctx context.Context, store persist.Store, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Nop()
	}
	log = log.With("component", "cart")

	s := &Store{
		cartSlice:  persist.NewSlice(store, persist.KeyCart, emptyItems, persist.NonNil[models.CartItem], log),
		savedSlice: persist.NewSlice(store, persist.KeySaved, emptyItems, persist.NonNil[models.CartItem], log),
		log:        log,
	}
	s.items = s.cartSlice.Load(ctx)
	s.saved = s.savedSlice.Load(ctx)

	if err := s.cartSlice.SubscribeExternal(s.replaceItems); err != nil {
		return nil, fmt.Errorf("subscribe cart: %w", err)
	}
	if err := s.savedSlice.SubscribeExternal(s.replaceSaved); err != nil {
		s.cartSlice.Unsubscribe()
		return nil, fmt.Errorf("subscribe saved items: %w", err)
	}
	return s, nil
}

func (s *Store) replaceItems(items []models.CartItem) {
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

func (s *Store) replaceSaved(items []models.CartItem) {
	s.mu.Lock()
	s.saved = items
	s.mu.Unlock()
}

// change reports which collections a mutation touched.
type change struct {
	cart, saved bool
}

// mutate applies fn to the current state and persists what it changed.
func (s *Store) mutate(ctx context.Context, fn func() change) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	c := fn()
	items := slices.Clone(s.items)
	saved := slices.Clone(s.saved)
	s.mu.Unlock()

	if c.cart {
		s.cartSlice.Save(ctx, items)
	}
	if c.saved {
		s.savedSlice.Save(ctx, saved)
	}
}

// Add puts quantity units of p into the cart, merging with an existing line
// of the same id. Products without a resolvable id are ignored. Adding an id
// that is currently saved for later drops the saved entry.
func (s *Store) Add(ctx context.Context, p models.Product, quantity int) {
	key := p.Key()
	if key.IsZero() {
		s.log.Debug(ctx, "ignoring product without id", "name", p.Name)
		return
	}
	p.ID = key
	line := models.CartItem{Product: p, Quantity: models.ClampQuantity(quantity)}

	s.mutate(ctx, func() change {
		s.items = merge(s.items, line)
		var c change
		c.cart = true
		if i := indexOf(s.saved, key); i >= 0 {
			s.saved = slices.Delete(s.saved, i, i+1)
			c.saved = true
		}
		return c
	})
}

// Remove drops the cart line with id.
func (s *Store) Remove(ctx context.Context, id models.ID) {
	s.mutate(ctx, func() change {
		i := indexOf(s.items, id)
		if i < 0 {
			return change{}
		}
		s.items = slices.Delete(s.items, i, i+1)
		return change{cart: true}
	})
}

// SetQuantity sets the quantity of the line with id, clamped to at least 1.
func (s *Store) SetQuantity(ctx context.Context, id models.ID, quantity int) {
	s.mutate(ctx, func() change {
		i := indexOf(s.items, id)
		if i < 0 {
			return change{}
		}
		s.items[i].Quantity = models.ClampQuantity(quantity)
		return change{cart: true}
	})
}

// Clear empties the cart and stores an explicit empty collection.
func (s *Store) Clear(ctx context.Context) {
	s.mutate(ctx, func() change {
		s.items = []models.CartItem{}
		return change{cart: true}
	})
}

// SaveForLater moves the line with id from the cart to the saved list,
// summing quantities if the id is already saved.
func (s *Store) SaveForLater(ctx context.Context, id models.ID) {
	s.mutate(ctx, func() change {
		i := indexOf(s.items, id)
		if i < 0 {
			return change{}
		}
		line := s.items[i]
		s.items = slices.Delete(s.items, i, i+1)
		s.saved = merge(s.saved, line)
		return change{cart: true, saved: true}
	})
}

// Restore moves the saved entry with id back into the cart.
func (s *Store) Restore(ctx context.Context, id models.ID) {
	s.mutate(ctx, func() change {
		i := indexOf(s.saved, id)
		if i < 0 {
			return change{}
		}
		line := s.saved[i]
		s.saved = slices.Delete(s.saved, i, i+1)
		s.items = merge(s.items, line)
		return change{cart: true, saved: true}
	})
}

// RemoveSaved drops the saved entry with id.
func (s *Store) RemoveSaved(ctx context.Context, id models.ID) {
	s.mutate(ctx, func() change {
		i := indexOf(s.saved, id)
		if i < 0 {
			return change{}
		}
		s.saved = slices.Delete(s.saved, i, i+1)
		return change{saved: true}
	})
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Saved returns a copy of the saved-for-later entries.
func (s *Store) Saved() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.saved)
}

// Count is the number of units in the cart.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// Total is the discount-aware cart value, computed on every call.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Total(s.items)
}

// Close stops following external changes.
func (s *Store) Close() {
	s.cartSlice.Unsubscribe()
	s.savedSlice.Unsubscribe()
}

func indexOf(items []models.CartItem, id models.ID) int {
	if id.IsZero() {
		return -1
	}
	return slices.IndexFunc(items, func(it models.CartItem) bool { return it.Key() == id })
}

// merge adds line to items, summing quantities when the id is present and
// appending otherwise. items is modified in place when possible.
func merge(items []models.CartItem, line models.CartItem) []models.CartItem {
	if i := indexOf(items, line.Key()); i >= 0 {
		items[i].Quantity += line.Quantity
		return items
	}
	return append(items, line)
}
