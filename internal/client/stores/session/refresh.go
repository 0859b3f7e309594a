package session

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/storefront/internal/client/models"
)

// Refresh reloads the user registry, reconciles the session identity with
// its record and then reloads the orders in the scope of the reconciled role:
// all orders for an administrator, the user's own orders otherwise, none
// when anonymous. On failure the registries are left as they were.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	gen := s.generation
	rev := s.ordersRev
	cached := cloneIdentity(s.current)
	s.refreshing = true
	s.mu.Unlock()

	users, err := s.gw.Users(ctx)
	if err != nil {
		return s.refreshFailed(ctx, gen, err)
	}

	scope := cached
	if cached != nil {
		if rec, ok := findUser(users, cached.ID); ok {
			if r, changed := Reconcile(*cached, rec); changed {
				scope = &r
			}
		}
	}

	var orders []models.Order
	if scope != nil {
		if models.IsAdmin(scope.Role) {
			orders, err = s.gw.Orders(ctx)
		} else {
			orders, err = s.gw.OrdersByUser(ctx, scope.ID)
		}
		if err != nil {
			return s.refreshFailed(ctx, gen, err)
		}
	}

	s.mu.Lock()
	if s.generation != gen {
		s.refreshing = false
		s.mu.Unlock()
		s.log.Debug(ctx, "discarding refresh started for a previous identity")
		return nil
	}
	s.users = users
	identityChanged := false
	if s.current != nil {
		if rec, ok := findUser(users, s.current.ID); ok {
			if r, changed := Reconcile(*s.current, rec); changed {
				s.current = &r
				identityChanged = true
			}
		}
	}
	if s.ordersRev != rev {
		orders = mergeOrders(orders, Visible(s.current, s.orders))
		s.log.Debug(ctx, "orders changed during refresh, merged local state")
	}
	s.orders = orders
	s.refreshing = false
	s.lastErr = nil
	s.mu.Unlock()

	if identityChanged {
		s.log.Info(ctx, "session identity reconciled with registry")
		s.persistIdentity(ctx)
	}
	return nil
}

func (s *Store) refreshFailed(ctx context.Context, gen uint64, err error) error {
	s.mu.Lock()
	s.refreshing = false
	if s.generation == gen {
		s.lastErr = err
	}
	s.mu.Unlock()
	s.log.Warn(ctx, "registry refresh failed", "error", err)
	return err
}

// mergeOrders applies local state committed while fetched was in flight.
// Orders missing from fetched were created locally and go first. A local
// cancellation wins over a fetched pending status since orders never leave
// Cancelled.
func mergeOrders(fetched, local []models.Order) []models.Order {
	out := make([]models.Order, 0, len(fetched)+len(local))
	for _, o := range local {
		if findOrder(fetched, o.ID) < 0 {
			out = append(out, o)
		}
	}
	for _, o := range fetched {
		if i := findOrder(local, o.ID); i >= 0 && local[i].Status == models.StatusCancelled && o.Status != models.StatusCancelled {
			o = local[i]
		}
		out = append(out, o)
	}
	return out
}

func findUser(users []models.UserRecord, id models.ID) (models.UserRecord, bool) {
	i := slices.IndexFunc(users, func(u models.UserRecord) bool { return u.ID == id })
	if i < 0 {
		return models.UserRecord{}, false
	}
	return users[i], true
}

func findOrder(orders []models.Order, id models.ID) int {
	return slices.IndexFunc(orders, func(o models.Order) bool { return o.ID == id })
}
