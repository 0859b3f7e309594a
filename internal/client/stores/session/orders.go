package session

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/common"
)

// AddOrder places order on behalf of the session user and puts the created
// order first in the registry.
func (s *Store) AddOrder(ctx context.Context, order models.Order) (models.Order, error) {
	s.mu.Lock()
	cur := cloneIdentity(s.current)
	gen := s.generation
	s.mu.Unlock()

	if cur == nil {
		return models.Order{}, common.NewError(common.ErrAuthentication, "not logged in")
	}
	order.UserID = cur.ID

	created, err := s.gw.CreateOrder(ctx, order)
	if err != nil {
		return models.Order{}, err
	}

	s.mu.Lock()
	if s.generation == gen {
		s.orders = append([]models.Order{created}, s.orders...)
		s.ordersRev++
	}
	s.mu.Unlock()

	s.log.Info(ctx, "order created", "order_id", created.ID.String(), "total", created.Total.String())
	return created, nil
}

// CancelOrder moves an order to Cancelled. A locally known order that is
// not pending is refused without contacting the backend. When the backend
// answer does not carry the updated order, the local copy is marked
// cancelled.
func (s *Store) CancelOrder(ctx context.Context, id models.ID) (models.Order, error) {
	s.mu.Lock()
	if i := findOrder(s.orders, id); i >= 0 && !s.orders[i].Status.CanCancel() {
		status := s.orders[i].Status
		s.mu.Unlock()
		return models.Order{}, common.NewError(common.ErrInvalidTransition,
			fmt.Sprintf("order %s is %s and cannot be cancelled", id, status))
	}
	s.mu.Unlock()

	updated, err := s.gw.CancelOrder(ctx, id)
	if err != nil {
		return models.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := findOrder(s.orders, id)
	if i >= 0 {
		s.ordersRev++
	}
	switch {
	case updated != nil:
		if i >= 0 {
			s.orders[i] = *updated
		}
		return *updated, nil
	case i >= 0:
		s.orders[i].Status = models.StatusCancelled
		return s.orders[i], nil
	default:
		return models.Order{ID: id, Status: models.StatusCancelled}, nil
	}
}

// OrderDetail fetches one order. Orders the session may not see are
// reported as not found.
func (s *Store) OrderDetail(ctx context.Context, id models.ID) (models.Order, error) {
	o, err := s.gw.Order(ctx, id)
	if err != nil {
		return models.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(Visible(s.current, []models.Order{o})) == 0 {
		return models.Order{}, common.NewError(common.ErrNotFound, "order not found")
	}
	if i := findOrder(s.orders, o.ID); i >= 0 {
		s.orders[i] = o
		s.ordersRev++
	}
	return o, nil
}
