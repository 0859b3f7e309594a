package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/client/models"
)

// fakeGateway serves canned registries and records calls.
type fakeGateway struct {
	mu    sync.Mutex
	calls []string

	users  []models.UserRecord
	orders []models.Order

	usersErr  error
	ordersErr error
	loginErr  error
	createErr error
	cancelErr error
	passErr   error

	loginIdentity models.Identity
	cancelResult  *models.Order
	nextOrderID   int

	// beforeUsers runs inside Users before it returns; used to interleave
	// identity changes with an in-flight refresh.
	beforeUsers func()
	// beforeOrders runs once the order snapshot is taken, before it is
	// returned.
	beforeOrders func()
}

func (f *fakeGateway) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeGateway) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) Products(context.Context) ([]models.Product, error) {
	f.record("Products")
	return nil, nil
}

func (f *fakeGateway) Users(context.Context) ([]models.UserRecord, error) {
	f.record("Users")
	if f.beforeUsers != nil {
		f.beforeUsers()
	}
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return append([]models.UserRecord(nil), f.users...), nil
}

func (f *fakeGateway) CreateUser(_ context.Context, u models.UserRecord) (models.UserRecord, error) {
	f.record("CreateUser")
	if f.createErr != nil {
		return models.UserRecord{}, f.createErr
	}
	u.ID = "100"
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeGateway) UpdateUser(_ context.Context, id models.ID, u models.UserRecord) (models.UserRecord, error) {
	f.record("UpdateUser " + id.String())
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i] = u
		}
	}
	return u, nil
}

func (f *fakeGateway) ChangePassword(_ context.Context, id models.ID, _, _ string) error {
	f.record("ChangePassword " + id.String())
	return f.passErr
}

func (f *fakeGateway) Login(context.Context, string, string) (models.Identity, error) {
	f.record("Login")
	if f.loginErr != nil {
		return models.Identity{}, f.loginErr
	}
	return f.loginIdentity, nil
}

func (f *fakeGateway) Orders(context.Context) ([]models.Order, error) {
	f.record("Orders")
	if f.ordersErr != nil {
		return nil, f.ordersErr
	}
	out := append([]models.Order(nil), f.orders...)
	f.runBeforeOrders()
	return out, nil
}

func (f *fakeGateway) OrdersByUser(_ context.Context, id models.ID) ([]models.Order, error) {
	f.record("OrdersByUser " + id.String())
	if f.ordersErr != nil {
		return nil, f.ordersErr
	}
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == id {
			out = append(out, o)
		}
	}
	f.runBeforeOrders()
	return out, nil
}

func (f *fakeGateway) runBeforeOrders() {
	if hook := f.beforeOrders; hook != nil {
		f.beforeOrders = nil
		hook()
	}
}

func (f *fakeGateway) CreateOrder(_ context.Context, o models.Order) (models.Order, error) {
	f.record("CreateOrder")
	if f.createErr != nil {
		return models.Order{}, f.createErr
	}
	f.nextOrderID++
	o.ID = models.ID("o" + string(rune('0'+f.nextOrderID)))
	o.Status = models.StatusPending
	return o, nil
}

func (f *fakeGateway) Order(_ context.Context, id models.ID) (models.Order, error) {
	f.record("Order " + id.String())
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, errNotFound
}

func (f *fakeGateway) CancelOrder(_ context.Context, id models.ID) (*models.Order, error) {
	f.record("CancelOrder " + id.String())
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	return f.cancelResult, nil
}
