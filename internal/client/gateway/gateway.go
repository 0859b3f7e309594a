package gateway

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/client/models"
)

// Gateway is the storefront backend as seen by the client stores.
type Gateway interface {
	Products(ctx context.Context) ([]models.Product, error)

	Users(ctx context.Context) ([]models.UserRecord, error)
	CreateUser(ctx context.Context, u models.UserRecord) (models.UserRecord, error)
	UpdateUser(ctx context.Context, id models.ID, u models.UserRecord) (models.UserRecord, error)
	ChangePassword(ctx context.Context, id models.ID, current, next string) error
	Login(ctx context.Context, email, password string) (models.Identity, error)

	Orders(ctx context.Context) ([]models.Order, error)
	OrdersByUser(ctx context.Context, userID models.ID) ([]models.Order, error)
	CreateOrder(ctx context.Context, o models.Order) (models.Order, error)
	Order(ctx context.Context, id models.ID) (models.Order, error)

	// CancelOrder asks the backend to move the order to Cancelled. The
	// returned order is nil when the response carried no full order.
	CancelOrder(ctx context.Context, id models.ID) (*models.Order, error)
}
