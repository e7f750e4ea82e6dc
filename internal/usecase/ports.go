package usecase

import (
	"context"
	"errors"

	"github.com/zizozako94-cmyk/soqdz/internal/entity"
)

var ErrNotFound = errors.New("not found")

type OrderRepo interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, status entity.Status, limit int) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id string, to entity.Status) error
}

type ProductRepo interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}

type SettingsRepo interface {
	DeliverySettings(ctx context.Context) (*entity.DeliverySettings, error)
	UpdateDeliverySettings(ctx context.Context, s entity.DeliverySettings) (*entity.DeliverySettings, error)
	StoreSettings(ctx context.Context) (*entity.StoreSettings, error)
	UpdateStoreSettings(ctx context.Context, s entity.StoreSettings) (*entity.StoreSettings, error)
}

type SalesPopupRepo interface {
	Insert(ctx context.Context, p entity.SalesPopup) error
	ListActive(ctx context.Context, limit int) ([]entity.SalesPopup, error)
}

type AdminUserRepo interface {
	GetByEmail(ctx context.Context, email string) (*entity.AdminUser, error)
}

// OrderCreatedMsg is the order.created event payload.
type OrderCreatedMsg struct {
	OrderID      string  `json:"order_id"`
	CustomerName string  `json:"customer_name"`
	Wilaya       string  `json:"wilaya"`
	ProductID    string  `json:"product_id,omitempty"`
	TotalPrice   float64 `json:"total_price"`
}

type OrderPublisher interface {
	PublishCreated(ctx context.Context, msg OrderCreatedMsg) error
}
