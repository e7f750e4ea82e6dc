package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/zizozako94-cmyk/soqdz/internal/entity"
	"github.com/zizozako94-cmyk/soqdz/internal/usecase"
)

// OrderCreatedHandler turns real orders into entries of the landing page's
// sales-popup feed.
type OrderCreatedHandler struct {
	popups   usecase.SalesPopupRepo
	products usecase.ProductRepo
}

func NewOrderCreatedHandler(popups usecase.SalesPopupRepo, products usecase.ProductRepo) *OrderCreatedHandler {
	return &OrderCreatedHandler{popups: popups, products: products}
}

// HandleCreate is intended to be used with JSONHandler[usecase.OrderCreatedMsg].
func (h *OrderCreatedHandler) HandleCreate(ctx context.Context, msg usecase.OrderCreatedMsg) error {
	if msg.ProductID == "" {
		return nil // nothing to show without a product name
	}

	p, err := h.products.GetByID(ctx, msg.ProductID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return nil // product deleted since the order; skip, don't requeue
		}
		return fmt.Errorf("lookup product %s: %w", msg.ProductID, err)
	}

	return h.popups.Insert(ctx, entity.SalesPopup{
		CustomerName: msg.CustomerName,
		ProductName:  p.Name,
		Wilaya:       msg.Wilaya,
		IsActive:     true,
		IsFake:       false,
	})
}
