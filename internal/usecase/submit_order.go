package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/zizozako94-cmyk/soqdz/internal/entity"
	"github.com/zizozako94-cmyk/soqdz/internal/logging"
)

// ValidationError carries every constraint violation found in a submission.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

type SubmitOrderOutput struct {
	OrderID string
}

// SubmitOrder creates exactly one pending order per successful call.
type SubmitOrder struct {
	orders OrderRepo
	events OrderPublisher
}

func NewSubmitOrder(orders OrderRepo, events OrderPublisher) *SubmitOrder {
	return &SubmitOrder{orders: orders, events: events}
}

func (uc *SubmitOrder) Execute(ctx context.Context, in SubmitOrderInput) (SubmitOrderOutput, error) {
	if details := ValidateSubmission(in); len(details) > 0 {
		return SubmitOrderOutput{}, &ValidationError{Details: details}
	}

	o := &entity.Order{
		ID:            uuid.NewString(),
		CustomerName:  in.CustomerName,
		Phone:         in.Phone,
		Wilaya:        in.Wilaya,
		Commune:       in.Commune,
		DeliveryType:  entity.DeliveryType(in.DeliveryType),
		ProductID:     in.ProductID,
		ProductPrice:  *in.ProductPrice,
		DeliveryPrice: *in.DeliveryPrice,
		TotalPrice:    *in.TotalPrice,
		Status:        entity.StatusPending,
	}
	if err := uc.orders.Create(ctx, o); err != nil {
		return SubmitOrderOutput{}, fmt.Errorf("create order: %w", err)
	}

	// Best effort: a lost event only means a missing sales popup, never a
	// lost order.
	msg := OrderCreatedMsg{
		OrderID:      o.ID,
		CustomerName: o.CustomerName,
		Wilaya:       o.Wilaya,
		TotalPrice:   o.TotalPrice,
	}
	if o.ProductID != nil {
		msg.ProductID = *o.ProductID
	}
	if err := uc.events.PublishCreated(ctx, msg); err != nil {
		logging.FromCtx(ctx).Warn("publish order.created failed", "order_id", o.ID, "error", err)
	}

	return SubmitOrderOutput{OrderID: o.ID}, nil
}
