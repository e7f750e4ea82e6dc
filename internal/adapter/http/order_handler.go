package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zizozako94-cmyk/soqdz/internal/logging"
	"github.com/zizozako94-cmyk/soqdz/internal/usecase"
)

// persistTimeout bounds the insert so a stuck database cannot hold the
// request for the platform's full request timeout.
const persistTimeout = 5 * time.Second

var (
	ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders accepted and persisted",
	})
	orderValidationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_validation_failures_total",
		Help: "Order submissions rejected by validation",
	})
)

type OrderHandler struct {
	submit *usecase.SubmitOrder
}

func NewOrderHandler(submit *usecase.SubmitOrder) *OrderHandler {
	return &OrderHandler{submit: submit}
}

type submitOrderReq struct {
	CustomerName  string   `json:"customer_name"`
	Phone         string   `json:"phone"`
	Wilaya        string   `json:"wilaya"`
	Commune       string   `json:"commune"`
	DeliveryType  string   `json:"delivery_type"`
	ProductID     *string  `json:"product_id"`
	ProductPrice  *float64 `json:"product_price"`
	DeliveryPrice *float64 `json:"delivery_price"`
	TotalPrice    *float64 `json:"total_price"`
}

// SubmitOrder handles the public order form. The rate-limit middleware has
// already consumed quota by the time this runs.
func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	var req submitOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), persistTimeout)
	defer cancel()

	out, err := h.submit.Execute(ctx, usecase.SubmitOrderInput{
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		Wilaya:        req.Wilaya,
		Commune:       req.Commune,
		DeliveryType:  req.DeliveryType,
		ProductID:     req.ProductID,
		ProductPrice:  req.ProductPrice,
		DeliveryPrice: req.DeliveryPrice,
		TotalPrice:    req.TotalPrice,
	})
	if err != nil {
		var verr *usecase.ValidationError
		if errors.As(err, &verr) {
			orderValidationFailures.Inc()
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Validation failed",
				"details": verr.Details,
			})
			return
		}
		// Internal detail stays in the log; the caller gets a generic
		// message.
		logging.From(c).Error("order persistence failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	ordersCreated.Inc()
	logging.From(c).Info("order created", "order_id", out.OrderID)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"orderId": out.OrderID,
	})
}
