package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zizozako94-cmyk/soqdz/internal/entity"
	"github.com/zizozako94-cmyk/soqdz/internal/logging"
	"github.com/zizozako94-cmyk/soqdz/internal/usecase"
)

const adminTimeout = 5 * time.Second

// AdminHandler backs the dashboard: order management plus delivery and store
// settings. Every route here sits behind the authz middleware.
type AdminHandler struct {
	orders   usecase.OrderRepo
	settings usecase.SettingsRepo
}

func NewAdminHandler(orders usecase.OrderRepo, settings usecase.SettingsRepo) *AdminHandler {
	return &AdminHandler{orders: orders, settings: settings}
}

func orderJSON(o *entity.Order) gin.H {
	return gin.H{
		"id":             o.ID,
		"customer_name":  o.CustomerName,
		"phone":          o.Phone,
		"wilaya":         o.Wilaya,
		"commune":        o.Commune,
		"delivery_type":  o.DeliveryType,
		"product_id":     o.ProductID,
		"product_price":  o.ProductPrice,
		"delivery_price": o.DeliveryPrice,
		"total_price":    o.TotalPrice,
		"status":         o.Status,
		"created_at":     o.CreatedAt,
		"updated_at":     o.UpdatedAt,
	}
}

// ListOrders returns orders newest first, optionally filtered by ?status=.
func (h *AdminHandler) ListOrders(c *gin.Context) {
	status := entity.Status(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be 1-500"})
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), adminTimeout)
	defer cancel()

	orders, err := h.orders.List(ctx, status, limit)
	if err != nil {
		logging.From(c).Error("order list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		out = append(out, orderJSON(&orders[i]))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

func (h *AdminHandler) GetOrder(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), adminTimeout)
	defer cancel()

	o, err := h.orders.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		logging.From(c).Error("order fetch failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, orderJSON(o))
}

type updateStatusReq struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus moves an order through its lifecycle
// (pending → confirmed → shipped → delivered, or cancelled).
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	to := entity.Status(req.Status)
	if !to.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), adminTimeout)
	defer cancel()

	id := c.Param("id")
	if err := h.orders.UpdateStatus(ctx, id, to); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		logging.From(c).Error("status update failed", "order_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	logging.From(c).Info("order status updated", "order_id", id, "status", to)
	c.JSON(http.StatusOK, gin.H{"id": id, "status": to})
}

func deliverySettingsJSON(s *entity.DeliverySettings) gin.H {
	return gin.H{
		"home_price":      s.HomePrice,
		"office_price":    s.OfficePrice,
		"whatsapp_number": s.WhatsappNumber,
		"updated_at":      s.UpdatedAt,
	}
}

func (h *AdminHandler) GetDeliverySettings(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), adminTimeout)
	defer cancel()

	s, err := h.settings.DeliverySettings(ctx)
	if err != nil {
		logging.From(c).Error("delivery settings fetch failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, deliverySettingsJSON(s))
}

type updateDeliveryReq struct {
	HomePrice      *float64 `json:"home_price" binding:"required"`
	OfficePrice    *float64 `json:"office_price" binding:"required"`
	WhatsappNumber string   `json:"whatsapp_number"`
}

func (h *AdminHandler) UpdateDeliverySettings(c *gin.Context) {
	var req updateDeliveryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if *req.HomePrice < 0 || *req.OfficePrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prices must be non-negative"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), adminTimeout)
	defer cancel()

	s, err := h.settings.UpdateDeliverySettings(ctx, entity.DeliverySettings{
		HomePrice:      *req.HomePrice,
		OfficePrice:    *req.OfficePrice,
		WhatsappNumber: req.WhatsappNumber,
	})
	if err != nil {
		logging.From(c).Error("delivery settings update failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, deliverySettingsJSON(s))
}

func storeSettingsJSON(s *entity.StoreSettings) gin.H {
	return gin.H{
		"about_us":               s.AboutUs,
		"phone":                  s.Phone,
		"email":                  s.Email,
		"address":                s.Address,
		"working_hours_weekdays": s.WorkingHoursWeekdays,
		"working_hours_friday":   s.WorkingHoursFriday,
		"updated_at":             s.UpdatedAt,
	}
}

func (h *AdminHandler) GetStoreSettings(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), adminTimeout)
	defer cancel()

	s, err := h.settings.StoreSettings(ctx)
	if err != nil {
		logging.From(c).Error("store settings fetch failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, storeSettingsJSON(s))
}

type updateStoreReq struct {
	AboutUs              string `json:"about_us"`
	Phone                string `json:"phone"`
	Email                string `json:"email"`
	Address              string `json:"address"`
	WorkingHoursWeekdays string `json:"working_hours_weekdays"`
	WorkingHoursFriday   string `json:"working_hours_friday"`
}

func (h *AdminHandler) UpdateStoreSettings(c *gin.Context) {
	var req updateStoreReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), adminTimeout)
	defer cancel()

	s, err := h.settings.UpdateStoreSettings(ctx, entity.StoreSettings{
		AboutUs:              req.AboutUs,
		Phone:                req.Phone,
		Email:                req.Email,
		Address:              req.Address,
		WorkingHoursWeekdays: req.WorkingHoursWeekdays,
		WorkingHoursFriday:   req.WorkingHoursFriday,
	})
	if err != nil {
		logging.From(c).Error("store settings update failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, storeSettingsJSON(s))
}
