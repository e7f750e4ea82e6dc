package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zizozako94-cmyk/soqdz/internal/entity"
	"github.com/zizozako94-cmyk/soqdz/internal/logging"
	"github.com/zizozako94-cmyk/soqdz/internal/usecase"
)

const readTimeout = 2 * time.Second

// StorefrontHandler serves the unauthenticated reads the landing page needs:
// the product, delivery fees, and the sales-popup feed.
type StorefrontHandler struct {
	products usecase.ProductRepo
	settings usecase.SettingsRepo
	popups   usecase.SalesPopupRepo
}

func NewStorefrontHandler(products usecase.ProductRepo, settings usecase.SettingsRepo, popups usecase.SalesPopupRepo) *StorefrontHandler {
	return &StorefrontHandler{products: products, settings: settings, popups: popups}
}

func productJSON(p *entity.Product) gin.H {
	return gin.H{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"stock_count": p.StockCount,
		"features":    p.Features,
		"images":      p.Images,
	}
}

func (h *StorefrontHandler) GetProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readTimeout)
	defer cancel()

	p, err := h.products.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		logging.From(c).Error("product fetch failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, productJSON(p))
}

func (h *StorefrontHandler) GetDeliverySettings(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readTimeout)
	defer cancel()

	s, err := h.settings.DeliverySettings(ctx)
	if err != nil {
		logging.From(c).Error("delivery settings fetch failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"home_price":      s.HomePrice,
		"office_price":    s.OfficePrice,
		"whatsapp_number": s.WhatsappNumber,
	})
}

func (h *StorefrontHandler) ListSalesPopups(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readTimeout)
	defer cancel()

	popups, err := h.popups.ListActive(ctx, 20)
	if err != nil {
		logging.From(c).Error("sales popups fetch failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	out := make([]gin.H, 0, len(popups))
	for _, p := range popups {
		out = append(out, gin.H{
			"customer_name": p.CustomerName,
			"product_name":  p.ProductName,
			"wilaya":        p.Wilaya,
		})
	}
	c.JSON(http.StatusOK, gin.H{"popups": out})
}
