package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zizozako94-cmyk/soqdz/internal/adapter/http/middleware"
	"github.com/zizozako94-cmyk/soqdz/internal/logging"
)

func NewRouter(
	oh *OrderHandler,
	sh *StorefrontHandler,
	ah *AdminHandler,
	lh *LoginHandler,
	authz *middleware.Authz,
	rateLimit gin.HandlerFunc,
	log *slog.Logger,
) *gin.Engine {
	r := gin.New()
	// CORS runs first so even 429s and 404s carry the headers the browser
	// needs to read the response.
	r.Use(gin.Recovery(), middleware.CORS(), middleware.Metrics(), middleware.Logging(log))

	r.GET("/healthz", func(c *gin.Context) {
		logging.From(c).Debug("health check")
		c.JSON(200, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.POST("/orders", rateLimit, oh.SubmitOrder)

		v1.GET("/products/:id", sh.GetProduct)
		v1.GET("/delivery-settings", sh.GetDeliverySettings)
		v1.GET("/sales-popups", sh.ListSalesPopups)

		v1.POST("/admin/login", lh.Login)

		admin := v1.Group("/admin", authz.Require())
		{
			admin.GET("/orders", ah.ListOrders)
			admin.GET("/orders/:id", ah.GetOrder)
			admin.PATCH("/orders/:id/status", ah.UpdateOrderStatus)
			admin.GET("/settings/delivery", ah.GetDeliverySettings)
			admin.PUT("/settings/delivery", ah.UpdateDeliverySettings)
			admin.GET("/settings/store", ah.GetStoreSettings)
			admin.PUT("/settings/store", ah.UpdateStoreSettings)
		}
	}

	return r
}
