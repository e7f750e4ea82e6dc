package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/zizozako94-cmyk/soqdz/configs"
	"github.com/zizozako94-cmyk/soqdz/internal/adapter/cache"
	httpadapter "github.com/zizozako94-cmyk/soqdz/internal/adapter/http"
	"github.com/zizozako94-cmyk/soqdz/internal/adapter/http/middleware"
	"github.com/zizozako94-cmyk/soqdz/internal/adapter/queue"
	"github.com/zizozako94-cmyk/soqdz/internal/adapter/repo"
	"github.com/zizozako94-cmyk/soqdz/internal/logging"
	"github.com/zizozako94-cmyk/soqdz/internal/ratelimit"
	"github.com/zizozako94-cmyk/soqdz/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

// Run serves HTTP with the configured server timeouts.
func (a *App) Run(cfg configs.Config) error {
	srv := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      a.Router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}
	return srv.ListenAndServe()
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	log := logging.Init(cfg.App.Name, cfg.App.LogFile, cfg.App.LogLevel)

	// database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(ctx)
	cancel()
	if err != nil {
		return nil, nil, err
	}

	if cfg.MySQL.MigrationsDir != "" {
		if err := repo.RunMigrations(db, cfg.MySQL.MigrationsDir); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}

	// repos
	orderRepo := repo.NewMySQLOrderRepo(db)
	productRepo := repo.NewMySQLProductRepo(db)
	settingsRepo := repo.NewMySQLSettingsRepo(db)
	popupRepo := repo.NewMySQLSalesPopupRepo(db)
	adminRepo := repo.NewMySQLAdminUserRepo(db)

	cleanups := []func(){func() { _ = db.Close() }}
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// rate limiter: per-instance memory map by default, shared Redis
	// counters when the bound must hold across replicas
	var limiter ratelimit.Limiter
	if cfg.RateLimit.Store == "redis" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			cleanup()
			return nil, nil, err
		}
		cleanups = append(cleanups, func() { _ = rdb.Close() })
		limiter = cache.NewRedisLimiter(rdb, cfg.RateLimit.Window, cfg.RateLimit.MaxPerWindow)
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Window, cfg.RateLimit.MaxPerWindow, cfg.RateLimit.CleanupInterval)
	}

	// events: optional; without a broker orders still work, the sales
	// popup feed just stays admin-seeded
	var publisher usecase.OrderPublisher = queue.NopPublisher{}
	if cfg.Rabbit.URL != "" {
		conn, err := amqp.Dial(cfg.Rabbit.URL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		cleanups = append(cleanups, func() { _ = conn.Close() })

		ch, err := conn.Channel()
		if err != nil {
			cleanup()
			return nil, nil, err
		}

		producer, err := queue.NewRabbitProducer(ch)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		publisher = producer

		popupFeeder := queue.NewOrderCreatedHandler(popupRepo, productRepo)
		router := queue.NewRouter(ch, queue.WithPrefetch(10))
		router.Register("order.created.q", queue.JSONHandler[usecase.OrderCreatedMsg]{HandleFunc: popupFeeder.HandleCreate})
		if err := router.Start(); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	// handlers + router + middleware
	submitUC := usecase.NewSubmitOrder(orderRepo, publisher)
	oh := httpadapter.NewOrderHandler(submitUC)
	sh := httpadapter.NewStorefrontHandler(productRepo, settingsRepo, popupRepo)
	ah := httpadapter.NewAdminHandler(orderRepo, settingsRepo)
	lh := httpadapter.NewLoginHandler(cfg, adminRepo)
	authz := middleware.NewAuthz(cfg)
	router := httpadapter.NewRouter(oh, sh, ah, lh, authz, middleware.RateLimit(limiter), logging.New("http"))

	log.Info("starting up", "ratelimit_store", cfg.RateLimit.Store, "events", cfg.Rabbit.URL != "")

	return &App{Router: router}, cleanup, nil
}
