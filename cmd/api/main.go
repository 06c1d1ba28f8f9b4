package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/calderagroup/procuremart-backend/api/controllers"
	"github.com/calderagroup/procuremart-backend/api/routes"
	"github.com/calderagroup/procuremart-backend/internal/analytics"
	"github.com/calderagroup/procuremart-backend/internal/auth"
	"github.com/calderagroup/procuremart-backend/internal/cart"
	checkoutsvc "github.com/calderagroup/procuremart-backend/internal/checkout"
	"github.com/calderagroup/procuremart-backend/internal/dashboard"
	"github.com/calderagroup/procuremart-backend/internal/notifications"
	"github.com/calderagroup/procuremart-backend/internal/orders"
	"github.com/calderagroup/procuremart-backend/internal/products"
	"github.com/calderagroup/procuremart-backend/internal/quotes"
	"github.com/calderagroup/procuremart-backend/internal/suppliers"
	"github.com/calderagroup/procuremart-backend/internal/uploads"
	"github.com/calderagroup/procuremart-backend/internal/users"
	"github.com/calderagroup/procuremart-backend/pkg/auth/session"
	"github.com/calderagroup/procuremart-backend/pkg/bigquery"
	"github.com/calderagroup/procuremart-backend/pkg/config"
	"github.com/calderagroup/procuremart-backend/pkg/db"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
	"github.com/calderagroup/procuremart-backend/pkg/migrate"
	"github.com/calderagroup/procuremart-backend/pkg/outbox"
	"github.com/calderagroup/procuremart-backend/pkg/redis"
	"github.com/calderagroup/procuremart-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	supplierRepo := suppliers.NewRepository(gormDB)
	productRepo := products.NewRepository(gormDB)
	categoryRepo := products.NewCategoryRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)
	quotesRepo := quotes.NewRepository(gormDB)
	notificationRepo := notifications.NewRepository(gormDB)
	dashboardRepo := dashboard.NewRepository(gormDB)
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	authService, err := auth.NewService(auth.ServiceParams{
		Users:    userRepo,
		Sessions: sessionManager,
		JWT:      cfg.JWT,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}
	adminRegisterService, err := auth.NewAdminRegisterService(auth.AdminRegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin register service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(productRepo, categoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartRepo, dbClient, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	ordersService, err := orders.NewService(ordersRepo, dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	checkoutService, err := checkoutsvc.NewService(userRepo, cartRepo, ordersService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}
	quoteService, err := quotes.NewService(quotesRepo, dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create quotes service", err)
		os.Exit(1)
	}
	notificationService, err := notifications.NewService(notificationRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}
	dashboardService, err := dashboard.NewService(dashboardRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	healthChecks := map[string]controllers.Pinger{
		"postgres": dbClient,
		"redis":    redisClient,
	}

	// GCS and BigQuery are optional in local setups; endpoints depending on
	// them return an internal error until configured.
	var uploadService uploads.Service
	if cfg.GCS.BucketName != "" {
		gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap gcs", err)
			os.Exit(1)
		}
		healthChecks["gcs"] = gcsClient
		uploadService, err = uploads.NewService(gcsClient, cfg.GCS.BucketName, cfg.GCS.UploadURLExpiry)
		if err != nil {
			logg.Error(context.Background(), "failed to create uploads service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "gcs bucket not configured, uploads disabled")
	}

	var analyticsService analytics.Service
	if cfg.GCP.ProjectID != "" {
		bqClient, err := bigquery.NewClient(context.Background(), cfg.GCP, cfg.BigQuery, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap bigquery", err)
			os.Exit(1)
		}
		defer func() {
			if err := bqClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing bigquery", err)
			}
		}()
		healthChecks["bigquery"] = bqClient
		analyticsService, err = analytics.NewService(bqClient, cfg.GCP.ProjectID, cfg.BigQuery.Dataset, cfg.BigQuery.MarketplaceEventsTable)
		if err != nil {
			logg.Error(context.Background(), "failed to create analytics service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "gcp project not configured, analytics disabled")
	}

	router := routes.NewRouter(routes.Deps{
		Config:               cfg,
		Logger:               logg,
		Redis:                redisClient,
		Sessions:             sessionManager,
		AuthService:          authService,
		RegisterService:      registerService,
		AdminRegisterService: adminRegisterService,
		ProductService:       productService,
		CartService:          cartService,
		CheckoutService:      checkoutService,
		OrdersRepo:           ordersRepo,
		OrdersService:        ordersService,
		QuoteService:         quoteService,
		NotificationService:  notificationService,
		DashboardService:     dashboardService,
		AnalyticsService:     analyticsService,
		UploadService:        uploadService,
		UserRepo:             userRepo,
		SupplierRepo:         supplierRepo,
		CategoryRepo:         categoryRepo,
		HealthChecks:         healthChecks,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
