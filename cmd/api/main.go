package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmcortes/shoplane-backend/api/routes"
	"github.com/dmcortes/shoplane-backend/internal/address"
	"github.com/dmcortes/shoplane-backend/internal/auth"
	"github.com/dmcortes/shoplane-backend/internal/cart"
	"github.com/dmcortes/shoplane-backend/internal/catalog"
	checkoutsvc "github.com/dmcortes/shoplane-backend/internal/checkout"
	"github.com/dmcortes/shoplane-backend/internal/orders"
	"github.com/dmcortes/shoplane-backend/internal/payments"
	"github.com/dmcortes/shoplane-backend/internal/users"
	"github.com/dmcortes/shoplane-backend/pkg/auth/session"
	"github.com/dmcortes/shoplane-backend/pkg/config"
	"github.com/dmcortes/shoplane-backend/pkg/db"
	"github.com/dmcortes/shoplane-backend/pkg/logger"
	"github.com/dmcortes/shoplane-backend/pkg/mail"
	"github.com/dmcortes/shoplane-backend/pkg/migrate"
	"github.com/dmcortes/shoplane-backend/pkg/oauth"
	"github.com/dmcortes/shoplane-backend/pkg/redis"
	"github.com/dmcortes/shoplane-backend/pkg/stripe"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
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

	var mailer mail.Sender
	if cfg.SMTP.Host != "" {
		m, err := mail.New(cfg.SMTP)
		if err != nil {
			logg.Error(context.Background(), "failed to create mailer", err)
			os.Exit(1)
		}
		mailer = m
	} else {
		logg.Warn(context.Background(), "smtp not configured, password reset emails disabled")
	}

	var google oauth.Provider
	if cfg.Google.ClientID != "" {
		p, err := oauth.NewGoogleProvider(cfg.Google)
		if err != nil {
			logg.Error(context.Background(), "failed to create google oauth provider", err)
			os.Exit(1)
		}
		google = p
	} else {
		logg.Warn(context.Background(), "google oauth not configured, social login disabled")
	}

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe client", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	addressRepo := address.NewRepository(gormDB)
	productRepo := catalog.NewProductRepository(gormDB)
	categoryRepo := catalog.NewCategoryRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		Mailer:         mailer,
		Google:         google,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		FrontendURL:    cfg.Frontend.BaseURL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		ProductRepo:  productRepo,
		CategoryRepo: categoryRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	addressService, err := address.NewService(addressRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(stripeClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(dbClient, cartRepo, ordersRepo, productRepo, addressRepo, paymentsService)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(userRepo, addressService, ordersService, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

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
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			SessionManager: sessionManager,
			Auth:           authService,
			Users:          usersService,
			Catalog:        catalogService,
			Cart:           cartService,
			Checkout:       checkoutService,
			Orders:         ordersService,
			Address:        addressService,
			Payments:       paymentsService,
		}),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
