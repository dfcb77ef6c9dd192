package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kariqs/bookbuy-api/auth"
	"github.com/Kariqs/bookbuy-api/controllers"
	"github.com/Kariqs/bookbuy-api/initializers"
	"github.com/Kariqs/bookbuy-api/middlewares"
	"github.com/Kariqs/bookbuy-api/routes"
	"github.com/Kariqs/bookbuy-api/services"
	"github.com/Kariqs/bookbuy-api/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func init() {
	initializers.LoadEnv()
	initializers.RegisterValidators()
}

func main() {
	cfg, err := initializers.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := initializers.InitLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func run(cfg *initializers.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := initializers.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore(context.Background()) }()

	cache, err := initializers.ConnectToCache(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer cache.Close()

	uploader, err := initializers.NewImageUploader(ctx, cfg, logger)
	if err != nil {
		return err
	}

	mail := utils.NewMailDispatcher(initializers.NewMailer(cfg, logger), logger)
	defer mail.Wait()

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	ledger := auth.NewRevocationLedger(cache)
	gate := auth.NewGate(ledger, issuer, store.Users)

	activation := services.NewActivationService(store.ActivationTokens, store.Users, cfg.ActivationTokenTTL)
	users := services.NewUserService(store.Users, activation, issuer, ledger, mail, logger)
	catalog := services.NewCatalogService(store.Authors, store.Books, uploader)
	carts := services.NewCartService(store.Carts, catalog)

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	server := gin.New()
	server.Use(gin.Recovery(), middlewares.RequestLogger(logger))
	server.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middlewares.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middlewares.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	server.MaxMultipartMemory = 4 << 20

	routes.RegisterRoutes(server, gate, routes.Handlers{
		Auth:    controllers.NewAuthController(users, logger),
		Carts:   controllers.NewCartController(carts, logger),
		Authors: controllers.NewAuthorController(catalog, logger),
		Books:   controllers.NewBookController(catalog, logger),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
