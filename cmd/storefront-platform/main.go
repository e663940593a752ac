package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raadistore/storefront-platform/internal/api/handlers"
	"github.com/raadistore/storefront-platform/internal/api/middleware"
	"github.com/raadistore/storefront-platform/internal/cache"
	"github.com/raadistore/storefront-platform/internal/config"
	"github.com/raadistore/storefront-platform/internal/health"
	"github.com/raadistore/storefront-platform/internal/metrics"
	repository "github.com/raadistore/storefront-platform/internal/repositories"
	service "github.com/raadistore/storefront-platform/internal/services"
	"github.com/raadistore/storefront-platform/internal/telemetry"
	"github.com/raadistore/storefront-platform/pkg/sendgrid"
	"github.com/raadistore/storefront-platform/pkg/stripe"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	shutdownTracing, err := telemetry.Setup(context.Background(), &cfg.Otel)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := cache.NewRedisClient(&cfg.RedisConnect)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appCache := cache.NewRedisCache(redisClient, &cfg.CacheConfig)

	jwtKey := []byte(cfg.Security.JWTKey)
	stripeClient := stripe.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)
	emailClient := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	pricingService := service.NewPricingService(repos.Pricing, appCache, cfg.CacheConfig.PricingTTL)
	pricingHandler := handlers.NewPricingHandler(pricingService)
	promoService := service.NewPromoService(repos.Promo, repos.Cart)
	promoHandler := handlers.NewPromoHandler(promoService)
	cartService := service.NewCartService(repos.Cart, repos.Product, appCache, cfg.CacheConfig.ProductTTL)
	cartHandler := handlers.NewCartHandler(cartService)
	orderService := service.NewOrderService(repos.Order, repos.Cart, repos.Product, repos.Promo, pricingService)
	invoiceService := service.NewInvoiceService(orderService)
	orderHandler := handlers.NewOrderHandler(orderService, invoiceService)
	paymentService := service.NewPaymentService(repos.Payment, repos.Order, stripeClient, emailClient, cfg.Stripe.Currency)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error setting up health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/cart", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("DELETE /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.RemoveItem()))
	routerMux.HandleFunc("DELETE /api/v1/cart", authMiddleware.Authenticate(cartHandler.ClearCart()))
	routerMux.HandleFunc("POST /api/v1/promos/apply", authMiddleware.Authenticate(promoHandler.ApplyPromo()))
	routerMux.HandleFunc("POST /api/v1/promos", authMiddleware.Authenticate(authMiddleware.RequireAdmin(promoHandler.CreatePromo())))
	routerMux.HandleFunc("GET /api/v1/promos", authMiddleware.Authenticate(authMiddleware.RequireAdmin(promoHandler.ListPromos())))
	routerMux.HandleFunc("DELETE /api/v1/promos/{id}", authMiddleware.Authenticate(authMiddleware.RequireAdmin(promoHandler.DeletePromo())))
	routerMux.HandleFunc("GET /api/v1/pricing", authMiddleware.Authenticate(pricingHandler.GetConfig()))
	routerMux.HandleFunc("POST /api/v1/pricing", authMiddleware.Authenticate(authMiddleware.RequireAdmin(pricingHandler.UpdateConfig())))
	routerMux.HandleFunc("POST /api/v1/orders", authMiddleware.Authenticate(orderHandler.CreateOrder()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("POST /api/v1/orders/{id}/cancel", authMiddleware.Authenticate(orderHandler.CancelOrder()))
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/status", authMiddleware.Authenticate(authMiddleware.RequireAdmin(orderHandler.UpdateStatus())))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(authMiddleware.RequireAdmin(orderHandler.ListOrders())))
	routerMux.HandleFunc("GET /api/v1/orders/{id}/invoice", authMiddleware.Authenticate(orderHandler.GetInvoice()))
	routerMux.HandleFunc("POST /api/v1/payments", authMiddleware.Authenticate(paymentHandler.InitiatePayment()))
	routerMux.HandleFunc("POST /api/v1/payments/webhook", paymentHandler.HandleWebhook())
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "http.server")

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}

	if err := redisClient.Close(); err != nil {
		slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
	}
}
