package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quickcart-io/quickcart/internal/api/handlers"
	"github.com/quickcart-io/quickcart/internal/api/middleware"
	"github.com/quickcart-io/quickcart/internal/cache"
	"github.com/quickcart-io/quickcart/internal/catalog"
	"github.com/quickcart-io/quickcart/internal/config"
	"github.com/quickcart-io/quickcart/internal/health"
	"github.com/quickcart-io/quickcart/internal/metrics"
	repository "github.com/quickcart-io/quickcart/internal/repositories"
	service "github.com/quickcart-io/quickcart/internal/services"
	"github.com/quickcart-io/quickcart/internal/telemetry"
	"github.com/quickcart-io/quickcart/pkg/cloudinary"
	"github.com/quickcart-io/quickcart/pkg/identity"
	"github.com/quickcart-io/quickcart/pkg/sendgrid"
	"github.com/quickcart-io/quickcart/pkg/stripe"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	shutdownTracing, err := telemetry.Init(context.Background(), cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		slog.Error("❌ Error initializing tracing", "error", err.Error())
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
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
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	rateLimiter := repository.NewRateLimitRepo(redisClient, cfg)
	catalogCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	// External collaborators
	identityProvider := identity.NewHMACProvider([]byte(cfg.Identity.SigningKey), cfg.Identity.Issuer)
	mediaClient := cloudinary.NewClient(cfg.Cloudinary.UploadURL, cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.Cloudinary.Timeout)
	stripeClient := stripe.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)
	mailer := sendgrid.NewMailer(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	// Catalog snapshot, refreshed in the background and updated inline on
	// intake. Cart amounts price against this snapshot.
	snapshot := catalog.NewStore()

	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()

	go refreshCatalog(refreshCtx, repos.Product, snapshot, cfg.CatalogRefresh)
	go watchCatalog(refreshCtx, snapshot)

	// Services and handlers
	sellerAuthorizer := service.NewSellerAuthorizer(repos.Seller)
	productService := service.NewProductService(repos.Product, mediaClient, sellerAuthorizer, rateLimiter, catalogCache, snapshot)
	productHandler := handlers.NewProductHandler(productService)
	cartService := service.NewCartService(repos.Cart, snapshot)
	cartHandler := handlers.NewCartHandler(cartService)
	orderService := service.NewOrderService(repos.Order, repos.Cart, repos.Product, repos.Seller, sellerAuthorizer, mailer)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentService := service.NewPaymentService(repos.Payment, repos.Order, stripeClient, cfg.Stripe.Currency)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	authMiddleware := middleware.NewAuthMiddleware(identityProvider)

	healthHandler, err := health.NewHealthHandler(cfg, mediaClient)
	if err != nil {
		slog.Error("❌ Error creating health handler", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.Authenticate(productHandler.CreateProduct()))
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/carts", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/carts/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/carts/items", authMiddleware.Authenticate(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("GET /api/v1/carts/summary", authMiddleware.Authenticate(cartHandler.Summary()))
	routerMux.HandleFunc("POST /api/v1/orders", authMiddleware.Authenticate(orderHandler.Checkout()))
	routerMux.HandleFunc("GET /api/v1/orders/seller", authMiddleware.Authenticate(orderHandler.SellerOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("POST /api/v1/payments", authMiddleware.Authenticate(paymentHandler.CreatePayment()))
	routerMux.HandleFunc("POST /api/v1/payments/webhook", paymentHandler.Webhook())
	routerMux.Handle("GET /healthz", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(handler)
	handler = otelhttp.NewHandler(handler, "quickcart")

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

	stopRefresh()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracing shutdown encountered an issue", slog.String("error", err.Error()))
	}
}

// refreshCatalog reloads the full product list into the snapshot on a fixed
// interval. The first load happens immediately so carts can be priced as soon
// as the server accepts traffic.
func refreshCatalog(ctx context.Context, repo repository.ProductRepository, snapshot *catalog.Store, interval time.Duration) {

	load := func() {
		products, err := repo.ListAllProducts(ctx)
		if err != nil {
			slog.Error("Catalog refresh failed", slog.String("error", err.Error()))
			return
		}

		snapshot.Replace(products)
	}

	load()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			load()
		}
	}
}

// watchCatalog keeps the snapshot size gauge current.
func watchCatalog(ctx context.Context, snapshot *catalog.Store) {

	changes := snapshot.Subscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			metrics.SetCatalogSize(snapshot.Len())
		}
	}
}
