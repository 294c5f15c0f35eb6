package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/shopspring/decimal"

	"github.com/siddarthanreddy/ministore/internal/cart"
	"github.com/siddarthanreddy/ministore/internal/checkout"
	"github.com/siddarthanreddy/ministore/internal/config"
	"github.com/siddarthanreddy/ministore/internal/handlers"
	"github.com/siddarthanreddy/ministore/internal/store"
)

func main() {
	// Configure slog to output DEBUG level messages
	// This should be done as early as possible in main
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Init DB
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}

	// Run Migrations
	if err := db.Migrate("migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		slog.Error("Failed to create upload directory", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	// 3. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	carts := cart.NewSessionRepository(sessionStore)

	// 4. Init Templates
	templates := handlers.NewTemplateCache()
	templates.AddFunc("money", func(d decimal.Decimal) string { return d.StringFixed(2) })
	templates.AddFunc("lineTotal", func(l cart.Line) decimal.Decimal {
		return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	})
	templates.AddFunc("prevPage", func(currentPage int) int { return currentPage - 1 })
	templates.AddFunc("nextPage", func(currentPage int) int { return currentPage + 1 })

	if err := templates.Load("templates"); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	// 5. Setup Handlers
	shopHandler := &handlers.ShopHandler{
		Store:        db,
		Carts:        carts,
		Templates:    templates,
		SessionStore: sessionStore,
	}
	cartHandler := &handlers.CartHandler{
		Store:        db,
		Carts:        carts,
		Templates:    templates,
		SessionStore: sessionStore,
	}
	checkoutHandler := &handlers.CheckoutHandler{
		Committer:    checkout.NewCommitter(db),
		Carts:        carts,
		Templates:    templates,
		SessionStore: sessionStore,
	}
	adminHandler := &handlers.AdminHandler{
		Store:        db,
		SessionStore: sessionStore,
		Templates:    templates,
		PasswordHash: cfg.AdminPasswordHash,
		UploadDir:    cfg.UploadDir,
	}

	mux := http.NewServeMux()

	// Static Files
	fileServer := http.FileServer(http.Dir("./static"))
	mux.Handle("/static/", http.StripPrefix("/static", fileServer))

	rateLimiter := handlers.NewRateLimiter(cfg.CheckoutRateWindow)

	// Public Routes
	mux.HandleFunc("/{$}", shopHandler.Index)
	mux.HandleFunc("GET /product/{id}", shopHandler.ProductDetail)
	mux.HandleFunc("GET /cart", cartHandler.ViewCart)
	mux.HandleFunc("POST /cart/add/{id}", cartHandler.AddToCart)
	mux.HandleFunc("POST /cart/update", cartHandler.UpdateCart)
	mux.HandleFunc("GET /checkout", checkoutHandler.CheckoutForm)
	mux.HandleFunc("POST /checkout", rateLimiter.Middleware(checkoutHandler.SubmitCheckout))

	mux.HandleFunc("GET /admin/login", adminHandler.LoginGet)
	mux.HandleFunc("POST /admin/login", adminHandler.LoginPost)
	mux.HandleFunc("GET /admin/logout", adminHandler.Logout)

	// Protected Routes
	mux.HandleFunc("GET /admin", adminHandler.RequireAdmin(adminHandler.Dashboard))
	mux.HandleFunc("GET /admin/orders", adminHandler.RequireAdmin(adminHandler.ListOrders))
	mux.HandleFunc("GET /admin/product/new", adminHandler.RequireAdmin(adminHandler.NewProductForm))
	mux.HandleFunc("POST /admin/product", adminHandler.RequireAdmin(adminHandler.CreateProduct))
	mux.HandleFunc("GET /admin/product/edit/{id}", adminHandler.RequireAdmin(adminHandler.EditProductForm))
	mux.HandleFunc("POST /admin/product/update", adminHandler.RequireAdmin(adminHandler.UpdateProduct))
	mux.HandleFunc("POST /admin/product/delete", adminHandler.RequireAdmin(adminHandler.DeleteProduct))

	// 6. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: Logger -> Security Headers -> CSRF -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			CSRF(mux),
		),
	)

	// 7. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
