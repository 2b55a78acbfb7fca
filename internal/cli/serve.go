package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/vegana/shop/internal/config"
	"github.com/vegana/shop/internal/handlers"
	"github.com/vegana/shop/internal/metrics"
	"github.com/vegana/shop/internal/models"
	"github.com/vegana/shop/internal/repository"
	"github.com/vegana/shop/internal/services"
	"github.com/vegana/shop/internal/session"
	"github.com/vegana/shop/internal/web"
)

// ServerDependencies holds all dependencies needed for the server
type ServerDependencies struct {
	ServerConfig config.ServerConfig
	Log          logrus.FieldLogger
	Metrics      *metrics.Metrics
	Sessions     *session.Store

	HomeHandler       http.Handler
	LoginHandler      http.Handler
	LogoutHandler     http.Handler
	AccountHandler    http.Handler
	ProductHandler    http.Handler
	NotFoundHandler   http.Handler
	CartHandler       http.Handler
	CartAddHandler    http.Handler
	CartUpdateHandler http.Handler
	CartRemoveHandler http.Handler
	CheckoutHandler   http.Handler
}

// BuildServerDependencies wires repositories, services and handlers on top of
// an open database.
func BuildServerDependencies(db *sqlx.DB, cfg config.ServerConfig, log logrus.FieldLogger) (ServerDependencies, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	deps := ServerDependencies{
		ServerConfig: cfg,
		Log:          log,
		Metrics:      metrics.New(),
		Sessions:     session.NewStore(),
	}

	// Create service layer
	catalog := services.NewCatalogService(repository.NewProductRepository(db))
	auth := services.NewAuthService(repository.NewCustomerRepository(db))
	carts := services.NewCartService(repository.NewCartRepository(db), catalog)
	orders := services.NewOrderService(repository.NewOrderRepository(db), carts)

	var err error
	if deps.HomeHandler, err = handlers.NewHomeHandler(catalog, auth, log); err != nil {
		return deps, fmt.Errorf("failed to create home handler: %w", err)
	}
	if deps.LoginHandler, err = handlers.NewLoginHandler(auth, carts, log); err != nil {
		return deps, fmt.Errorf("failed to create login handler: %w", err)
	}
	deps.LogoutHandler = handlers.NewLogoutHandler(log)
	if deps.AccountHandler, err = handlers.NewAccountHandler(auth, orders, log); err != nil {
		return deps, fmt.Errorf("failed to create account handler: %w", err)
	}
	if deps.ProductHandler, err = handlers.NewProductHandler(catalog, auth, log); err != nil {
		return deps, fmt.Errorf("failed to create product handler: %w", err)
	}
	if deps.NotFoundHandler, err = handlers.NewNotFoundHandler(auth, log); err != nil {
		return deps, fmt.Errorf("failed to create not-found handler: %w", err)
	}
	if deps.CartHandler, err = handlers.NewCartHandler(carts, auth, log); err != nil {
		return deps, fmt.Errorf("failed to create cart handler: %w", err)
	}
	deps.CartAddHandler = handlers.NewCartAddHandler(carts, log)
	if deps.CartUpdateHandler, err = handlers.NewCartAPIHandler(carts, handlers.CartUpdate, log); err != nil {
		return deps, fmt.Errorf("failed to create cart update handler: %w", err)
	}
	if deps.CartRemoveHandler, err = handlers.NewCartAPIHandler(carts, handlers.CartRemove, log); err != nil {
		return deps, fmt.Errorf("failed to create cart remove handler: %w", err)
	}
	onOrder := func(*models.Order) { deps.Metrics.OrderPlaced() }
	if deps.CheckoutHandler, err = handlers.NewCheckoutHandler(carts, orders, auth, onOrder, log); err != nil {
		return deps, fmt.Errorf("failed to create checkout handler: %w", err)
	}

	return deps, nil
}

// NewRouter registers every storefront route. Page routes share the session
// middleware; static assets and /metrics are served without it. Nil handlers
// are skipped.
func NewRouter(deps ServerDependencies) http.Handler {
	pages := http.NewServeMux()
	handle := func(pattern, route string, h http.Handler) {
		if h == nil {
			return
		}
		if deps.Metrics != nil {
			h = deps.Metrics.Instrument(route, h)
		}
		pages.Handle(pattern, h)
	}

	handle("GET /{$}", "home", deps.HomeHandler)
	handle("/", "not_found", deps.NotFoundHandler)
	handle("/not-found", "not_found", deps.NotFoundHandler)
	handle("/login", "login", deps.LoginHandler)
	handle("/logout", "logout", deps.LogoutHandler)
	handle("/account", "account", deps.AccountHandler)
	handle("/productDetail", "product", deps.ProductHandler)
	handle("/cartlist", "cart", deps.CartHandler)
	handle("/cart/add", "cart_add", deps.CartAddHandler)
	handle("/api/cart/update", "cart_update", deps.CartUpdateHandler)
	handle("/api/cart/remove", "cart_remove", deps.CartRemoveHandler)
	handle("/checkout", "checkout", deps.CheckoutHandler)

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", web.Static()))
	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics.Handler())
	}
	if deps.Sessions == nil {
		mux.Handle("/", pages)
	} else {
		mux.Handle("/", deps.Sessions.Middleware(pages))
	}
	return mux
}

func logger(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return logrus.StandardLogger()
	}
	return log
}

// RunServe starts the storefront and blocks until SIGINT or SIGTERM
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	timeout := deps.ServerConfig.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return WaitForShutdownWithTimeout(server, nil, timeout, deps.Log)
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	log := logger(deps.Log)

	// Create listener
	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", listener.Addr().String()).Info("Server listening")
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error")
		}
	}()

	return listener, server, nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server
// If shutdown channel is nil, a new channel will be created and registered with signal.Notify
func WaitForShutdown(server *http.Server, shutdown chan os.Signal, log logrus.FieldLogger) error {
	return WaitForShutdownWithTimeout(server, shutdown, 30*time.Second, log)
}

// WaitForShutdownWithTimeout allows specifying a custom shutdown timeout
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, shutdownTimeout time.Duration, log logrus.FieldLogger) error {
	log = logger(log)
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(shutdown)
	}

	sig := <-shutdown
	log.WithField("signal", sig.String()).Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		// Force close the server after timeout
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	log.Info("Server stopped")
	return nil
}
