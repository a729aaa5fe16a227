package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/unrolled/secure"
	"golang.org/x/sync/errgroup"

	"github.com/Simplici0/o.bakery/internal/config"
	"github.com/Simplici0/o.bakery/internal/db"
	"github.com/Simplici0/o.bakery/internal/logging"
	"github.com/Simplici0/o.bakery/internal/migrations"
	"github.com/Simplici0/o.bakery/internal/seed"
	"github.com/Simplici0/o.bakery/internal/settings"
	"github.com/Simplici0/o.bakery/internal/store"
)

type server struct {
	auth     *authService
	store    *store.Store
	settings *settings.Resolver
	log      logrus.FieldLogger
	now      func() time.Time
}

type routeOptions struct {
	rateLimit  int
	production bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stdout)
	if err != nil {
		return err
	}
	for _, warning := range cfg.Warnings() {
		log.Warn(warning)
	}

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(ctx, database, cfg.MigrationsDir); err != nil {
			return fmt.Errorf("run database migrations: %w", err)
		}
	}

	stats, err := seed.Run(ctx, database, seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		return fmt.Errorf("seed database: %w", err)
	}
	log.WithField("inserts", stats.Inserts).Info("seed complete")

	settingsStore, closeStore, err := newSettingsStore(ctx, cfg, database)
	if err != nil {
		return err
	}
	defer closeStore()

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("generate session secret: %w", err)
		}
		log.Warn("using an ephemeral session secret; sessions end on restart")
	}

	srv := &server{
		auth:     newAuthService(database, secret, cfg.SessionTTL),
		store:    store.New(database),
		settings: settings.NewResolver(settingsStore, log),
		log:      log,
		now:      time.Now,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.routes(routeOptions{rateLimit: cfg.APIRateLimit, production: !cfg.IsDev()}),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", httpServer.Addr).Info("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newSettingsStore picks the settings backend. Redis is checked with a ping
// so a bad address fails at startup.
func newSettingsStore(ctx context.Context, cfg config.Config, database *sql.DB) (settings.Store, func(), error) {
	if cfg.SettingsBackend != config.BackendRedis {
		return settings.NewSQLStore(database), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis settings store: %w", err)
	}
	return settings.NewRedisStore(client, cfg.RedisPrefix), func() { _ = client.Close() }, nil
}

func (s *server) routes(opts routeOptions) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'",
		SSLRedirect:           opts.production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !opts.production,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(s.log))
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := secureMiddleware.Process(w, r); err != nil {
				s.log.WithError(err).Warn("secure headers blocked request")
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.Limit(opts.rateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		r.Use(s.requireSession)

		r.Get("/settings/{bundle}", s.handleSettingsGet)
		r.Put("/settings/{bundle}", s.handleSettingsPut)

		r.Get("/ingredients", s.handleIngredientsList)
		r.Post("/ingredients", s.handleIngredientsCreate)
		r.Get("/ingredients/low-stock", s.handleIngredientsLowStock)
		r.Get("/ingredients/{id}", s.handleIngredientGet)
		r.Put("/ingredients/{id}", s.handleIngredientUpdate)

		r.Get("/recipes", s.handleRecipesList)
		r.Post("/recipes", s.handleRecipesCreate)
		r.Get("/recipes/{id}", s.handleRecipeGet)
		r.Put("/recipes/{id}", s.handleRecipeUpdate)
		r.Delete("/recipes/{id}", s.handleRecipeDelete)
		r.Get("/recipes/{id}/breakdown", s.handleRecipeBreakdown)
		r.Get("/recipes/{id}/strategies", s.handleRecipeStrategies)

		r.Post("/pricing/what-if", s.handleWhatIf)
		r.Get("/pricing/psychological", s.handlePsychological)

		r.Get("/customers", s.handleCustomersList)
		r.Post("/customers", s.handleCustomersCreate)
		r.Get("/customers/{id}", s.handleCustomerGet)

		r.Get("/orders", s.handleOrdersList)
		r.Post("/orders", s.handleOrdersCreate)
		r.Get("/orders/{id}", s.handleOrderGet)
		r.Patch("/orders/{id}/status", s.handleOrderStatus)
		r.Patch("/orders/{id}/calendar-event", s.handleOrderCalendarEvent)
		r.Get("/orders/{id}/invoice", s.handleOrderInvoice)

		r.Get("/analytics/summary", s.handleAnalyticsSummary)
		r.Get("/analytics/revenue", s.handleAnalyticsRevenue)
		r.Get("/analytics/top-sellers", s.handleAnalyticsTopSellers)
		r.Get("/analytics/customers", s.handleAnalyticsCustomers)
		r.Get("/analytics/recent", s.handleAnalyticsRecent)
	})

	return r
}
