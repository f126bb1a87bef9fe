package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/levy1403/quanlychuoi-sub000/internal/config"
	"github.com/levy1403/quanlychuoi-sub000/internal/domain/booking"
	"github.com/levy1403/quanlychuoi-sub000/internal/domain/catalog"
	"github.com/levy1403/quanlychuoi-sub000/internal/domain/customer"
	"github.com/levy1403/quanlychuoi-sub000/internal/domain/inventory"
	"github.com/levy1403/quanlychuoi-sub000/internal/domain/report"
	"github.com/levy1403/quanlychuoi-sub000/internal/middleware"
	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/database"
	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/logger"
	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/mq"
	pkgresponse "github.com/levy1403/quanlychuoi-sub000/internal/pkg/response"
)

const requestTimeout = 30 * time.Second

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to init logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("report_timezone", cfg.ReportTimezone).
		Msg("Starting salon booking API")

	db, err := database.NewPostgres(cfg.DatabaseURL, cfg.QueryTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	var events booking.EventPublisher = mq.Nop{}
	if cfg.AMQPURL != "" {
		publisher, err := mq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
		}
		defer publisher.Close()
		events = publisher
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("Booking events enabled")
	} else {
		log.Warn().Msg("AMQP URL not configured, booking events disabled")
	}

	// ---------- Services ----------
	bookingService := booking.NewService(
		booking.NewRepository(db),
		catalog.NewReader(db),
		customer.NewResolver(db),
		events,
	)

	reportService := report.NewService(report.NewRepository(db), inventory.NewReader(db), cfg.Location())
	if redis != nil && cfg.CacheEnabled() {
		reportService.SetCache(report.NewRedisStatsCache(redis), cfg.ReportCacheTTL)
	}

	// ---------- Router ----------
	r := newRouter(cfg, booking.NewHandler(bookingService), report.NewHandler(reportService), db)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// pinger is satisfied by *sqlx.DB.
type pinger interface {
	PingContext(ctx context.Context) error
}

var _ pinger = (*sqlx.DB)(nil)

func newRouter(cfg *config.Config, bookingHandler *booking.Handler, reportHandler *report.Handler, db pinger) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", healthHandler(db))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Mount("/bookings", bookingHandler.Routes())
		r.Mount("/reports", reportHandler.Routes())
	})

	return r
}

func healthHandler(db pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			log.Warn().Err(err).Msg("Health check: database unreachable")
			pkgresponse.Error(w, http.StatusServiceUnavailable, "UNAVAILABLE", "database unreachable")
			return
		}

		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	}
}
