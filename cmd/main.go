package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/sync/errgroup"

	_ "github.com/jackc/pgx/v5/stdlib"

	_ "github.com/sbilibin2017/gw-payment-ledger/docs"
	"github.com/sbilibin2017/gw-payment-ledger/internal/config"
	"github.com/sbilibin2017/gw-payment-ledger/internal/facades"
	"github.com/sbilibin2017/gw-payment-ledger/internal/handlers"
	"github.com/sbilibin2017/gw-payment-ledger/internal/jwt"
	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/middlewares"
	"github.com/sbilibin2017/gw-payment-ledger/internal/realtime"
	"github.com/sbilibin2017/gw-payment-ledger/internal/repositories"
	"github.com/sbilibin2017/gw-payment-ledger/internal/services"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

const heartbeatInterval = 30 * time.Second

// @title gw-payment-ledger API
// @version 1.0.0
// @description Wallet ledger and payment reconciliation service for the marketplace
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s\nCommit: %s\nBuild: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// newKafkaWriter returns a writer for topic, or nil when no brokers are configured.
func newKafkaWriter(brokers []string, topic string) *kafka.Writer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// originChecker reports whether a websocket handshake comes from an allowed origin.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if _, ok := set["*"]; ok {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// run connects to PostgreSQL, Redis and Kafka, wires the services and serves
// HTTP until a shutdown signal arrives.
func run(ctx context.Context, cfg *config.Config) error {
	if err := logger.Initialize(cfg.App.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Log.Sync()
	logger.Log.Infow("Logger initialized", "level", cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	// PostgreSQL
	logger.Log.Infow("Connecting to PostgreSQL", "host", cfg.Postgres.Host, "db", cfg.Postgres.DB)
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.PostgresDSN())
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis connection error: %w", err)
	}
	defer rdb.Close()

	// Kafka
	var notifier *services.Notifier
	{
		notificationsWriter := newKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.NotificationsTopic)
		ledgerWriter := newKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.TransactionsTopic)
		var nw, lw services.KafkaWriter
		if notificationsWriter != nil {
			defer notificationsWriter.Close()
			nw = notificationsWriter
		}
		if ledgerWriter != nil {
			defer ledgerWriter.Close()
			lw = ledgerWriter
		}
		notifier = services.NewNotifier(nw, lw)
	}

	tokener := jwt.New(
		jwt.WithSecretKey(cfg.JWT.SecretKey),
		jwt.WithExpiration(time.Duration(cfg.JWT.ExpSecond)*time.Second),
	)

	// Repositories
	transactor := repositories.NewTransactor(db)
	walletRepo := repositories.NewWalletRepository(db, repositories.TxFromContext)
	txRepo := repositories.NewTransactionRepository(db, repositories.TxFromContext)
	verificationRepo := repositories.NewVerificationRepository(db, repositories.TxFromContext)
	subscriptionRepo := repositories.NewSubscriptionRepository(db, repositories.TxFromContext)
	contractRepo := repositories.NewContractRepository(db, repositories.TxFromContext)
	jobRepo := repositories.NewJobRepository(db)
	lockRepo := repositories.NewLockRepository(rdb, cfg.Redis.LockTTL)

	// Realtime
	hub := realtime.NewHub()
	publisher := realtime.NewPublisher(rdb)

	// Services
	gateway := facades.NewMercadoPagoFacade(cfg.Gateway.BaseURL, cfg.Gateway.AccessToken,
		&http.Client{Timeout: cfg.Gateway.Timeout})

	reconciler := services.NewReconciler(transactor, txRepo, services.NewBalanceMutator(walletRepo),
		subscriptionRepo, contractRepo, lockRepo, publisher, notifier)
	checkoutService := services.NewCheckoutService(services.NewPreferenceBuilder(cfg.Gateway), gateway,
		txRepo, walletRepo, cfg.Gateway.PublicKey, cfg.Gateway.Sandbox)
	ingestService := services.NewIngestService(gateway, txRepo, walletRepo, reconciler, cfg.Gateway.ConfirmWebhookStatus)
	withdrawalService := services.NewWithdrawalService(transactor, verificationRepo, walletRepo, txRepo,
		reconciler, publisher, notifier)
	verificationService := services.NewVerificationService(transactor, verificationRepo, walletRepo, notifier)
	subscriptionService := services.NewSubscriptionService(transactor, subscriptionRepo, txRepo, jobRepo, notifier)
	payoutService := services.NewPayoutService(txRepo, walletRepo, reconciler)
	walletService := services.NewWalletService(walletRepo, txRepo)

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.App.Host, cfg.App.Port)),
	))

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/webhooks/mercadopago/{purpose}", handlers.NewWebhookHandler(ingestService))
		// Authenticates itself; browsers may pass the token as a query parameter.
		r.Get("/ws", handlers.NewWebsocketHandler(hub, tokener, originChecker(cfg.App.AllowedOrigins)))

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(tokener))

			r.Get("/wallet/balance", handlers.NewBalanceHandler(walletService, tokener))
			r.Get("/wallet/transactions", handlers.NewListTransactionsHandler(walletService, tokener))
			r.Get("/wallet/transactions/{id}", handlers.NewGetTransactionHandler(walletService, tokener))
			r.Post("/wallet/withdrawals", handlers.NewWithdrawHandler(withdrawalService, tokener))
			r.Post("/wallet/withdrawals/{id}/cancel", handlers.NewCancelWithdrawalHandler(withdrawalService, tokener))

			r.Post("/payments/preferences", handlers.NewCreatePreferenceHandler(checkoutService, tokener))
			r.Get("/payments/return", handlers.NewPaymentReturnHandler(ingestService, tokener))
			r.Post("/payments/{id}/verify", handlers.NewVerifyPaymentHandler(ingestService, tokener))

			r.Get("/verification", handlers.NewGetVerificationHandler(verificationService, tokener))
			r.Post("/verification", handlers.NewSubmitVerificationHandler(verificationService, tokener))
			r.Put("/verification/pix-key", handlers.NewUpdatePixKeyHandler(verificationService, tokener))

			r.Get("/subscription/status", handlers.NewSubscriptionStatusHandler(subscriptionService, tokener))
			r.Post("/subscription/sync", handlers.NewSubscriptionSyncHandler(subscriptionService, tokener))
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AdminMiddleware(tokener))
			r.Use(middlewares.TxMiddleware(db))

			r.Post("/admin/payouts", handlers.NewCreatePayoutHandler(payoutService, tokener))
			r.Post("/admin/withdrawals/{id}/{action}", handlers.NewReviewWithdrawalHandler(withdrawalService, tokener))
			r.Post("/admin/verifications/{userID}/{action}", handlers.NewReviewVerificationHandler(verificationService, tokener))
		})

		// Scheduled jobs
		r.Group(func(r chi.Router) {
			r.Use(middlewares.CronMiddleware(cfg.Cron.Token))

			r.Post("/jobs/subscriptions/expire", handlers.NewExpireSubscriptionsHandler(subscriptionService))
			r.Post("/jobs/real-jobs/expire", handlers.NewExpireJobsHandler(subscriptionService))
		})
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Log.Infow("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := hub.Run(gctx, rdb); err != nil && gctx.Err() == nil {
			return fmt.Errorf("wallet event subscription failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		hub.Heartbeat(gctx, heartbeatInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.Errorw("HTTP server shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
