package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/brightcredit/credit-engine/internal/config"
	"github.com/brightcredit/credit-engine/internal/feed"
	"github.com/brightcredit/credit-engine/internal/handler"
	"github.com/brightcredit/credit-engine/internal/lock"
	"github.com/brightcredit/credit-engine/internal/repository"
	"github.com/brightcredit/credit-engine/internal/service"
	"github.com/brightcredit/credit-engine/pkg/logger"
	"github.com/brightcredit/credit-engine/pkg/response"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := initDB(cfg)
	if err != nil {
		logger.Log.Fatal("initializing database", logger.Error(err))
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	billingRepo := repository.NewBillingRepository(db)
	accrualRepo := repository.NewAccrualRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	locks := initLocks(cfg, redisClient)
	feedReader := feed.NewCSVReader(cfg.Feed.TransactionCSVPath)

	// Services
	userService := service.NewUserService(userRepo)
	scoringService := service.NewScoringService(userRepo, feedReader)
	accrualService := service.NewAccrualService(loanRepo, accrualRepo, locks)
	billingService := service.NewBillingService(loanRepo, billingRepo, accrualRepo, locks, cfg)
	loanService := service.NewLoanService(userRepo, loanRepo, billingRepo, paymentRepo, locks, cfg)

	// Handlers
	userHandler := handler.NewUserHandler(userService, scoringService)
	loanHandler := handler.NewLoanHandler(loanService, billingService)
	batchHandler := handler.NewBatchHandler(accrualService, billingService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	router := setupRoutes(userHandler, loanHandler, batchHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Log.Info("server starting", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server failed to start", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.Fatal("server forced to shutdown", logger.Error(err))
	}

	logger.Log.Info("server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func initLocks(cfg *config.Config, redisClient *redis.Client) lock.Manager {
	if cfg.Lock.Backend == "redis" {
		return lock.NewRedisLock(redisClient, cfg.LockWaitTimeout(), 30*time.Second)
	}
	return lock.NewKeyedMutex(cfg.LockWaitTimeout())
}

func setupRoutes(
	userHandler *handler.UserHandler,
	loanHandler *handler.LoanHandler,
	batchHandler *handler.BatchHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/users", userHandler.Register).Methods("POST")
	api.HandleFunc("/users/{userId}/score", userHandler.CalculateScore).Methods("POST")

	api.HandleFunc("/loans", loanHandler.Apply).Methods("POST")
	api.HandleFunc("/loans/{loanId}/payment", loanHandler.MakePayment).Methods("POST")
	api.HandleFunc("/loans/{loanId}/statement", loanHandler.GetStatement).Methods("GET")
	api.HandleFunc("/loans/{loanId}/billing", loanHandler.GenerateBilling).Methods("POST")

	api.HandleFunc("/jobs/accrual", batchHandler.RunAccrual).Methods("POST")
	api.HandleFunc("/jobs/billing", batchHandler.RunBilling).Methods("POST")

	return router
}
