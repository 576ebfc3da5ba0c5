package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/brightcredit/credit-engine/internal/config"
	"github.com/brightcredit/credit-engine/internal/lock"
	"github.com/brightcredit/credit-engine/internal/repository"
	"github.com/brightcredit/credit-engine/internal/service"
	"github.com/brightcredit/credit-engine/pkg/logger"
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

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logger.Log.Fatal("connecting to database", logger.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	loanRepo := repository.NewLoanRepository(db)
	billingRepo := repository.NewBillingRepository(db)
	accrualRepo := repository.NewAccrualRepository(db)

	var locks lock.Manager
	if cfg.Lock.Backend == "redis" {
		locks = lock.NewRedisLock(redisClient, cfg.LockWaitTimeout(), 30*time.Second)
	} else {
		locks = lock.NewKeyedMutex(cfg.LockWaitTimeout())
	}

	accrualService := service.NewAccrualService(loanRepo, accrualRepo, locks)
	billingService := service.NewBillingService(loanRepo, billingRepo, accrualRepo, locks, cfg)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Log.Fatal("loading scheduler timezone", logger.Error(err))
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	if err := setupCronJobs(c, cfg, accrualService, billingService); err != nil {
		logger.Log.Fatal("scheduling jobs", logger.Error(err))
	}

	c.Start()
	logger.Log.Info("scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down scheduler")
	<-c.Stop().Done()
	logger.Log.Info("scheduler stopped")
}

func setupCronJobs(
	c *cron.Cron,
	cfg *config.Config,
	accrualService *service.AccrualService,
	billingService *service.BillingService,
) error {
	// Daily interest accrual (midnight by default)
	_, err := c.AddFunc(cfg.Scheduler.AccrualSpec, func() {
		runDate := time.Now()
		outcomes, err := accrualService.AccrueDailyInterest(context.Background(), runDate)
		if err != nil {
			logger.Log.Error("daily accrual run failed", logger.Error(err))
			return
		}
		failures := 0
		for _, o := range outcomes {
			if o.Error != "" {
				failures++
			}
		}
		logJobOutcome("accrual", len(outcomes), failures)
	})
	if err != nil {
		return err
	}

	// Daily billing generation, after accrual has had time to finish
	_, err = c.AddFunc(cfg.Scheduler.BillingSpec, func() {
		runDate := time.Now()
		outcomes, err := billingService.RunDailyBilling(context.Background(), runDate)
		if err != nil {
			logger.Log.Error("daily billing run failed", logger.Error(err))
			return
		}
		failures := 0
		for _, o := range outcomes {
			if o.Error != "" {
				failures++
			}
		}
		logJobOutcome("billing", len(outcomes), failures)
	})
	return err
}

func logJobOutcome(job string, processed, failed int) {
	logger.Log.Info("daily job finished",
		zap.String("job", job),
		zap.Int("processed", processed),
		zap.Int("failed", failed),
	)
}
