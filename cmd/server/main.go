package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/rl1809/jewelry-storefront/internal/adapter/document"
	"github.com/rl1809/jewelry-storefront/internal/adapter/erp"
	"github.com/rl1809/jewelry-storefront/internal/adapter/handler"
	"github.com/rl1809/jewelry-storefront/internal/adapter/mail"
	"github.com/rl1809/jewelry-storefront/internal/adapter/storage"
	"github.com/rl1809/jewelry-storefront/internal/config"
	"github.com/rl1809/jewelry-storefront/internal/core/service"
	"github.com/rl1809/jewelry-storefront/internal/observability"
	"github.com/rl1809/jewelry-storefront/internal/port"
)

const (
	shutdownTimeout   = 10 * time.Second
	erpHealthInterval = 30 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	memory := storage.NewMemoryAdapter(cfg.Idempotency.TTL)

	// Redis backs idempotency keys and the ERP session when configured.
	var (
		rdb          *redis.Client
		cache        port.CacheRepository = memory
		sessionCache port.SessionCache
	)
	if cfg.Storage.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Storage.RedisAddr, PoolSize: 20})
		redisAdapter := storage.NewRedisAdapter(rdb, cfg.Idempotency.TTL)
		if err := redisAdapter.Ping(ctx); err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		cache = redisAdapter
		sessionCache = redisAdapter
		logger.Info("connected to redis", zap.String("addr", cfg.Storage.RedisAddr))
	}

	// MySQL holds the submission ledger when configured.
	var (
		db     *sql.DB
		ledger port.SubmissionRepository = memory
	)
	if cfg.Storage.MySQLDSN != "" {
		db, err = sql.Open("mysql", cfg.Storage.MySQLDSN)
		if err != nil {
			logger.Fatal("failed to open mysql", zap.Error(err))
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			logger.Fatal("failed to ping mysql", zap.Error(err))
		}
		mysqlAdapter := storage.NewMySQLAdapter(db)
		if err := mysqlAdapter.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to ensure ledger schema", zap.Error(err))
		}
		ledger = mysqlAdapter
		logger.Info("connected to mysql")
	}

	erpClient := erp.NewClient(erp.Config{
		URL:         cfg.ERP.URL,
		Database:    cfg.ERP.Database,
		Login:       cfg.ERP.Login,
		APIKey:      cfg.ERP.APIKey,
		CallTimeout: cfg.ERP.CallTimeout,
		SessionTTL:  cfg.ERP.SessionTTL,
	}, erp.WithSessionCache(sessionCache))

	mailCfg := mail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Secure:   cfg.Mail.Secure,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	}
	var mailer port.Mailer
	if mailCfg.Configured() {
		mailer = mail.NewSMTPMailer(mailCfg)
	} else {
		logger.Info("SMTP not configured, outbound mail disabled")
	}

	submissions := service.NewSubmissionLog(cfg.Workers.QueueSize, logger)

	workflow := service.NewOrderWorkflow(service.OrderWorkflowDeps{
		ERP:                   erpClient,
		Renderer:              document.NewLabelRenderer(),
		Mailer:                mailer,
		Cache:                 cache,
		Recorder:              submissions,
		Logger:                logger,
		VariantLookupAttempts: cfg.ERP.VariantLookupAttempts,
		VariantLookupDelay:    cfg.ERP.VariantLookupDelay,
	})
	catalog := service.NewCatalogService(storage.NewProductFile(cfg.Storage.ProductsFile))

	// Start ledger workers
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers.Count; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			submissions.Run(id, ledger)
		}(i)
	}
	logger.Info("started ledger workers", zap.Int("count", cfg.Workers.Count))

	// gRPC server carries the health service
	grpcServer := grpc.NewServer()
	grpcHealth := handler.NewGRPCHealth(erpClient, cfg.ERP.CallTimeout, logger)
	grpcHealth.Register(grpcServer)
	go grpcHealth.Run(ctx, erpHealthInterval)

	lis, err := net.Listen("tcp", ":"+cfg.Server.GRPCPort)
	if err != nil {
		logger.Fatal("failed to listen", zap.String("port", cfg.Server.GRPCPort), zap.Error(err))
	}
	go func() {
		logger.Info("gRPC server listening", zap.String("port", cfg.Server.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server error", zap.Error(err))
		}
	}()

	httpHandler := handler.NewHTTPHandler(workflow, catalog, workflow.Notifier(), erpClient.BaseURL(), cfg.Idempotency.Header)
	router := handler.NewRouter(httpHandler, handler.RouterConfig{
		Logger:         logger,
		Limiter:        handler.NewRateLimiter(ctx, cfg.RateLimit.PerMinute),
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	go func() {
		logger.Info("HTTP server listening", zap.String("port", cfg.Server.Port), zap.String("erp_url", erpClient.BaseURL()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", zap.Error(err))
	}
	logger.Info("HTTP server stopped")

	grpcHealth.Shutdown()
	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")

	cancel()

	// Drain the ledger queue before closing stores
	submissions.Close()
	wg.Wait()
	logger.Info("ledger workers stopped")

	if rdb != nil {
		_ = rdb.Close()
	}
	if db != nil {
		_ = db.Close()
	}
	logger.Info("connections closed")
}
