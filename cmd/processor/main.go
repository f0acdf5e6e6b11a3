package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"starmus/internal/adapters/eventbroker/nats"
	"starmus/internal/adapters/media/ffmpeg"
	"starmus/internal/adapters/repository/postgres"
	"starmus/internal/adapters/storage/minio"
	"starmus/internal/config"
	"starmus/internal/core/port"
	"starmus/internal/core/service/pipeline"
	"sync"
	"syscall"
	"time"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	// Initialize database
	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()
	logger.Info("db connection established")

	minioAdapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
	if err != nil {
		logger.Error("failed to init minio", "error", err)
		os.Exit(1)
	}
	logger.Info("minio adapter initialized")

	publisher, err := nats.NewNATSPublisher(ctx, cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to create NATS publisher", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close NATS publisher", "error", err)
		}
	}()

	// Initialize services
	unitOfWork := postgres.NewUnitOfWork(db)
	tools := ffmpeg.NewTools(cfg.Pipeline, logger)
	pipelineService := pipeline.NewPipelineService(unitOfWork, minioAdapter, tools, tools, publisher, cfg.Pipeline, logger)

	// Initialize NATS consumer
	natsConsumer, err := nats.NewNATSConsumer(cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to create NATS consumer", "error", err)
		os.Exit(1)
	}
	logger.Info("NATS consumer initialized")

	if err := natsConsumer.Subscribe(ctx, pipelineService); err != nil {
		logger.Error("failed to subscribe to NATS", "error", err)
		natsConsumer.Close()
		os.Exit(1)
	}
	logger.Info("NATS subscription active", "subject", cfg.NATS.Subject)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		initDispatchTask(ctx, pipelineService, cfg.Pipeline.DispatchEvery, logger)
	}()

	// Wait for termination signal
	<-ctx.Done()
	logger.Info("gracefully shutting down processor")

	if err := natsConsumer.Close(); err != nil {
		logger.Error("failed to close NATS consumer during shutdown", "error", err)
	}
	wg.Wait()

	logger.Info("processor shutdown complete")
}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}

// initDispatchTask republishes overdue pending jobs until ctx is done
func initDispatchTask(ctx context.Context, service port.PipelineService, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("dispatch task initialized", "interval", every)

	for {
		select {
		case now := <-ticker.C:
			if err := service.DispatchDue(ctx, now); err != nil {
				logger.Error("failed to dispatch due jobs", "error", err)
			}
		case <-ctx.Done():
			logger.Info("dispatch task stopped")
			return
		}
	}
}
