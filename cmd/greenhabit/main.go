package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/greenhabit/internal/config"
	"github.com/xxxsen/greenhabit/internal/db"
	"github.com/xxxsen/greenhabit/internal/handler"
	"github.com/xxxsen/greenhabit/internal/metrics"
	"github.com/xxxsen/greenhabit/internal/repo"
	"github.com/xxxsen/greenhabit/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "greenhabit",
		Short: "sustainable habits tracker api",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "apply migrations and run the http server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := setup(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()
			return runServer(cfg, conn)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := setup(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()
			logutil.GetLogger(context.Background()).Info("migrations applied")
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (.json, .yaml)")
	rootCmd.AddCommand(runCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

// setup loads config, initialises logging, opens the store and migrates it.
func setup(configPath string) (*config.Config, *db.Conn, error) {
	if configPath == "" {
		return nil, nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded",
		zap.String("config", configPath),
		zap.String("db_driver", cfg.DB.Driver),
	)

	conn, err := db.Open(cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.ApplyMigrations(context.Background(), conn); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return cfg, conn, nil
}

func runServer(cfg *config.Config, conn *db.Conn) error {
	if cfg.LogConfig.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	var recorder metrics.Recorder = metrics.NewNoop()
	var prom *metrics.Prometheus
	if cfg.Metrics.Enabled {
		prom = metrics.NewPrometheus()
		recorder = prom
	}

	userRepo := repo.NewUserRepo(conn)
	habitRepo := repo.NewHabitRepo(conn)
	entryRepo := repo.NewTrackingEntryRepo(conn)

	authService := service.NewAuthService(userRepo, []byte(cfg.JWTSecret), cfg.JWTTTL(), recorder)
	habitService := service.NewHabitService(habitRepo, entryRepo, recorder)
	summaryService := service.NewSummaryService(entryRepo)

	rps, burst := cfg.RateLimit.Limit()
	engine := handler.NewRouter(handler.RouterDeps{
		Auth:           handler.NewAuthHandler(authService),
		Habits:         handler.NewHabitHandler(habitService),
		Summary:        handler.NewSummaryHandler(summaryService),
		Health:         handler.NewHealthHandler(conn),
		Authenticator:  authService,
		Metrics:        prom,
		CORSAllowlist:  cfg.CORSAllowlist,
		RateLimitRPS:   rps,
		RateLimitBurst: burst,
	})

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logutil.GetLogger(context.Background()).Info("http server listening",
			zap.String("addr", addr),
			zap.Bool("metrics", cfg.Metrics.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logutil.GetLogger(context.Background()).Info("server stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
