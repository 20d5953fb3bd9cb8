package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smunity/smunity/internal/api"
	"github.com/smunity/smunity/internal/app"
	"github.com/smunity/smunity/internal/app/maintenance"
	iauth "github.com/smunity/smunity/internal/auth"
	"github.com/smunity/smunity/internal/database"
	"github.com/smunity/smunity/internal/services"
	"github.com/smunity/smunity/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("smunity-server", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var configPath string
	fs.StringVar(&configPath, "config", "", "Path to configuration directory or file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadApplicationConfig(configPath)
	if err != nil {
		return err
	}

	if err := app.ConfigureLogging(cfg.Server.LogLevel); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync() // best effort

	log := logger.WithModule("bootstrap")

	if strings.TrimSpace(cfg.Auth.JWT.Secret) == "" {
		return errors.New("auth.jwt.secret must be configured")
	}

	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := initialiseDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db, log)

	jwtService, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	if err != nil {
		return fmt.Errorf("initialise jwt service: %w", err)
	}

	sessionSvc, err := iauth.NewSessionService(db, jwtService, cfg.Auth.SessionServiceConfig())
	if err != nil {
		return fmt.Errorf("initialise session service: %w", err)
	}

	guard, err := iauth.NewGuard(db, cfg.Guard.GuardServiceConfig())
	if err != nil {
		return fmt.Errorf("initialise access guard: %w", err)
	}

	var resolver iauth.SessionResolver
	if cfg.Identity.Remote {
		resolver = iauth.NewRemoteResolver(cfg.Identity.BaseURL, cfg.Identity.Timeout)
		log.Info("resolving sessions remotely", zap.String("provider", cfg.Identity.BaseURL))
	} else {
		resolver = iauth.NewLocalResolver(db, jwtService)
	}

	auditSvc, err := services.NewAuditService(db)
	if err != nil {
		return fmt.Errorf("initialise audit service: %w", err)
	}

	inviteSvc, err := services.NewInviteService(db, auditSvc,
		services.WithInviteExpiry(cfg.Guard.InviteExpiry))
	if err != nil {
		return fmt.Errorf("initialise invite service: %w", err)
	}

	if cfg.Maintenance.Enabled {
		cleaner := maintenance.NewCleaner(sessionSvc, inviteSvc, auditSvc,
			maintenance.WithAuditRetentionDays(cfg.Maintenance.AuditRetentionDays),
			maintenance.WithSessionSchedule(cfg.Maintenance.SessionSchedule),
			maintenance.WithInviteSchedule(cfg.Maintenance.InviteSchedule),
			maintenance.WithAuditSchedule(cfg.Maintenance.AuditSchedule))
		if err := cleaner.Start(); err != nil {
			return fmt.Errorf("start maintenance jobs: %w", err)
		}
		defer func() {
			stopCtx := cleaner.Stop()
			if err := cleaner.RunOnce(stopCtx); err != nil {
				log.Warn("maintenance shutdown cleanup failed", zap.Error(err))
			}
		}()
	}

	router, err := api.NewRouter(api.Deps{
		DB:       db,
		Guard:    guard,
		Resolver: resolver,
		Sessions: sessionSvc,
	})
	if err != nil {
		return fmt.Errorf("build api router: %w", err)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	if err, ok := <-serverErr; ok && err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

func loadApplicationConfig(path string) (*app.Config, error) {
	switch {
	case strings.TrimSpace(path) == "":
		return app.LoadConfig()
	default:
		info, err := os.Stat(path)
		if err == nil {
			if info.IsDir() {
				return app.LoadConfig(path)
			}
			return app.LoadConfig(filepath.Dir(path))
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config path %q does not exist", path)
		}
		return nil, fmt.Errorf("stat config path: %w", err)
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.DatabaseServiceConfig()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrateAndSeed(db); err != nil {
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", dbCfg.Driver))

	return db, nil
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("failed to obtain underlying sql DB for closing", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
}
