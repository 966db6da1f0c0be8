// Command passnext-server starts the vault and security-analysis HTTP server.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vrushal09/passnext/internal/auth"
	"github.com/vrushal09/passnext/internal/backup"
	"github.com/vrushal09/passnext/internal/breach"
	"github.com/vrushal09/passnext/internal/config"
	"github.com/vrushal09/passnext/internal/crypto/fieldcrypto"
	"github.com/vrushal09/passnext/internal/dashboard"
	"github.com/vrushal09/passnext/internal/migrate"
	"github.com/vrushal09/passnext/internal/notify"
	"github.com/vrushal09/passnext/internal/repository/postgres"
	httpserver "github.com/vrushal09/passnext/internal/server/http"
	"github.com/vrushal09/passnext/internal/service"
	"github.com/vrushal09/passnext/internal/settings"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses configuration, runs migrations, and starts the HTTP server.
func main() {
	cfgPath := flag.String("config", "", "path to YAML config (optional)")
	addr := flag.String("addr", "", "listen address")
	dsn := flag.String("dsn", "", "PostgreSQL DSN")
	jwtKey := flag.String("jwt-key", "", "HS256 signing key (required)")
	vaultKey := flag.String("vault-key", "", "hex-encoded 32-byte AES key (required)")
	accessTTL := flag.Duration("access-ttl", 0, "access token TTL")
	hibpKey := flag.String("hibp-api-key", "", "Have I Been Pwned API key (optional)")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(*cfgPath, config.Defaults())
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	// flags win over the file
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dsn != "" {
		cfg.DSN = *dsn
	}
	if *jwtKey != "" {
		cfg.JWTKey = *jwtKey
	}
	if *vaultKey != "" {
		cfg.VaultKey = *vaultKey
	}
	if *accessTTL != 0 {
		cfg.AccessTTL = *accessTTL
	}
	if *hibpKey != "" {
		cfg.HIBP.APIKey = *hibpKey
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
	)

	key, err := hex.DecodeString(cfg.VaultKey)
	if err != nil {
		logger.Fatal("decode vault key", zap.Error(err))
	}
	cryptor, err := fieldcrypto.New(key)
	if err != nil {
		logger.Fatal("init field cryptor", zap.Error(err))
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// DB pool
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		logger.Fatal("pgxpool.New", zap.Error(err))
	}
	defer pool.Close()

	// Repositories
	db := &postgres.DB{Pool: pool}
	passwordRepo := postgres.NewPasswordRepo(db)
	sentLogRepo := postgres.NewSentLogRepo(db)

	// Services
	tokens := auth.NewTokenManager([]byte(cfg.JWTKey), cfg.AccessTTL)
	vaultSvc := service.NewVaultService(passwordRepo, cryptor)
	breachClient := breach.New(breach.Config{
		APIKey:         cfg.HIBP.APIKey,
		RangeBaseURL:   cfg.HIBP.RangeBaseURL,
		AccountBaseURL: cfg.HIBP.AccountBaseURL,
		UserAgent:      cfg.HIBP.UserAgent,
	}, logger)
	prefsStore := settings.NewStore("")
	dispatcher := notify.NewDispatcher(notify.NewLogScheduler(logger), sentLogRepo, prefsStore, logger)
	aggregator := dashboard.New(breachClient, dispatcher, dashboard.Options{}, logger)

	var backupSvc httpserver.BackupService
	if cfg.Backup.Endpoint != "" {
		b, err := backup.New(backup.Config{
			Endpoint:  cfg.Backup.Endpoint,
			AccessKey: cfg.Backup.AccessKey,
			SecretKey: cfg.Backup.SecretKey,
			Bucket:    cfg.Backup.Bucket,
			UseSSL:    cfg.Backup.UseSSL,
		}, passwordRepo, logger)
		if err != nil {
			logger.Fatal("init backup storage", zap.Error(err))
		}
		backupSvc = b
	}

	srv := httpserver.New(httpserver.Deps{
		Vault:     vaultSvc,
		Breach:    breachClient,
		Dashboard: aggregator,
		Prefs:     prefsStore,
		Backup:    backupSvc,
		Tokens:    tokens,
		Log:       logger,
	})

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := srv.Run(ctx, cfg.Addr); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
