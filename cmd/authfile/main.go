package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/lockplane/authfile"
	"github.com/lockplane/authfile/config"
	"github.com/lockplane/authfile/logging"
	"github.com/lockplane/authfile/mailer"
	"github.com/lockplane/authfile/ratelimit"
	"github.com/lockplane/authfile/server"
	"github.com/lockplane/authfile/storage"
)

func main() {
	cfg := config.Load()

	level := "info"
	if cfg.Env == "development" {
		level = "debug"
	}
	logger := logging.New(level)

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DBDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	if err := authfile.RunMigrations(context.Background(), db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	repo := authfile.NewRepositoryManager(db)
	tokens := authfile.NewTokenService(
		[]byte(cfg.SigningKey),
		cfg.AccessTTL,
		cfg.RefreshTTL,
		cfg.Issuer,
		nil,
		logger,
	)
	registry := authfile.NewRedisRevocationRegistry(rdb).WithLogger(logger)

	sessions := authfile.NewSessionManager(repo, tokens, registry).WithLogger(logger)
	tokenStore := authfile.NewTokenStore(repo).WithLogger(logger)

	var mail authfile.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	} else {
		logger.Warn("MAIL_SERVER not set, outgoing mail goes to the log")
		mail = mailer.NewLog()
	}

	flows := authfile.NewFlows(repo, tokenStore, sessions, mail, cfg.BaseURL).WithLogger(logger)
	register := authfile.NewRegisterUserHandler(repo, flows)

	store, err := buildStorageChain(cfg, logger)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	limiter := ratelimit.New(rdb, cfg.RateLimitPerMinute, time.Minute)

	app := fiber.New(fiber.Config{
		AppName:   "authfile",
		BodyLimit: int(cfg.MaxFileSize) + 1<<20,
	})

	handler := server.NewHandler(sessions, flows, register, logger)
	files := server.NewFileHandler(repo, store, cfg.MaxFileSize, cfg.AllowedExts, logger)
	server.RegisterRoutes(app, handler, files, tokens, limiter)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown: %v", err)
	}
}

// buildStorageChain assembles the failover chain in priority order: S3
// first when configured, local disk as the fallback.
func buildStorageChain(cfg *config.Config, logger authfile.Logger) (*storage.Chain, error) {
	var stores []storage.Store

	if cfg.S3AccessKey != "" {
		s3store, err := storage.NewS3(context.Background(), storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
		})
		if err != nil {
			logger.Warn("s3 backend unavailable, continuing without it: %v", err)
		} else {
			stores = append(stores, s3store)
		}
	}

	local, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	stores = append(stores, local)

	return storage.NewChain(stores...).WithLogger(logger), nil
}
