package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corpgpt/auth-service/internal/api"
	"github.com/corpgpt/auth-service/internal/core/ports"
	"github.com/corpgpt/auth-service/internal/core/service"
	"github.com/corpgpt/auth-service/internal/infrastructure/config"
	"github.com/corpgpt/auth-service/internal/infrastructure/db/memory"
	"github.com/corpgpt/auth-service/internal/infrastructure/db/mongo"
	redisdb "github.com/corpgpt/auth-service/internal/infrastructure/db/redis"
	"github.com/corpgpt/auth-service/internal/infrastructure/queue"
	"github.com/corpgpt/auth-service/internal/infrastructure/storage"
	"github.com/corpgpt/auth-service/internal/notify"
	"github.com/corpgpt/auth-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.Init(logger.Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Pretty: os.Getenv("ENV") == "development",
	})

	cfg := config.Load(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		users     ports.UserRepository
		sessions  ports.SessionStore
		challenge ports.ChallengeStore
		otps      ports.OTPStore
		auditRepo ports.AuditRepository
	)

	deps := api.Deps{JWTSecret: cfg.JWTSecret, Logger: log}

	if cfg.DemoMode {
		repo := memory.NewUserRepository()
		if err := repo.SeedDemoUsers(); err != nil {
			log.Fatal().Err(err).Msg("seed demo users")
		}
		users = repo
		sessions = memory.NewSessionStore()
		challenge = memory.NewChallengeStore()
		otps = memory.NewOTPStore()
		auditRepo = memory.NewAuditRepository()
		cfg.RequireVerification = false
		log.Info().Msg("demo mode: in-memory stores, seeded users, verification disabled")
	} else {
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connect")
		}
		defer func() {
			_ = client.Disconnect(context.Background())
		}()

		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect")
		}
		defer rdb.Close()

		userRepo := mongo.NewUserRepository(db)
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("mongo user indexes")
		}
		users = userRepo
		sessions = redisdb.NewSessionStore(rdb)
		challenge = redisdb.NewChallengeStore(rdb)
		otps = redisdb.NewOTPStore(rdb)
		auditRepo = mongo.NewAuditRepository(db)

		deps.Mongo = db
		deps.Redis = rdb
	}

	proofs, err := storage.NewProofStore(cfg.UploadDir, cfg.ProofKey)
	if err != nil {
		log.Fatal().Err(err).Msg("proof store init")
	}

	mailer := notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, log)

	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditRepo, log)
	dispatcher.Start(ctx)

	authService := service.NewAuthService(users, sessions, challenge, otps, proofs, mailer, dispatcher, service.Config{
		JWTSecret:           cfg.JWTSecret,
		AccessTokenTTL:      cfg.AccessTokenTTL,
		RefreshTokenTTL:     cfg.RefreshTokenTTL,
		OTPTTL:              cfg.OTPTTL,
		ChallengeTTL:        cfg.MFAChallengeTTL,
		RequireVerification: cfg.RequireVerification,
		RequireApproval:     cfg.RequireApproval,
		RequireEmailDomain:  cfg.RequireEmailDomain,
	}, log)

	deps.AuthService = authService
	deps.AuditRepo = auditRepo

	e := api.NewRouter(deps)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("auth service listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
